// Command composedemo drives the compose engine headless for a number
// of frames and prints the emitted draw commands of the last one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/backend/wgpu"
)

func main() {
	var (
		width   = flag.Int("width", 800, "viewport width")
		height  = flag.Int("height", 600, "viewport height")
		frames  = flag.Int("frames", 60, "number of frames to run")
		workers = flag.Int("workers", 0, "measurement workers (0 = GOMAXPROCS)")
	)
	flag.Parse()

	engine := compose.NewEngine(app(), compose.WithWorkers(*workers))
	defer engine.Close()

	renderer, err := wgpu.NewCommandRenderer(nil, *width, *height)
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer renderer.Close()

	root := compose.Tight(*width, *height)
	viewport := compose.NewRect(0, 0, *width, *height)

	var last *compose.Frame
	for i := 0; i < *frames; i++ {
		f, err := engine.Frame(context.Background(), root, viewport)
		if err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
		if err := renderer.Render(f.Commands); err != nil {
			log.Fatalf("render %d: %v", i, err)
		}
		last = f
	}

	fmt.Printf("frame %d: root %dx%d, %d commands, %d scissor batches\n",
		last.Number, last.RootSize.W, last.RootSize.H,
		len(last.Commands), len(renderer.Batches()))
	for _, cmd := range last.Commands {
		fmt.Printf("  %-12s rect=%v clip=%v\n", cmd.Paint.Kind, cmd.Rect, cmd.Clip)
	}
}

// app builds a small dashboard layout: a header bar, a sidebar, and a
// content area with a frame counter that exercises retained state.
func app() compose.Component {
	return compose.Component{Key: "app", Body: func(bc *compose.BuildContext) compose.Description {
		return compose.Description{
			Descriptor: compose.Descriptor{
				Width:  compose.Fill(1),
				Height: compose.Fill(1),
				Paint:  compose.Paint{Kind: compose.PaintRect, Color: compose.RGB(0.12, 0.12, 0.14)},
				Placer: compose.Column{},
			},
			Children: []compose.Component{
				header(),
				body(),
			},
		}
	}}
}

func header() compose.Component {
	return compose.Component{Key: "header", Body: func(*compose.BuildContext) compose.Description {
		return compose.Description{
			Descriptor: compose.Descriptor{
				Width:  compose.Fill(1),
				Height: compose.Fixed(48),
				Paint:  compose.Paint{Kind: compose.PaintRect, Color: compose.RGB(0.18, 0.2, 0.25)},
			},
		}
	}}
}

func body() compose.Component {
	return compose.Component{Key: "body", Body: func(*compose.BuildContext) compose.Description {
		return compose.Description{
			Descriptor: compose.Descriptor{
				Width:  compose.Fill(1),
				Height: compose.Fill(1),
				Placer: compose.Row{Spacing: 8},
			},
			Children: []compose.Component{
				sidebar(),
				content(),
			},
		}
	}}
}

func sidebar() compose.Component {
	return compose.Component{Key: "sidebar", Body: func(*compose.BuildContext) compose.Description {
		return compose.Description{
			Descriptor: compose.Descriptor{
				Width:  compose.Fixed(200),
				Height: compose.Fill(1),
				Paint:  compose.Paint{Kind: compose.PaintRect, Color: compose.RGB(0.15, 0.16, 0.2)},
			},
		}
	}}
}

func content() compose.Component {
	return compose.Component{Key: "content", Body: func(bc *compose.BuildContext) compose.Description {
		ticks := bc.State(func() any { return 0 }).(int)
		bc.SetState(ticks + 1)

		// The card pulses through the palette as the counter advances.
		shade := 0.3 + 0.2*float64(ticks%10)/10
		return compose.Description{
			Descriptor: compose.Descriptor{
				Width:  compose.Fill(1),
				Height: compose.Fill(1),
				Placer: compose.Stack{},
			},
			Children: []compose.Component{
				{Key: "card", Body: func(*compose.BuildContext) compose.Description {
					return compose.Description{
						Descriptor: compose.Descriptor{
							Width:  compose.Fixed(320),
							Height: compose.Fixed(180),
							Paint: compose.Paint{
								Kind:         compose.PaintRoundedRect,
								Color:        compose.RGB(shade, 0.4, 0.7),
								CornerRadius: 12,
							},
						},
					}
				}},
			},
		}
	}}
}
