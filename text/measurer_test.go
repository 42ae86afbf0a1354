package text

import (
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/compose"
)

func newTestMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := NewMeasurer(goregular.TTF)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	return m
}

func TestNewMeasurerRejectsGarbage(t *testing.T) {
	if _, err := NewMeasurer([]byte("not a font")); err == nil {
		t.Fatal("NewMeasurer accepted garbage bytes")
	}
}

func TestMeasureBasics(t *testing.T) {
	m := newTestMeasurer(t)

	hello := m.Measure("Hello", 16)
	if hello.W <= 0 || hello.H <= 0 {
		t.Fatalf("Measure(Hello) = %v, want positive size", hello)
	}

	longer := m.Measure("Hello, world", 16)
	if longer.W <= hello.W {
		t.Errorf("longer string width %d <= shorter %d", longer.W, hello.W)
	}
	if longer.H != hello.H {
		t.Errorf("line height differs for same size: %d vs %d", longer.H, hello.H)
	}

	bigger := m.Measure("Hello", 32)
	if bigger.W <= hello.W || bigger.H <= hello.H {
		t.Errorf("32px size %v not larger than 16px %v", bigger, hello)
	}
}

func TestMeasureEmptyString(t *testing.T) {
	m := newTestMeasurer(t)
	s := m.Measure("", 16)
	if s.W != 0 {
		t.Errorf("empty string width = %d, want 0", s.W)
	}
	if s.H <= 0 {
		t.Errorf("empty string line height = %d, want positive", s.H)
	}
}

func TestMeasureFuncUnbounded(t *testing.T) {
	m := newTestMeasurer(t)
	fn := m.MeasureFunc("The quick brown fox", 14)

	sz, err := fn(compose.Constraints{MaxW: compose.Unbounded, MaxH: compose.Unbounded})
	if err != nil {
		t.Fatalf("MeasureFunc: %v", err)
	}
	want := m.Measure("The quick brown fox", 14)
	if sz != want {
		t.Errorf("unbounded measure = %v, want single-line %v", sz, want)
	}
}

func TestMeasureFuncWraps(t *testing.T) {
	m := newTestMeasurer(t)
	const s = "The quick brown fox jumps over the lazy dog"
	natural := m.Measure(s, 14)

	fn := m.MeasureFunc(s, 14)
	sz, err := fn(compose.Loose(natural.W/2, compose.Unbounded))
	if err != nil {
		t.Fatalf("MeasureFunc: %v", err)
	}
	if sz.W > natural.W/2 {
		t.Errorf("wrapped width %d exceeds max %d", sz.W, natural.W/2)
	}
	if sz.H < 2*natural.H {
		t.Errorf("wrapped height %d, want at least two lines (%d)", sz.H, 2*natural.H)
	}
}

func TestMeasureFuncMultiline(t *testing.T) {
	m := newTestMeasurer(t)
	one, err := m.MeasureFunc("alpha", 14)(compose.Loose(1000, 1000))
	if err != nil {
		t.Fatal(err)
	}
	three, err := m.MeasureFunc("alpha\nbeta\ngamma", 14)(compose.Loose(1000, 1000))
	if err != nil {
		t.Fatal(err)
	}
	if three.H != 3*one.H {
		t.Errorf("three-line height = %d, want %d", three.H, 3*one.H)
	}
}

func TestMeasureConcurrent(t *testing.T) {
	m := newTestMeasurer(t)
	want := m.Measure("concurrency", 16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := m.Measure("concurrency", 16); got != want {
					t.Errorf("concurrent Measure = %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
