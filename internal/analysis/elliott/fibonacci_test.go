package elliott

import (
	"math"
	"testing"
)

const priceTolerance = 1e-9

func TestRetracements_UpSwing(t *testing.T) {
	targets := Retracements(100, 200)
	want := map[float64]float64{
		0.236: 176.4,
		0.382: 161.8,
		0.5:   150.0,
		0.618: 138.2,
		0.786: 121.4,
	}

	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(targets))
	}
	for _, tgt := range targets {
		wantPrice, ok := want[tgt.Ratio]
		if !ok {
			t.Errorf("unexpected ratio %v", tgt.Ratio)
			continue
		}
		if math.Abs(tgt.Price-wantPrice) > priceTolerance {
			t.Errorf("ratio %v: expected %.4f, got %.10f", tgt.Ratio, wantPrice, tgt.Price)
		}
		if tgt.IsExtension {
			t.Errorf("ratio %v: retracement flagged as extension", tgt.Ratio)
		}
	}
}

func TestRetracements_DownSwing(t *testing.T) {
	// Retracements of a falling swing sit above its endpoint.
	for _, tgt := range Retracements(200, 100) {
		if tgt.Price <= 100 || tgt.Price >= 200 {
			t.Errorf("ratio %v: %.4f outside the swing (100, 200)", tgt.Ratio, tgt.Price)
		}
	}
}

func TestExtensions_UpSwing(t *testing.T) {
	targets := Extensions(100, 200)
	want := map[float64]float64{
		1.236: 323.6,
		1.618: 361.8,
		2.0:   400.0,
		2.618: 461.8,
	}

	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(targets))
	}
	for _, tgt := range targets {
		wantPrice, ok := want[tgt.Ratio]
		if !ok {
			t.Errorf("unexpected ratio %v", tgt.Ratio)
			continue
		}
		if math.Abs(tgt.Price-wantPrice) > priceTolerance {
			t.Errorf("ratio %v: expected %.4f, got %.10f", tgt.Ratio, wantPrice, tgt.Price)
		}
		if !tgt.IsExtension {
			t.Errorf("ratio %v: extension not flagged", tgt.Ratio)
		}
	}
}

func TestExtensions_DownSwing(t *testing.T) {
	// diff and direction are both negative, so the projection flips back
	// above the endpoint.
	targets := Extensions(200, 100)
	want := map[float64]float64{
		1.236: 223.6,
		1.618: 261.8,
		2.0:   300.0,
		2.618: 361.8,
	}
	for _, tgt := range targets {
		if math.Abs(tgt.Price-want[tgt.Ratio]) > priceTolerance {
			t.Errorf("ratio %v: expected %.4f, got %.10f", tgt.Ratio, want[tgt.Ratio], tgt.Price)
		}
	}
}

func TestFibonacci_ZeroLengthSwing(t *testing.T) {
	for _, tgt := range Retracements(150, 150) {
		if tgt.Price != 150 {
			t.Errorf("retracement ratio %v: expected 150, got %v", tgt.Ratio, tgt.Price)
		}
	}
	for _, tgt := range Extensions(150, 150) {
		if tgt.Price != 150 {
			t.Errorf("extension ratio %v: expected 150, got %v", tgt.Ratio, tgt.Price)
		}
	}
}

func TestRetracementPrice_RoundTrip(t *testing.T) {
	pairs := [][2]float64{{100, 200}, {200, 100}, {1.25, 3.75}, {-50, 75}}
	for _, p := range pairs {
		start, end := p[0], p[1]
		if got := retracementPrice(start, end, 0); got != end {
			t.Errorf("ratio 0 over (%v, %v): expected %v, got %v", start, end, end, got)
		}
		if got := retracementPrice(start, end, 1); got != start {
			t.Errorf("ratio 1 over (%v, %v): expected %v, got %v", start, end, start, got)
		}
	}
}

func TestFibonacci_Labels(t *testing.T) {
	targets := append(Retracements(100, 200), Extensions(100, 200)...)
	want := []string{"23.6%", "38.2%", "50.0%", "61.8%", "78.6%", "123.6%", "161.8%", "200.0%", "261.8%"}
	for i, tgt := range targets {
		if tgt.Label != want[i] {
			t.Errorf("target %d: expected label %q, got %q", i, want[i], tgt.Label)
		}
	}
}
