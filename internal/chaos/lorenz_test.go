package chaos

import (
	"math"
	"testing"
)

func TestStepDeterministic(t *testing.T) {
	a := NewModulator(DefaultParams())
	b := NewModulator(DefaultParams())
	for i := 0; i < 1000; i++ {
		ax, ay, az := a.Step()
		bx, by, bz := b.Step()
		if ax != bx || ay != by || az != bz {
			t.Fatalf("step %d diverged: (%v,%v,%v) vs (%v,%v,%v)", i, ax, ay, az, bx, by, bz)
		}
	}
}

func TestStepBounded(t *testing.T) {
	m := NewModulator(DefaultParams())
	for i := 0; i < 10000; i++ {
		x, y, z := m.Step()
		for _, v := range []float64{x, y, z} {
			if math.IsNaN(v) || v <= -1 || v >= 1 {
				t.Fatalf("step %d out of (-1,1): %v", i, v)
			}
		}
	}
}

func TestResetRestartsTrajectory(t *testing.T) {
	m := NewModulator(DefaultParams())
	x1, y1, z1 := m.Step()
	for i := 0; i < 100; i++ {
		m.Step()
	}
	m.Reset()
	x2, y2, z2 := m.Step()
	if x1 != x2 || y1 != y2 || z1 != z2 {
		t.Fatalf("trajectory not reset: (%v,%v,%v) vs (%v,%v,%v)", x1, y1, z1, x2, y2, z2)
	}
}

func TestStepVaries(t *testing.T) {
	m := NewModulator(DefaultParams())
	x1, _, _ := m.Step()
	var moved bool
	for i := 0; i < 200; i++ {
		x, _, _ := m.Step()
		if math.Abs(x-x1) > 1e-6 {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("attractor state never moved")
	}
}

func TestBlendStaysInRange(t *testing.T) {
	m := NewModulator(DefaultParams())
	for i := 0; i < 5000; i++ {
		cx, cy, cz := m.Step()
		l, r := m.Blend(120, 120, cx, cy, cz)
		if l < 0 || l > 150 || r < 0 || r > 150 {
			t.Fatalf("blend out of range: %v, %v", l, r)
		}
	}
}

func TestBlendZeroTripleIsIdentity(t *testing.T) {
	m := NewModulator(DefaultParams())
	l, r := m.Blend(100, 80, 0, 0, 0)
	if l != 100 || r != 80 {
		t.Fatalf("zero chaos altered speeds: %v, %v", l, r)
	}
}

func TestBlendIsSmallPerturbation(t *testing.T) {
	m := NewModulator(DefaultParams())
	for i := 0; i < 1000; i++ {
		cx, cy, cz := m.Step()
		l, r := m.Blend(100, 100, cx, cy, cz)
		// Level 0.15 keeps the nudge within a few percent of base speed.
		if math.Abs(l-100) > 10 || math.Abs(r-100) > 10 {
			t.Fatalf("perturbation too large: %v, %v", l, r)
		}
	}
}
