package vector

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Fatalf("clamp in range = %v", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Fatalf("clamp below = %v", got)
	}
	if got := Clamp(42, 0, 10); got != 10 {
		t.Fatalf("clamp above = %v", got)
	}
}

func TestNormalized(t *testing.T) {
	v := []float64{3, 4}
	n := Normalized(v)
	if math.Abs(Norm(n)-1.0) > 1e-12 {
		t.Fatalf("norm = %v, want 1", Norm(n))
	}
	if v[0] != 3 || v[1] != 4 {
		t.Fatal("input mutated")
	}

	zero := []float64{0, 0, 0}
	if got := Normalized(zero); Norm(got) != 0 {
		t.Fatalf("zero vector changed: %v", got)
	}
}

func TestDotAndCosine(t *testing.T) {
	if got := Dot([]float64{1, 2}, []float64{3, 4}); got != 11 {
		t.Fatalf("dot = %v, want 11", got)
	}
	if got := Dot([]float64{1, 2}, []float64{3}); got != 0 {
		t.Fatalf("mismatched dot = %v, want 0", got)
	}

	if got := Cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("orthogonal cosine = %v, want 0", got)
	}
	if got := Cosine([]float64{2, 0}, []float64{7, 0}); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("parallel cosine = %v, want 1", got)
	}
	if got := Cosine([]float64{1, 1}, []float64{0, 0}); got != 0 {
		t.Fatalf("zero vector cosine = %v, want 0", got)
	}
}
