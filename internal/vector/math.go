package vector

import "math"

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Norm returns the Euclidean length of the vector.
func Norm(values []float64) float64 {
	acc := 0.0
	for _, value := range values {
		acc += value * value
	}
	return math.Sqrt(acc)
}

// Normalized returns a unit-length copy of the vector. A zero vector is
// returned as an unchanged copy so callers never divide by zero.
func Normalized(values []float64) []float64 {
	out := append([]float64(nil), values...)
	norm := Norm(values)
	if norm == 0 {
		return out
	}
	for i := range out {
		out[i] /= norm
	}
	return out
}

// Dot returns the inner product. Mismatched lengths score zero; a sensor
// vector can never accidentally match a concept of another dimension.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	acc := 0.0
	for i := range a {
		acc += a[i] * b[i]
	}
	return acc
}

// Cosine returns the cosine similarity of two vectors of any magnitude.
func Cosine(a, b []float64) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}
