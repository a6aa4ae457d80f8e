// Package chaos provides a bounded nonlinear oscillator whose output adds
// exploratory variation to forward motion.
package chaos

import (
	"math"

	"navcore/internal/vector"
)

// Params configures the Lorenz system and the blend strength.
type Params struct {
	Sigma float64
	Rho   float64
	Beta  float64
	Level float64
}

func DefaultParams() Params {
	return Params{
		Sigma: 10.0,
		Rho:   28.0,
		Beta:  8.0 / 3.0,
		Level: 0.15,
	}
}

// Modulator integrates a Lorenz attractor one small step per cycle and
// exposes tanh-saturated state. The trajectory is deterministic from the
// fixed seed state; it lives only in memory and resets on restart.
type Modulator struct {
	params Params
	x      float64
	y      float64
	z      float64
}

const stepSize = 0.01

func NewModulator(params Params) *Modulator {
	m := &Modulator{params: params}
	m.Reset()
	return m
}

// Reset returns the oscillator to its fixed seed state.
func (m *Modulator) Reset() {
	m.x, m.y, m.z = 0.1, 0.2, 0.3
}

// Step advances the attractor and returns the saturated state triple, each
// component in (-1, 1).
func (m *Modulator) Step() (float64, float64, float64) {
	dx := m.params.Sigma * (m.y - m.x)
	dy := m.x*(m.params.Rho-m.z) - m.y
	dz := m.x*m.y - m.params.Beta*m.z

	m.x += dx * stepSize
	m.y += dy * stepSize
	m.z += dz * stepSize

	return math.Tanh(m.x / 20.0), math.Tanh(m.y / 25.0), math.Tanh(m.z / 30.0)
}

// Blend nudges a forward speed pair using the chaos triple: the z component
// sets intensity, x steers, y scales. Outputs are clamped to [0, 150].
func (m *Modulator) Blend(speedLeft, speedRight, cx, cy, cz float64) (float64, float64) {
	intensity := math.Abs(cz) * m.params.Level * 0.5
	directionBias := cx * 20 * intensity
	speedScale := 1.0 + cy*0.2*intensity

	newLeft := vector.Clamp(speedLeft*speedScale+directionBias, 0, 150)
	newRight := vector.Clamp(speedRight*speedScale-directionBias, 0, 150)
	return newLeft, newRight
}
