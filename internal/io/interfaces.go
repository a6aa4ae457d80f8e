package io

import "context"

type Sensor interface {
	Name() string
	Read(ctx context.Context) ([]float64, error)
}

// DistanceSetter is an optional sensor capability used by harnesses that
// feed scripted distance readings through concrete components.
type DistanceSetter interface {
	Set(value float64)
}

type Actuator interface {
	Name() string
	Write(ctx context.Context, values []float64) error
}

// SnapshotActuator is an optional actuator capability used by harnesses
// that inspect the most recent actuator output.
type SnapshotActuator interface {
	Last() []float64
}
