package io

import (
	"context"
	"fmt"

	"navcore/internal/model"
)

// Rig bundles the three range sensors and the drive actuator into one
// harness-facing unit: a scripted scenario pushes distances in, the engine
// side pulls a reading, and the resulting decision is written back out.
type Rig struct {
	front *RangeSensor
	left  *RangeSensor
	right *RangeSensor
	drive *DriveActuator
}

func NewRig() (*Rig, error) {
	rig := &Rig{}
	for _, bind := range []struct {
		name   string
		target **RangeSensor
	}{
		{FrontRangeSensorName, &rig.front},
		{LeftRangeSensorName, &rig.left},
		{RightRangeSensorName, &rig.right},
	} {
		sensor, err := ResolveSensor(bind.name)
		if err != nil {
			return nil, err
		}
		rs, ok := sensor.(*RangeSensor)
		if !ok {
			return nil, fmt.Errorf("sensor %s is not a range sensor", bind.name)
		}
		*bind.target = rs
	}

	actuator, err := ResolveActuator(DriveActuatorName)
	if err != nil {
		return nil, err
	}
	drive, ok := actuator.(*DriveActuator)
	if !ok {
		return nil, fmt.Errorf("actuator %s is not a drive actuator", DriveActuatorName)
	}
	rig.drive = drive
	return rig, nil
}

// SetDistances pushes one scripted distance triple, in mm.
func (r *Rig) SetDistances(front, left, right float64) {
	r.front.Set(front)
	r.left.Set(left)
	r.right.Set(right)
}

// Reading pulls the current sensor values as one engine input.
func (r *Rig) Reading(ctx context.Context) (model.SensorReading, error) {
	var reading model.SensorReading
	for _, bind := range []struct {
		sensor *RangeSensor
		target *float64
	}{
		{r.front, &reading.Front},
		{r.left, &reading.Left},
		{r.right, &reading.Right},
	} {
		values, err := bind.sensor.Read(ctx)
		if err != nil {
			return model.SensorReading{}, fmt.Errorf("read %s: %w", bind.sensor.Name(), err)
		}
		if len(values) != 1 {
			return model.SensorReading{}, fmt.Errorf("read %s: got %d values, want 1", bind.sensor.Name(), len(values))
		}
		*bind.target = values[0]
	}
	return reading, nil
}

// Apply writes a decision's speed pair to the drive actuator.
func (r *Rig) Apply(ctx context.Context, d model.Decision) error {
	return r.drive.Write(ctx, []float64{d.SpeedLeft, d.SpeedRight})
}

// LastCommand returns the most recently applied speed pair.
func (r *Rig) LastCommand() []float64 {
	return r.drive.Last()
}
