// Package io provides the sensor and actuator components that connect the
// decision engine to a harness or hardware bridge. Components carry no
// decision logic; they hold the latest value behind a mutex.
package io

import (
	"context"
	"sync"
)

const (
	FrontRangeSensorName = "front_range"
	LeftRangeSensorName  = "left_range"
	RightRangeSensorName = "right_range"
	DriveActuatorName    = "drive_output"
)

// RangeSensor holds one distance reading in mm. Harnesses push values with
// Set; the engine side pulls them with Read.
type RangeSensor struct {
	name string

	mu    sync.RWMutex
	value float64
}

func NewRangeSensor(name string, initial float64) *RangeSensor {
	return &RangeSensor{name: name, value: initial}
}

func (s *RangeSensor) Name() string {
	return s.name
}

func (s *RangeSensor) Read(_ context.Context) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return []float64{s.value}, nil
}

func (s *RangeSensor) Set(value float64) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// DriveActuator records the latest left/right speed pair written by the
// engine side.
type DriveActuator struct {
	mu   sync.RWMutex
	last []float64
}

func NewDriveActuator() *DriveActuator {
	return &DriveActuator{}
}

func (a *DriveActuator) Name() string {
	return DriveActuatorName
}

func (a *DriveActuator) Write(_ context.Context, values []float64) error {
	a.mu.Lock()
	a.last = append([]float64(nil), values...)
	a.mu.Unlock()
	return nil
}

func (a *DriveActuator) Last() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]float64(nil), a.last...)
}

func init() {
	initializeDefaultComponents()
}

func initializeDefaultComponents() {
	for _, name := range []string{FrontRangeSensorName, LeftRangeSensorName, RightRangeSensorName} {
		name := name
		err := RegisterSensor(SensorSpec{
			Name:          name,
			Factory:       func() Sensor { return NewRangeSensor(name, 0) },
			SchemaVersion: SupportedSchemaVersion,
			CodecVersion:  SupportedCodecVersion,
		})
		if err != nil {
			panic(err)
		}
	}
	err := RegisterActuator(ActuatorSpec{
		Name:          DriveActuatorName,
		Factory:       func() Actuator { return NewDriveActuator() },
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
	if err != nil {
		panic(err)
	}
}
