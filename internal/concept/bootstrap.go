package concept

import (
	"navcore/internal/model"
	"navcore/internal/vector"
)

// DefaultModelName identifies the bootstrap concept model in storage.
const DefaultModelName = "default"

// prototype is a named sensor situation used to seed a concept model before
// any field data exists.
type prototype struct {
	name       string
	front      float64
	left       float64
	right      float64
	speedLeft  float64
	speedRight float64
	category   model.Category
}

var basicSituations = []prototype{
	{"CLEAR_SPACE_ALL_SIDES", 350, 300, 300, 120, 120, model.CategoryNavigation},
	{"OPEN_AREA_EXPLORE", 300, 250, 250, 110, 110, model.CategoryExploration},
	{"SPACE_SEEKING_LEFT_OPEN", 200, 350, 100, 70, 120, model.CategoryExploration},
	{"SPACE_SEEKING_RIGHT_OPEN", 200, 100, 350, 120, 70, model.CategoryExploration},
	{"FORWARD_FAVOR_LEFT_SPACE", 250, 300, 150, 90, 110, model.CategoryNavigation},
	{"FORWARD_FAVOR_RIGHT_SPACE", 250, 150, 300, 110, 90, model.CategoryNavigation},
	{"LEFT_WALL_SPACE_RIGHT", 200, 50, 300, 110, 80, model.CategoryAvoidance},
	{"RIGHT_WALL_SPACE_LEFT", 200, 300, 50, 80, 110, model.CategoryAvoidance},
	{"FRONT_BLOCKED_SPACE_LEFT", 60, 250, 100, 40, 120, model.CategoryAvoidance},
	{"FRONT_BLOCKED_SPACE_RIGHT", 60, 100, 250, 120, 40, model.CategoryAvoidance},
	{"FRONT_BLOCKED_EQUAL", 60, 150, 150, 50, 50, model.CategoryEmergency},
	{"WARNING_FRONT_FAVOR_LEFT", 100, 250, 120, 60, 100, model.CategoryAvoidance},
	{"WARNING_FRONT_FAVOR_RIGHT", 100, 120, 250, 100, 60, model.CategoryAvoidance},
	{"WARNING_FRONT_NARROW", 100, 100, 100, 50, 50, model.CategoryEmergency},
	{"CORRIDOR_CENTERED", 250, 80, 80, 90, 90, model.CategoryNavigation},
	{"CORRIDOR_DRIFT_LEFT", 250, 100, 60, 85, 95, model.CategoryNavigation},
	{"CORRIDOR_DRIFT_RIGHT", 250, 60, 100, 95, 85, model.CategoryNavigation},
	{"TIGHT_PASSAGE_CRITICAL", 200, 60, 60, 40, 40, model.CategoryNavigation},
	{"TIGHT_PASSAGE_SLOW", 200, 90, 90, 60, 60, model.CategoryNavigation},
	{"CRITICAL_RIGHT_ESCAPE_LEFT", 100, 200, 30, 30, 120, model.CategoryEmergency},
	{"CRITICAL_LEFT_ESCAPE_RIGHT", 100, 30, 200, 120, 30, model.CategoryEmergency},
	{"TRAPPED_ALL_BLOCKED", 40, 40, 40, -60, 60, model.CategoryEmergency},
	{"DANGER_SEEK_LEFT", 80, 250, 100, 40, 100, model.CategoryAvoidance},
	{"DANGER_SEEK_RIGHT", 80, 100, 250, 100, 40, model.CategoryAvoidance},
	{"DRIFT_AWAY_FROM_LEFT", 250, 60, 200, 100, 80, model.CategoryNavigation},
	{"DRIFT_AWAY_FROM_RIGHT", 250, 200, 60, 80, 100, model.CategoryNavigation},
	{"ACTIVE_SEEK_LEFT_SPACE", 200, 320, 150, 80, 130, model.CategoryExploration},
	{"ACTIVE_SEEK_RIGHT_SPACE", 200, 150, 320, 130, 80, model.CategoryExploration},
	{"NORMAL_NAVIGATION", 200, 150, 150, 100, 100, model.CategoryNavigation},
	{"DEFAULT_CAUTIOUS", 150, 120, 120, 90, 90, model.CategoryNavigation},
	{"CHAOS_SLOW_MANEUVER", 120, 120, 120, 50, 70, model.CategoryChaos},
	{"CHAOS_DRIFT_MANEUVER", 180, 200, 120, 90, 110, model.CategoryChaos},
}

// BootstrapModel vectorizes the built-in situation prototypes into a concept
// model suitable for a robot that has not collected any field data yet.
func BootstrapModel(v vector.Vectorizer, schemaVersion, codecVersion int) model.ConceptModel {
	m := model.ConceptModel{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: schemaVersion,
			CodecVersion:  codecVersion,
		},
		Name:      DefaultModelName,
		VectorDim: model.VectorDim,
		Concepts:  make([]model.Concept, 0, len(basicSituations)),
	}
	for _, p := range basicSituations {
		vec := v.Vectorize(model.SensorReading{
			Front:      p.front,
			Left:       p.left,
			Right:      p.right,
			SpeedLeft:  p.speedLeft,
			SpeedRight: p.speedRight,
		})
		m.Concepts = append(m.Concepts, model.Concept{
			Name:     p.name,
			Vector:   vec,
			Category: p.category,
		})
	}
	return m
}
