package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// VectorDim is the fixed feature vector width shared by concept models,
// learned vectors, and the vectorizer.
const VectorDim = 38

// Action is a motor command class for a differential drive.
//
// Direction convention: TURN_LEFT drives the left wheel slower and the right
// wheel faster, rotating the body counter-clockwise. TURN_RIGHT is the mirror.
type Action string

const (
	ActionForward   Action = "FORWARD"
	ActionTurnLeft  Action = "TURN_LEFT"
	ActionTurnRight Action = "TURN_RIGHT"
	ActionStop      Action = "STOP"
	ActionEscape    Action = "ESCAPE"
	ActionReverse   Action = "REVERSE"
)

// Source identifies which arbitration path produced a decision.
type Source string

const (
	SourceManeuver        Source = "maneuver"
	SourceRuleFuse        Source = "rule_fuse"
	SourceConceptMatch    Source = "concept_match"
	SourceOnlineMatch     Source = "online_match"
	SourceVague           Source = "vague"
	SourceAntiOscillation Source = "anti_oscillation"
)

// Category groups concepts for per-category confidence weighting.
type Category string

const (
	CategoryNavigation  Category = "navigation"
	CategoryAvoidance   Category = "avoidance"
	CategoryEmergency   Category = "emergency"
	CategoryExploration Category = "exploration"
	CategoryChaos       Category = "chaos"
)

// SensorReading is one cycle of raw input: distances in mm and signed wheel
// speed scalars. Produced by the caller each tick, never persisted.
type SensorReading struct {
	Front      float64
	Left       float64
	Right      float64
	SpeedLeft  float64
	SpeedRight float64
}

// Decision is the per-cycle output command. Speeds are clamped to [0,150]
// except for escape/reverse actions, which may carry negative components.
type Decision struct {
	Action     Action   `json:"action"`
	SpeedLeft  float64  `json:"speed_left"`
	SpeedRight float64  `json:"speed_right"`
	Confidence float64  `json:"confidence"`
	Concept    string   `json:"concept"`
	Category   Category `json:"category,omitempty"`
	Source     Source   `json:"source"`
	Cycle      int      `json:"cycle"`
}

// Concept is a named reference feature vector with a category.
type Concept struct {
	Name     string    `json:"name"`
	Vector   []float64 `json:"vector"`
	Category Category  `json:"category"`
}

// ConceptModel is the persisted concept database loaded read-only at startup.
type ConceptModel struct {
	VersionedRecord
	Name      string    `json:"name"`
	VectorDim int       `json:"vector_dim"`
	Concepts  []Concept `json:"concepts"`
}

// LearningState is the persisted output of online learning: per-category
// confidence weights and per-concept learned vectors.
type LearningState struct {
	VersionedRecord
	ID        string               `json:"id"`
	SessionID string               `json:"session_id,omitempty"`
	Weights   map[string]float64   `json:"weights"`
	Vectors   map[string][]float64 `json:"vectors"`
}
