package vector

import (
	"math"

	"navcore/internal/model"
)

// DefaultMaxRange is the sensor range used to normalize distances, in mm.
const DefaultMaxRange = 400.0

// maxWheelSpeed scales speed inputs into ratios.
const maxWheelSpeed = 150.0

// Vectorizer turns raw sensor readings into fixed-width normalized feature
// vectors. It is stateless; Vectorize is a pure function of its input.
type Vectorizer struct {
	maxRange float64
}

func NewVectorizer(maxRange float64) Vectorizer {
	if maxRange <= 0 {
		maxRange = DefaultMaxRange
	}
	return Vectorizer{maxRange: maxRange}
}

func (v Vectorizer) MaxRange() float64 {
	return v.maxRange
}

// Sanitize replaces NaN or negative distances with the maximum range.
// An unreadable sensor reports "unknown", which must never look like an
// obstacle at zero distance.
func (v Vectorizer) Sanitize(r model.SensorReading) model.SensorReading {
	r.Front = v.sanitizeDistance(r.Front)
	r.Left = v.sanitizeDistance(r.Left)
	r.Right = v.sanitizeDistance(r.Right)
	if math.IsNaN(r.SpeedLeft) {
		r.SpeedLeft = 0
	}
	if math.IsNaN(r.SpeedRight) {
		r.SpeedRight = 0
	}
	return r
}

func (v Vectorizer) sanitizeDistance(d float64) float64 {
	if math.IsNaN(d) || d < 0 {
		return v.maxRange
	}
	return d
}

// Vectorize builds the feature vector for one reading. Slot layout:
//
//	0..2   normalized front/left/right distances
//	3..6   mean, min, max, left/right asymmetry
//	7..9   front-near, side-near, all-clear flags
//	10..14 speed ratios, mean, difference, both-moving flag
//	20..25 situation flags (front blocked, single-side wall, trapped,
//	       wide open, narrow corridor)
//	30..32 smoothed derived features (tanh and logistic transforms)
//
// Unused slots stay zero. The result is L2-normalized; an all-zero vector is
// returned as-is.
func (v Vectorizer) Vectorize(r model.SensorReading) []float64 {
	r = v.Sanitize(r)
	vec := make([]float64, model.VectorDim)

	df := math.Min(r.Front/v.maxRange, 1.0)
	dl := math.Min(r.Left/v.maxRange, 1.0)
	dr := math.Min(r.Right/v.maxRange, 1.0)

	vec[0] = df
	vec[1] = dl
	vec[2] = dr
	vec[3] = (df + dl + dr) / 3.0
	vec[4] = math.Min(df, math.Min(dl, dr))
	vec[5] = math.Max(df, math.Max(dl, dr))
	vec[6] = math.Abs(dl - dr)
	vec[7] = boolFeature(df < 0.2)
	vec[8] = boolFeature(dl < 0.3 || dr < 0.3)
	vec[9] = boolFeature(df > 0.8 && dl > 0.5 && dr > 0.5)

	sl := math.Min(r.SpeedLeft/maxWheelSpeed, 1.0)
	sr := math.Min(r.SpeedRight/maxWheelSpeed, 1.0)
	vec[10] = sl
	vec[11] = sr
	vec[12] = (sl + sr) / 2.0
	vec[13] = math.Abs(sl - sr)
	vec[14] = boolFeature(r.SpeedLeft > 0 && r.SpeedRight > 0)

	vec[20] = boolFeature(df < 0.3)
	vec[21] = boolFeature(dl < 0.2 && dr > 0.5)
	vec[22] = boolFeature(dr < 0.2 && dl > 0.5)
	vec[23] = boolFeature(df < 0.2 && dl < 0.2 && dr < 0.2)
	vec[24] = boolFeature(dl > 0.8 && dr > 0.8 && df > 0.5)
	vec[25] = boolFeature(dl < 0.4 && dr < 0.4 && df > 0.5)

	vec[30] = math.Tanh(df*2 - 1)
	vec[31] = math.Tanh((dl - dr) * 2)
	vec[32] = 1.0 / (1.0 + math.Exp(-5*(df-0.3)))

	norm := Norm(vec)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
