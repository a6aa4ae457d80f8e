package storage

import (
	"encoding/json"
	"errors"

	"navcore/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeConceptModel(m model.ConceptModel) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeConceptModel(data []byte) (model.ConceptModel, error) {
	var m model.ConceptModel
	if err := json.Unmarshal(data, &m); err != nil {
		return model.ConceptModel{}, err
	}
	if err := checkVersion(m.VersionedRecord); err != nil {
		return model.ConceptModel{}, err
	}
	return m, nil
}

func EncodeLearningState(state model.LearningState) ([]byte, error) {
	return json.Marshal(state)
}

func DecodeLearningState(data []byte) (model.LearningState, error) {
	var state model.LearningState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.LearningState{}, err
	}
	if err := checkVersion(state.VersionedRecord); err != nil {
		return model.LearningState{}, err
	}
	if state.Weights == nil {
		state.Weights = map[string]float64{}
	}
	if state.Vectors == nil {
		state.Vectors = map[string][]float64{}
	}
	return state, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
