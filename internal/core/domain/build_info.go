package domain

import "time"

// BuildInfo records the last successful compilation of an extension unit.
type BuildInfo struct {
	Module     string    `json:"module,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputPath string    `json:"output_path,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
