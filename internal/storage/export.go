package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/trajsim/internal/dynamo"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes a run and its full trajectory as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, traj *dynamo.Trajectory) error {
	meta.Metrics = finite(meta.Metrics)
	data := ExportData{
		Run:    meta,
		Steps:  traj.Len(),
		Times:  traj.Times(),
		States: make([][]float64, traj.Len()),
	}
	for i, p := range traj.Points() {
		data.States[i] = p.X
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
