package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/xmastree/internal/anim"
)

type ExportData struct {
	Run      RunMetadata  `json:"run"`
	Times    []float64    `json:"times"`
	Progress []float64    `json:"progress"`
	Modes    []string     `json:"modes"`
	Offsets  [][2]float64 `json:"offsets"`
}

func newExport(meta *RunMetadata, tr *Trace) ExportData {
	data := ExportData{
		Run:      *meta,
		Times:    tr.Times,
		Progress: tr.Progress,
		Modes:    make([]string, len(tr.Modes)),
		Offsets:  make([][2]float64, len(tr.Offsets)),
	}
	for i, m := range tr.Modes {
		data.Modes[i] = m.String()
	}
	for i, o := range tr.Offsets {
		data.Offsets[i] = [2]float64{o.X, o.Y}
	}
	return data
}

// ExportJSON writes a stored run, metadata and trace, as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tr, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExport(meta, tr))
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}

// ModeAt returns the mode in effect at time t of the trace.
func (tr *Trace) ModeAt(t float64) anim.Mode {
	mode := anim.Formed
	for i, at := range tr.Times {
		if at > t {
			break
		}
		mode = tr.Modes[i]
	}
	return mode
}
