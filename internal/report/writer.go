package report

import (
	"encoding/json"
	"os"
	"time"
)

// New creates an empty report.
func New() *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Add appends one result entry.
func (r *Report) Add(e Entry) {
	r.Results = append(r.Results, e)
}

// ComputeStats recalculates aggregate statistics from the entries.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalInputs = len(r.Results)
	for _, e := range r.Results {
		switch {
		case e.Error != "":
			s.Failed++
		case e.MetTarget:
			s.MetTarget++
		default:
			s.Missed++
		}
		s.TotalOutputBytes += e.OutputBytes
	}
	r.Stats = s
}

// WriteJSON serializes the report to an indented JSON file.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
