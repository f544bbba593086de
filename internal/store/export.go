package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/search"
	"github.com/coilworks/springlab/internal/spring"
)

// ExportData is the full-fidelity JSON form of a run, curves included.
type ExportData struct {
	Topology   string              `json:"topology"`
	Material   string              `json:"material"`
	Targets    []spring.Target     `json:"targets"`
	Candidates []ExportedCandidate `json:"candidates"`
}

type ExportedCandidate struct {
	ID      string             `json:"id"`
	Source  string             `json:"source"`
	Rank    int                `json:"rank"`
	Params  map[string]float64 `json:"params"`
	Metrics metric.Values      `json:"metrics"`
	Result  *spring.Result     `json:"result"`
}

func buildExport(topology, material string, targets []spring.Target, cands []search.Candidate) ExportData {
	data := ExportData{
		Topology:   topology,
		Material:   material,
		Targets:    targets,
		Candidates: make([]ExportedCandidate, len(cands)),
	}
	for i, c := range cands {
		data.Candidates[i] = ExportedCandidate{
			ID:      c.ID,
			Source:  string(c.Source),
			Rank:    c.Rank,
			Params:  c.Params,
			Metrics: c.Metrics,
			Result:  c.Result,
		}
	}
	return data
}

// ExportJSON writes the run to a file.
func ExportJSON(path, topology, material string, targets []spring.Target, cands []search.Candidate) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, topology, material, targets, cands)
}

// ExportJSONStdout writes the run to standard output.
func ExportJSONStdout(topology, material string, targets []spring.Target, cands []search.Candidate) error {
	return writeExport(os.Stdout, topology, material, targets, cands)
}

func writeExport(w io.Writer, topology, material string, targets []spring.Target, cands []search.Candidate) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(topology, material, targets, cands))
}
