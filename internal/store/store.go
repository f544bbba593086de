// Package store persists search runs: one directory per run holding
// metadata.json and a flat candidates.csv snapshot.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/search"
	"github.com/coilworks/springlab/internal/spring"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the run-level summary kept alongside the candidate table.
type RunMetadata struct {
	ID         string          `json:"id"`
	Topology   string          `json:"topology"`
	Material   string          `json:"material"`
	Timestamp  time.Time       `json:"timestamp"`
	Targets    []spring.Target `json:"targets"`
	Candidates int             `json:"candidates"`
	FrontOne   int             `json:"front_one"`
}

// CandidateRow is the reduced snapshot read back from candidates.csv.
// Full curves and findings are not persisted; re-run the engine on the
// stored parameters to regenerate them.
type CandidateRow struct {
	ID         string
	Source     string
	Rank       int
	Rate       float64
	PeakStress float64
	Metrics    metric.Values
	Params     map[string]float64
}

// fixed columns ahead of the per-topology parameter columns.
var fixedHeader = []string{
	"id", "source", "rank", "rate", "peak_stress",
	"mass_proxy", "stress_ratio", "solid_margin", "energy",
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(topology, material string, targets []spring.Target, cands []search.Candidate) (string, error) {
	runID := fmt.Sprintf("%s_%d", topology, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	frontOne := 0
	for _, c := range cands {
		if c.Rank == 1 {
			frontOne++
		}
	}

	meta := RunMetadata{
		ID:         runID,
		Topology:   topology,
		Material:   material,
		Timestamp:  time.Now(),
		Targets:    targets,
		Candidates: len(cands),
		FrontOne:   frontOne,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "candidates.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	paramKeys := unionParamKeys(cands)
	header := append(append([]string{}, fixedHeader...), paramKeys...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, c := range cands {
		row := []string{
			c.ID,
			string(c.Source),
			strconv.Itoa(c.Rank),
			formatF(c.Result.Rate),
			formatF(c.Result.PeakStress),
			formatF(c.Metrics.MassProxy),
			formatF(c.Metrics.StressRatio),
			formatF(c.Metrics.SolidMargin),
			formatF(c.Metrics.Energy),
		}
		for _, key := range paramKeys {
			row = append(row, formatF(c.Params[key]))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', 9, 64)
}

func unionParamKeys(cands []search.Candidate) []string {
	set := make(map[string]struct{})
	for _, c := range cands {
		for k := range c.Params {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns every readable run's metadata.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadCandidates reads the candidate table back.
func (s *Store) LoadCandidates(runID string) ([]CandidateRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "candidates.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []CandidateRow{}, nil
	}

	header := records[0]
	if len(header) < len(fixedHeader) {
		return nil, fmt.Errorf("store: malformed candidate table in %s", runID)
	}
	paramKeys := header[len(fixedHeader):]

	rows := make([]CandidateRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		row := CandidateRow{
			ID:     rec[0],
			Source: rec[1],
			Params: make(map[string]float64, len(paramKeys)),
		}
		row.Rank, _ = strconv.Atoi(rec[2])
		row.Rate = parseF(rec[3])
		row.PeakStress = parseF(rec[4])
		row.Metrics = metric.Values{
			MassProxy:   parseF(rec[5]),
			StressRatio: parseF(rec[6]),
			SolidMargin: parseF(rec[7]),
			Energy:      parseF(rec[8]),
		}
		for i, key := range paramKeys {
			if v := parseF(rec[len(fixedHeader)+i]); v != 0 {
				row.Params[key] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
