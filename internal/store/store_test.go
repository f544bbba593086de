package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/search"
	"github.com/coilworks/springlab/internal/spring"
)

func sampleRun() ([]spring.Target, []search.Candidate) {
	targets := []spring.Target{
		{Input: 10, Mode: spring.ModeDeflection, Output: 19.75},
	}
	cands := []search.Candidate{
		{
			ID:       "cand-0001",
			Topology: spring.Compression,
			Source:   search.SourceGrid,
			Rank:     1,
			Params: map[string]float64{
				"wire_diameter": 2,
				"mean_diameter": 20,
				"active_coils":  10,
				"free_length":   50,
			},
			Result: &spring.Result{
				Rate: 1.975, PeakStress: 114.7, Valid: true,
				Cases: []spring.CaseResult{{Load: 19.75, Status: spring.StatusOK}},
			},
			Metrics: metric.Values{MassProxy: 800, StressRatio: 0.153, SolidMargin: 14, Energy: 98.75},
		},
		{
			ID:       "cand-0002",
			Topology: spring.Compression,
			Source:   search.SourceSeed,
			Rank:     2,
			Params: map[string]float64{
				"wire_diameter": 2.2,
				"mean_diameter": 20,
				"active_coils":  13.2,
				"free_length":   55,
			},
			Result: &spring.Result{Rate: 2.01, PeakStress: 101.2, Valid: true},
			Metrics: metric.Values{MassProxy: 1277, StressRatio: 0.135, SolidMargin: 18, Energy: 101},
		},
	}
	return targets, cands
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	targets, cands := sampleRun()
	runID, err := st.Save("compression", "music_wire", targets, cands)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Topology != "compression" {
		t.Errorf("expected topology compression, got %s", meta.Topology)
	}
	if meta.Candidates != 2 {
		t.Errorf("expected 2 candidates, got %d", meta.Candidates)
	}
	if meta.FrontOne != 1 {
		t.Errorf("expected 1 front-one candidate, got %d", meta.FrontOne)
	}

	rows, err := st.LoadCandidates(runID)
	if err != nil {
		t.Fatalf("load candidates failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "cand-0001" || rows[0].Rank != 1 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[0].Params["wire_diameter"] != 2 {
		t.Errorf("expected wire diameter 2, got %f", rows[0].Params["wire_diameter"])
	}
	if rows[1].Metrics.MassProxy != 1277 {
		t.Errorf("expected mass proxy 1277, got %f", rows[1].Metrics.MassProxy)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	targets, cands := sampleRun()
	if _, err := st.Save("compression", "music_wire", targets, cands); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	targets, cands := sampleRun()
	runID, err := st.Save("compression", "music_wire", targets, cands)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "candidates.csv")); os.IsNotExist(err) {
		t.Error("candidates.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	targets, cands := sampleRun()

	if err := ExportJSON(path, "compression", "music_wire", targets, cands); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if exported.Topology != "compression" {
		t.Errorf("expected topology compression, got %s", exported.Topology)
	}
	if len(exported.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(exported.Candidates))
	}
	if exported.Candidates[0].Result.Rate != 1.975 {
		t.Errorf("expected rate 1.975, got %f", exported.Candidates[0].Result.Rate)
	}
}
