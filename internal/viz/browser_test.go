package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/search"
	"github.com/coilworks/springlab/internal/spring"
)

func browserCands() []search.Candidate {
	return []search.Candidate{
		{
			ID: "cand-0001", Source: search.SourceGrid, Rank: 1, Visible: true,
			Result:  &spring.Result{Rate: 19.7, Valid: true},
			Metrics: metric.Values{MassProxy: 800, StressRatio: 0.6, SolidMargin: 12},
		},
		{
			ID: "cand-0002", Source: search.SourceSeed, Rank: 2, Visible: true,
			Result:  &spring.Result{Rate: 21.1, Valid: true},
			Metrics: metric.Values{MassProxy: 950, StressRatio: 0.4, SolidMargin: 8},
		},
	}
}

func press(b *Browser, s string) {
	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestBrowserHideToggle(t *testing.T) {
	b := NewBrowser("compression", browserCands())

	press(b, "x")
	if b.cands[0].Visible {
		t.Fatal("expected x to hide the selected candidate")
	}
	if !strings.Contains(b.View(), "press x to restore") {
		t.Error("detail panel should say the candidate is hidden")
	}

	press(b, "j")
	if !strings.Contains(b.View(), "hidden") {
		t.Error("table should mark the hidden row")
	}

	press(b, "k")
	press(b, "x")
	if !b.cands[0].Visible {
		t.Fatal("expected x to restore the hidden candidate")
	}
	if strings.Contains(b.View(), "hidden") {
		t.Error("no row should stay marked hidden after restore")
	}
}

func TestBrowserVisibleDetail(t *testing.T) {
	b := NewBrowser("compression", browserCands())
	view := b.View()
	if !strings.Contains(view, "cand-0001") || !strings.Contains(view, "cand-0002") {
		t.Fatal("expected both candidates in the table")
	}
	if !strings.Contains(view, "19.7") {
		t.Error("detail should show the selected candidate's rate")
	}
}
