package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const exportCSV = `# Account Level: 42
# Mod Version: 1.4.2
# All Characters:
# 1. gern (Zealot) - Level 30 (True: 169, Prestige: 4)
#
Achievement_ID,Title,Description,Category,Score,Progress,Goal,Progress_Percentage,Status,Completion_Time,Export_Account,Export_Character,Export_Platform
zealot_mission_havoc_5,Havoc,Win havoc,loc_achievement_category_offensive_label,10,5,5,1.0,Completed,2025-03-02 18:00:00,acct,gern,steam
veteran_kills,Kills,Kill things,loc_class_abilities_title,5,40,100,0.4,In Progress,,acct,gern,steam
zealot_blessed,Blessed,Be blessed,loc_class_abilities_title,5,1,1,1.0,Completed,2025-02-01 08:00:00,acct,gern,steam
`

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func buildReport(t *testing.T) *report.Report {
	t.Helper()
	r, err := report.Build("00000000-0000-0000-0000-000000000000_20260118_103938.csv", []byte(exportCSV), report.Options{})
	require.NoError(t, err)
	return r
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, buildReport(t), RenderOptions{}))

	out := buf.String()
	for _, want := range []string{
		"Penance Report",
		"gern",
		"42 (true: N/A, prestige: N/A)",
		"1.4.2",
		"2/3 (66.7%)",
		"2026-01-18 10:39",
		"Characters",
		"Categories",
		"Class Penances",
		"Penances (3)",
		"Kills",
		"40%",
		"████░░░░░░",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderReport_Limit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, buildReport(t), RenderOptions{Limit: 1}))
	assert.Contains(t, buf.String(), "... 2 more")
}

func TestRenderHeader_Placeholders(t *testing.T) {
	r := &report.Report{Account: "a", Character: "c", Platform: "p"}
	out := RenderHeader(r)

	assert.Contains(t, out, "Legacy")
	assert.Contains(t, out, NotAvailable)
	assert.Contains(t, out, model.Unknown)
}

func TestRenderPenanceTable_Empty(t *testing.T) {
	out := RenderPenanceTable(nil, 0)
	assert.Contains(t, out, "No penances match the filter.")
}

func TestRenderTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTimeline(&buf, buildReport(t)))

	out := buf.String()
	assert.Contains(t, out, "Progress Over Time")
	assert.Contains(t, out, "2025-02-01 08:00")
	assert.Contains(t, out, "2025-03-02 18:00")
	assert.Contains(t, out, "Zealot")

	buf.Reset()
	require.NoError(t, RenderTimeline(&buf, &report.Report{}))
	assert.Contains(t, buf.String(), "No completed penances in range.")
}

func TestCompletionBar(t *testing.T) {
	for _, v := range []float64{-1, 0, 0.5, 1, 3} {
		assert.NotEmpty(t, CompletionBar(v))
	}
}

func TestBandColor(t *testing.T) {
	assert.Equal(t, SuccessColor, BandColor(model.BandHigh))
	assert.Equal(t, WarningColor, BandColor(model.BandMid))
	assert.Equal(t, ErrorColor, BandColor(model.BandLow))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "TEXT", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteStructured(t *testing.T) {
	r := buildReport(t)

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteStructured(&jsonBuf, FormatJSON, r))
	assert.Contains(t, jsonBuf.String(), `"export_date": "20260118"`)
	assert.NotContains(t, jsonBuf.String(), `"Records"`)

	var yamlBuf bytes.Buffer
	require.NoError(t, WriteStructured(&yamlBuf, FormatYAML, r))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &decoded))
	assert.Equal(t, "gern", decoded["character"])

	err := WriteStructured(&bytes.Buffer{}, FormatText, r)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestInterruptHandler(t *testing.T) {
	var out syncBuffer
	handler := NewInterruptHandler(&out)

	ctx := handler.HandleInterrupts(context.Background(), "Watch")
	assert.False(t, handler.WasInterrupted())

	handler.interrupt()
	handler.interrupt()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Watch interrupted"))
}

func TestInterruptHandler_Stop(t *testing.T) {
	handler := NewInterruptHandler(nil)
	ctx := handler.HandleInterrupts(context.Background(), "")
	handler.Stop()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}

func TestRenderSnapshots(t *testing.T) {
	exported := time.Date(2025, 3, 3, 10, 15, 0, 0, time.UTC)
	snapshots := []model.Snapshot{
		{ID: "snap-1", ExportDate: "20250303", ExportTimestamp: &exported, Account: "acct", Character: "gern", Completed: 2, Total: 3, CompletionPercent: 66.7},
		{ID: "snap-2", Account: "acct", Character: "gern", Completed: 0, Total: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSnapshots(&buf, snapshots))

	out := buf.String()
	assert.Contains(t, out, "Archived Exports (2)")
	assert.Contains(t, out, "snap-1")
	assert.Contains(t, out, "2025-03-03 10:15")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, model.Unknown)
	assert.Contains(t, out, NotAvailable)
}

func TestRenderSnapshots_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSnapshots(&buf, nil))
	assert.Contains(t, buf.String(), "The archive is empty.")
}
