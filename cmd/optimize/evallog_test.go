package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalLogTracksBest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	params := NewParamVector()
	l, err := newEvalLog(path, params, 3)
	require.NoError(t, err)
	l.progress = func(string, ...any) {}

	def := params.DefaultVector()
	l.record(def, 0.8, runSummary{Coverage: 0.1})
	l.record(def, 0.2, runSummary{Coverage: 0.28})
	l.record(def, 0.5, runSummary{Coverage: 0.4})
	require.NoError(t, l.close())

	assert.Equal(t, 3, l.count)
	assert.Equal(t, 0.2, l.best)
	assert.Equal(t, def, l.bestRaw)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Len(t, rows[0], 5+params.Dim())
	assert.Equal(t, "sensor_angle_deg", rows[0][5])
	assert.Equal(t, "0.200000", rows[2][1])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m05s", formatDuration(5*time.Second))
	assert.Equal(t, "2m03s", formatDuration(123*time.Second))
	assert.Equal(t, "1h02m03s", formatDuration(time.Hour+2*time.Minute+3*time.Second))
}
