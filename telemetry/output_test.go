package telemetry

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/mold/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Methods are nil-safe
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 120), Mass: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	var perfStats PerfStats
	perfStats.PhasePct[PhaseRender] = 12.5
	if err := om.WritePerf(perfStats, 120); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteProbes([]ProbeRecord{{Tick: 5, Name: "centre", Value: 0.5}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkNetworkFormed, Tick: 240, Description: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}

	perf, _ := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if !strings.Contains(string(perf), "render_pct") || !strings.Contains(string(perf), "12.5") {
		t.Errorf("perf.csv missing render column: %s", perf)
	}
	probes, _ := os.ReadFile(filepath.Join(dir, "probes.csv"))
	if !strings.Contains(string(probes), "centre") {
		t.Errorf("probes.csv missing record: %s", probes)
	}
	bookmarks, _ := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if !strings.Contains(string(bookmarks), "network_formed") {
		t.Errorf("bookmarks.csv missing record: %s", bookmarks)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestSaveFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 2, color.RGBA{R: 200, G: 10, B: 30, A: 255})

	path, err := SaveFrame(img, filepath.Join(t.TempDir(), "frames"), 42)
	if err != nil {
		t.Fatalf("SaveFrame: %v", err)
	}
	if filepath.Base(path) != "frame_00000042.png" {
		t.Errorf("unexpected name %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := decoded.At(1, 2).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}
