package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	// BookmarkNetworkFormed fires the first time coverage reaches the formation threshold.
	BookmarkNetworkFormed BookmarkType = "network_formed"
	// BookmarkMassCollapse fires when mass drops sharply from its recent peak.
	BookmarkMassCollapse BookmarkType = "mass_collapse"
	// BookmarkStablePattern fires when mass has stopped changing across windows.
	BookmarkStablePattern BookmarkType = "stable_pattern"
)

// Detection thresholds.
const (
	networkCoverage  = 0.05 // coverage fraction counted as a formed network
	collapseFraction = 0.5  // mass below this share of the recent peak
	stableCV         = 0.01 // coefficient of variation of mass across history
	stableWindows    = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches window stats for notable pattern changes.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	formed      bool
	collapsed   bool
	stableFired bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if !bd.formed && stats.Coverage >= networkCoverage {
		bd.formed = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkNetworkFormed,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("coverage reached %.1f%%", stats.Coverage*100),
		})
	}

	if b := bd.checkCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkStable(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkCollapse(stats WindowStats) *Bookmark {
	var peak float64
	for _, h := range bd.getHistory() {
		peak = math.Max(peak, h.Mass)
	}
	if peak <= 0 {
		return nil
	}

	low := stats.Mass < peak*collapseFraction
	if !low {
		bd.collapsed = false
		return nil
	}
	if bd.collapsed {
		return nil
	}
	bd.collapsed = true
	return &Bookmark{
		Type:        BookmarkMassCollapse,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("mass fell to %.0f from recent peak %.0f", stats.Mass, peak),
	}
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < stableWindows {
		return nil
	}
	masses := make([]float64, 0, stableWindows)
	for i := 1; i <= stableWindows; i++ {
		masses = append(masses, bd.history[(bd.historyIdx-i+bd.historySize)%bd.historySize].Mass)
	}
	mean, std := stat.PopMeanStdDev(masses, nil)
	if mean <= 0 {
		return nil
	}
	cv := std / mean

	if cv >= stableCV {
		bd.stableFired = false
		return nil
	}
	if bd.stableFired {
		return nil
	}
	bd.stableFired = true
	return &Bookmark{
		Type:        BookmarkStablePattern,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("mass CV %.4f over %d windows", cv, stableWindows),
	}
}
