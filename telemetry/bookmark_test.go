package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_NetworkFormed(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bms := bd.Check(WindowStats{WindowEndTick: 120, Coverage: 0.01, Mass: 10}); hasBookmark(bms, BookmarkNetworkFormed) {
		t.Fatal("network_formed fired below threshold")
	}
	if bms := bd.Check(WindowStats{WindowEndTick: 240, Coverage: 0.2, Mass: 20}); !hasBookmark(bms, BookmarkNetworkFormed) {
		t.Fatal("expected network_formed bookmark")
	}
	// Fires only once
	if bms := bd.Check(WindowStats{WindowEndTick: 360, Coverage: 0.3, Mass: 30}); hasBookmark(bms, BookmarkNetworkFormed) {
		t.Error("network_formed fired twice")
	}
}

func TestBookmarkDetector_MassCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 120), Mass: 1000})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 600, Mass: 400})
	if !hasBookmark(bms, BookmarkMassCollapse) {
		t.Fatal("expected mass_collapse bookmark")
	}

	// Staying low does not fire again
	bms = bd.Check(WindowStats{WindowEndTick: 720, Mass: 300})
	if hasBookmark(bms, BookmarkMassCollapse) {
		t.Error("mass_collapse fired again while still collapsed")
	}
}

func TestBookmarkDetector_StablePattern(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 10; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 120), Mass: 500 + float64(i%2)})
		if hasBookmark(bms, BookmarkStablePattern) {
			if i < stableWindows-1 {
				t.Fatalf("stable_pattern fired after only %d windows", i+1)
			}
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable_pattern fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_GrowingIsNotStable(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 10; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 120), Mass: float64(100 * (i + 1))})
		if hasBookmark(bms, BookmarkStablePattern) {
			t.Fatalf("stable_pattern fired for growing mass at window %d", i)
		}
	}
}
