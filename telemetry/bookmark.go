package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkMotionBurst BookmarkType = "motion_burst"
	BookmarkSceneStill  BookmarkType = "scene_still"
	BookmarkFeedStall   BookmarkType = "feed_stall"
	BookmarkResize      BookmarkType = "resize"
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

// stillWindows is how many consecutive idle windows make a still scene.
const stillWindows = 5

// BookmarkDetector flags notable moments in the window stats stream.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	stillCount int  // consecutive windows with almost no active particles
	stalled    bool // feed stall already reported
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Resizes > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkResize,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Frame size changed %d time(s), now %dx%d", stats.Resizes, stats.FrameWidth, stats.FrameHeight),
		})
	}

	if b := bd.checkMotionBurst(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSceneStill(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFeedStall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
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

// last returns the most recent window in history.
func (bd *BookmarkDetector) last() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	return bd.history[(bd.historyIdx-1+bd.historySize)%bd.historySize], true
}

// checkMotionBurst fires when mean velocity exceeds twice its rolling average.
func (bd *BookmarkDetector) checkMotionBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.VelocityMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.VelocityMean > avg*2.0 && stats.VelocityMean > 0.02 {
		return &Bookmark{
			Type:        BookmarkMotionBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean velocity %.3f is %.1fx average (%.3f)", stats.VelocityMean, stats.VelocityMean/avg, avg),
		}
	}
	return nil
}

// checkSceneStill fires once when almost every particle has settled for
// several windows in a row.
func (bd *BookmarkDetector) checkSceneStill(stats WindowStats) *Bookmark {
	if stats.Particles == 0 || stats.ActiveFraction >= 0.01 {
		bd.stillCount = 0
		return nil
	}

	bd.stillCount++
	if bd.stillCount == stillWindows {
		return &Bookmark{
			Type:        BookmarkSceneStill,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Scene still for %d windows (%.1f%% active)", stillWindows, stats.ActiveFraction*100),
		}
	}
	return nil
}

// checkFeedStall fires once when frames stop arriving after they had been flowing.
func (bd *BookmarkDetector) checkFeedStall(stats WindowStats) *Bookmark {
	if stats.FramesIn > 0 {
		bd.stalled = false
		return nil
	}
	if bd.stalled {
		return nil
	}

	prev, ok := bd.last()
	if !ok || prev.FramesIn == 0 {
		return nil
	}

	bd.stalled = true
	return &Bookmark{
		Type:        BookmarkFeedStall,
		Tick:        stats.WindowEndTick,
		Description: "No frames received during window",
	}
}
