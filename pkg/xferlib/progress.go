package xferlib

import (
	"fmt"
	"io"
	"math"
	"time"
)

const spinnerFrames = `-\|/`

// progressThrottle is the minimum wall time between two non-forced renders
// (§4.5, §8 Throttling).
const progressThrottle = 200 * time.Millisecond

// Progress renders the single-line status format (§4.5) and the matching
// console title, throttled to at most once per 200ms except forced renders.
type Progress struct {
	out        io.Writer
	url        string
	lastRender time.Time
	spinner    uint8
}

// NewProgress renders to out (typically os.Stderr).
func NewProgress(out io.Writer, url string) *Progress {
	return &Progress{out: out, url: url}
}

// Render prints one status line if forced or the throttle interval has
// elapsed. totalBytes/fileSize are SizeUnknown-aware; rate is NaN before
// the first rate window closes.
func (p *Progress) Render(forced bool, totalBytes, fileSize uint64, rate float64, etaSeconds float64) {
	now := time.Now()
	if !forced && now.Sub(p.lastRender) < progressThrottle {
		return
	}
	p.lastRender = now
	p.spinner++

	spin := spinnerFrames[int(p.spinner)%len(spinnerFrames)]

	var line, title string
	switch {
	case fileSize == SizeUnknown:
		line = fmt.Sprintf("[%c] %s received", spin, FormatBytes(totalBytes))
		title = fmt.Sprintf("NetGet [%s] - %s", FormatBytes(totalBytes), p.url)
	case math.IsNaN(rate):
		percent := percentOf(totalBytes, fileSize)
		line = fmt.Sprintf("[%c] %d%% of %s received, please stand by...", spin, percent, FormatBytes(fileSize))
		title = fmt.Sprintf("NetGet [%d%% of %s] - %s", percent, FormatBytes(fileSize), p.url)
	default:
		percent := percentOf(totalBytes, fileSize)
		eta := "almost finished..."
		if etaSeconds > 3 {
			eta = FormatDuration(etaSeconds) + " remaining..."
		}
		line = fmt.Sprintf("[%c] %d%% of %s received, %s/s, %s", spin, percent, FormatBytes(fileSize), FormatBytes(uint64(rate)), eta)
		title = fmt.Sprintf("NetGet [%d%% of %s] - %s", percent, FormatBytes(fileSize), p.url)
	}

	fmt.Fprintf(p.out, "\033]0;%s\007\r%s", title, line)
}

func percentOf(n, total uint64) int {
	if total == 0 {
		return 100
	}
	return int(float64(n) / float64(total) * 100)
}
