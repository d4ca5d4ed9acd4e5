package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// BatchProgress tracks a batch of profile lookups
type BatchProgress struct {
	mu        sync.Mutex
	total     int
	succeeded int
	failed    int
	startTime time.Time
}

// NewBatchProgress creates a tracker for total lookups
func NewBatchProgress(total int) *BatchProgress {
	return &BatchProgress{total: total, startTime: time.Now()}
}

// Record counts one finished lookup and redraws the progress line
func (bp *BatchProgress) Record(err error) {
	bp.mu.Lock()
	if err != nil {
		bp.failed++
	} else {
		bp.succeeded++
	}
	line := bp.line()
	bp.mu.Unlock()

	printf(true, "\r%s", line)
}

// Done returns the number of finished lookups
func (bp *BatchProgress) Done() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.succeeded + bp.failed
}

// Counts returns succeeded and failed lookups
func (bp *BatchProgress) Counts() (succeeded, failed int) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.succeeded, bp.failed
}

// Bar returns the progress bar for the current state
func (bp *BatchProgress) Bar() string {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.bar()
}

func (bp *BatchProgress) bar() string {
	done := bp.succeeded + bp.failed
	filled := 0
	if bp.total > 0 {
		filled = done * progressWidth / bp.total
	}
	if filled > progressWidth {
		filled = progressWidth
	}
	return fmt.Sprintf("[%s] %d/%d",
		strings.Repeat(ProgressBar, filled)+strings.Repeat(ProgressEmpty, progressWidth-filled),
		done, bp.total)
}

func (bp *BatchProgress) line() string {
	status := Green("[FETCHING]")
	if bp.failed > 0 {
		status = Yellow("[FETCHING]")
	}
	return fmt.Sprintf("%s %s", status, bp.bar())
}

// Finish ends the progress line and prints a summary
func (bp *BatchProgress) Finish() {
	bp.mu.Lock()
	succeeded, failed := bp.succeeded, bp.failed
	elapsed := time.Since(bp.startTime).Round(time.Millisecond)
	bp.mu.Unlock()

	printf(true, "\n")
	msg := fmt.Sprintf("%d profiles fetched, %d failed in %s", succeeded, failed, elapsed)
	if failed > 0 {
		PrintWarning(msg)
		return
	}
	PrintSuccess(msg)
}
