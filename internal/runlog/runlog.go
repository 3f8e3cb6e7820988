package runlog

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Run represents one recorded drill run, from start until it was stopped or finished.
type Run struct {
	ID           string
	StartedAt    time.Time
	StoppedAt    time.Time
	FireDuration int
	Elapsed      time.Duration
	Total        time.Duration
	FinalState   string
	CuesFired    int
	TicksPassed  int
}

// Begin opens a run record with a fresh id.
func Begin(startedAt time.Time, fireDuration int) *Run {
	return &Run{
		ID:           uuid.NewString(),
		StartedAt:    startedAt,
		FireDuration: fireDuration,
	}
}

func (r *Run) Complete() bool {
	return r.Total > 0 && r.Elapsed >= r.Total
}

func (r *Run) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Summary formats the run for the log view, relative to now.
func (r *Run) Summary(now time.Time) string {
	return fmt.Sprintf("%s  fire %2ds  %5.1fs/%5.1fs  %-8s cues %d ticks %d  %s",
		r.ShortID(),
		r.FireDuration,
		r.Elapsed.Seconds(),
		r.Total.Seconds(),
		r.FinalState,
		r.CuesFired,
		r.TicksPassed,
		humanize.RelTime(r.StoppedAt, now, "ago", "from now"),
	)
}
