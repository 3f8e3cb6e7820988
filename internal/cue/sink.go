package cue

import (
	"fmt"
	"io"
	"log"
	"time"

	"fieldtimer/internal/phase"
)

// Bell rings the terminal bell: once per audio cue, twice per vibration.
type Bell struct {
	w io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play(id phase.CueID) error {
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ring bell for %s: %w", id, err)
	}
	return nil
}

func (b *Bell) Vibrate(d time.Duration) error {
	if _, err := io.WriteString(b.w, "\a\a"); err != nil {
		return fmt.Errorf("ring bell for vibration: %w", err)
	}
	return nil
}

// Log writes each cue to a logger instead of playing it.
type Log struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Play(id phase.CueID) error {
	l.logger.Printf("cue: play %s", id)
	return nil
}

func (l *Log) Vibrate(d time.Duration) error {
	l.logger.Printf("cue: vibrate %s", d)
	return nil
}

// Mute discards every cue.
type Mute struct{}

func (Mute) Play(phase.CueID) error        { return nil }
func (Mute) Vibrate(time.Duration) error { return nil }

// NewSink returns the sink named by kind: "bell", "log" or "none".
func NewSink(kind string, w io.Writer, logger *log.Logger) (Sink, error) {
	switch kind {
	case "bell", "":
		return NewBell(w), nil
	case "log":
		return NewLog(logger), nil
	case "none":
		return Mute{}, nil
	}
	return nil, fmt.Errorf("unknown cue output %q", kind)
}
