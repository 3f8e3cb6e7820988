// Package cue plays audio and haptic cues without blocking the frame loop.
package cue

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"fieldtimer/internal/phase"
)

// Sink is a playback device. Its calls may block.
type Sink interface {
	Play(id phase.CueID) error
	Vibrate(d time.Duration) error
}

type request struct {
	id      phase.CueID
	vibrate time.Duration
}

// Player hands cues to a Sink on its own goroutine. Play and Vibrate never wait for the sink;
// when the queue is full the cue is dropped and logged.
type Player struct {
	sink   Sink
	known  map[phase.CueID]bool
	logger *log.Logger
	silent bool

	queue chan request
	wg    sync.WaitGroup
	once  sync.Once
}

// NewPlayer starts a player over sink. Cue ids not in known are skipped.
func NewPlayer(sink Sink, known []phase.CueID, logger *log.Logger, buffer int) *Player {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Player{
		sink:   sink,
		known:  make(map[phase.CueID]bool, len(known)),
		logger: logger,
		queue:  make(chan request, buffer),
	}
	for _, id := range known {
		if id != phase.CueNone {
			p.known[id] = true
		}
	}

	p.wg.Add(1)
	go p.run()
	return p
}

// KnownCues lists the cue ids of the phases.
func KnownCues(phases []phase.Phase) []phase.CueID {
	var ids []phase.CueID
	for _, ph := range phases {
		if ph.Cue != phase.CueNone {
			ids = append(ids, ph.Cue)
		}
	}
	return ids
}

func (p *Player) run() {
	defer p.wg.Done()
	for req := range p.queue {
		var err error
		if req.vibrate > 0 {
			err = p.sink.Vibrate(req.vibrate)
		} else {
			err = p.sink.Play(req.id)
		}
		if err != nil {
			p.logger.Printf("cue: playback: %v", err)
		}
	}
}

// Play queues an audio cue. Unknown ids are ignored.
func (p *Player) Play(id phase.CueID) {
	if !p.known[id] {
		return
	}
	p.enqueue(request{id: id})
}

// Vibrate queues a haptic cue. It reports false, and queues nothing, in silent mode.
func (p *Player) Vibrate(d time.Duration) bool {
	if p.silent {
		return false
	}
	p.enqueue(request{vibrate: d})
	return true
}

// SetSilent switches silent mode. Not safe to call concurrently with Vibrate.
func (p *Player) SetSilent(silent bool) {
	p.silent = silent
}

func (p *Player) Silent() bool {
	return p.silent
}

func (p *Player) enqueue(req request) {
	select {
	case p.queue <- req:
	default:
		p.logger.Printf("warn: cue queue full, dropping %s", req)
	}
}

func (r request) String() string {
	if r.vibrate > 0 {
		return fmt.Sprintf("vibration %s", r.vibrate)
	}
	return string(r.id)
}

// Close stops accepting cues and waits for queued ones to finish.
func (p *Player) Close() {
	p.once.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}
