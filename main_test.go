package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldtimer/internal"
)

func TestSendFramesForwardsTicksUntilDone(t *testing.T) {
	ticks := make(chan time.Time)
	done := make(chan struct{})
	sent := make(chan tea.Msg, 2)
	exited := make(chan struct{})

	go func() {
		sendFrames(done, ticks, func(msg tea.Msg) { sent <- msg })
		close(exited)
	}()

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ticks <- at
	ticks <- at.Add(16 * time.Millisecond)
	assert.Equal(t, internal.MsgFrame{At: at}, <-sent)
	assert.Equal(t, internal.MsgFrame{At: at.Add(16 * time.Millisecond)}, <-sent)

	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		require.FailNow(t, "frame loop kept running after done was closed")
	}
}
