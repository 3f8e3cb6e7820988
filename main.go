package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fieldtimer/internal"
	"fieldtimer/internal/config"
	"fieldtimer/internal/cue"
	"fieldtimer/internal/drill"
	"fieldtimer/internal/phase"
	"fieldtimer/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup happens before the process exits.
func run() int {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		defaultPath = "config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to config.yaml")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	silent := flag.Bool("silent", false, "skip haptic tick cues")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *silent {
		cfg.Cues.Silent = true
	}
	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(*configPath)
		return 0
	}

	logFile, err := tea.LogToFile(cfg.Storage.LogPath, config.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger := log.Default()

	repo, err := drill.NewRepository(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		return 1
	}

	sink, err := cue.NewSink(cfg.Cues.Output, os.Stderr, logger)
	if err != nil {
		repo.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	player := cue.NewPlayer(sink, cue.KnownCues(phase.Commands), logger, 16)
	defer player.Close()

	m, err := internal.NewModel(cfg, internal.Deps{
		Store:  repo,
		Player: player,
		Clock:  timer.SystemClock,
		Logger: logger,
	})
	if err != nil {
		repo.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go sendFrames(done, ticker.C, p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	return 0
}

// sendFrames forwards each tick as a frame message until done is closed.
func sendFrames(done <-chan struct{}, ticks <-chan time.Time, send func(tea.Msg)) {
	for {
		select {
		case <-done:
			return
		case t := <-ticks:
			send(internal.MsgFrame{At: t})
		}
	}
}
