package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/2beens/fitcoach/internal/render"
	"github.com/2beens/fitcoach/internal/timer"
	"github.com/2beens/fitcoach/internal/training"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train <programID> <exerciseID>",
	Short: "Run a guided training session starting at an exercise",
	Long: `Run a guided training session. Type a key and press enter:

  n        next step (rest, next exercise in the superset, next exercise, finish)
  s        next series of the current exercise or superset
  p / r    pause / resume the timer (r retries when loading failed)
  w <kg>   set the weight used in this bout, 'w' alone clears it
  q        quit without recording the open bout`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		out := &lockedWriter{w: cmd.OutOrStdout()}
		var finished atomic.Bool
		var controller *training.Controller
		controller = fitApp.NewTrainingController(args[0], func() { finished.Store(true) }, func(ev timer.Event) {
			if ev.State == timer.StateExpired {
				fmt.Fprint(out, "\a")
				draw(out, controller.Snapshot())
			}
		})
		defer controller.Close()

		return runTraining(cmd.Context(), cmd.InOrStdin(), out, controller, args[1], finished.Load)
	},
}

type trainingSession interface {
	Start(ctx context.Context, exerciseID string) error
	Retry(ctx context.Context) error
	Advance()
	AdvanceSeries()
	PauseTimer()
	ResumeTimer()
	SetWeight(kg *float64)
	Exit()
	Snapshot() training.Snapshot
}

func runTraining(ctx context.Context, in io.Reader, out io.Writer, session trainingSession, exerciseID string, finished func() bool) error {
	if err := session.Start(ctx, exerciseID); err != nil {
		log.Debugf("train: start: %s", err)
	}
	draw(out, session.Snapshot())

	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
	}()

	for !finished() {
		var line string
		select {
		case <-ctx.Done():
			session.Exit()
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				session.Exit()
				return nil
			}
			line = l
		}

		command, err := parseTrainingCommand(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		switch command.action {
		case actionAdvance:
			session.Advance()
		case actionSeries:
			session.AdvanceSeries()
		case actionPause:
			session.PauseTimer()
		case actionResume:
			if session.Snapshot().Status == training.StatusFailed {
				if err := session.Retry(ctx); err != nil {
					log.Debugf("train: retry: %s", err)
				}
			} else {
				session.ResumeTimer()
			}
		case actionWeight:
			session.SetWeight(command.weightKg)
		case actionQuit:
			session.Exit()
			return nil
		}
		draw(out, session.Snapshot())
	}
	return nil
}

// draw writes the whole screen in one write so timer redraws never interleave.
func draw(out io.Writer, s training.Snapshot) {
	var buf bytes.Buffer
	render.Training(&buf, s)
	if _, err := out.Write(buf.Bytes()); err != nil {
		log.Debugf("train: draw: %s", err)
	}
}

type trainingAction int

const (
	actionRedraw trainingAction = iota
	actionAdvance
	actionSeries
	actionPause
	actionResume
	actionWeight
	actionQuit
)

type trainingCommand struct {
	action   trainingAction
	weightKg *float64
}

func parseTrainingCommand(line string) (trainingCommand, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return trainingCommand{action: actionRedraw}, nil
	}

	switch fields[0] {
	case "n", "next":
		return trainingCommand{action: actionAdvance}, nil
	case "s", "series":
		return trainingCommand{action: actionSeries}, nil
	case "p", "pause":
		return trainingCommand{action: actionPause}, nil
	case "r", "resume", "retry":
		return trainingCommand{action: actionResume}, nil
	case "q", "quit", "exit":
		return trainingCommand{action: actionQuit}, nil
	case "w", "weight":
		if len(fields) == 1 {
			return trainingCommand{action: actionWeight}, nil
		}
		kg, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "kg"), 64)
		if err != nil || kg < 0 {
			return trainingCommand{}, fmt.Errorf("invalid weight %q", fields[1])
		}
		return trainingCommand{action: actionWeight, weightKg: &kg}, nil
	default:
		return trainingCommand{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// lockedWriter serializes the timer observer's redraws with the input loop's.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
