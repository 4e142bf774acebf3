package server

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/game"
)

// StepSink consumes reveal steps in order.
type StepSink interface {
	OnStep(step game.Step)
}

// StepSinkFunc adapts a function to StepSink.
type StepSinkFunc func(step game.Step)

func (f StepSinkFunc) OnStep(step game.Step) { f(step) }

// Sequencer replays reveal steps with a fixed pause between them.
type Sequencer struct {
	clock quartz.Clock
	delay time.Duration
}

// NewSequencer returns a sequencer pausing delay between steps. A zero delay
// emits every step immediately.
func NewSequencer(clock quartz.Clock, delay time.Duration) *Sequencer {
	return &Sequencer{clock: clock, delay: delay}
}

// Play emits steps to sink in order. The timer for each pause is armed before
// the preceding step is emitted, so sink time does not stretch the pacing.
func (s *Sequencer) Play(ctx context.Context, steps []game.Step, sink StepSink) error {
	for i, step := range steps {
		var timer *quartz.Timer
		if s.delay > 0 && i < len(steps)-1 {
			timer = s.clock.NewTimer(s.delay, "reveal")
		}

		sink.OnStep(step)

		if timer == nil {
			continue
		}
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// RevealMonitor turns completed rounds into paced step streams. Rounds are
// revealed one after another in completion order.
type RevealMonitor struct {
	NullRoundMonitor

	sequencer *Sequencer
	sink      StepSink
	queue     chan []game.Step
	logger    zerolog.Logger
}

// NewRevealMonitor returns a monitor feeding sink. Run must be called for
// steps to be delivered.
func NewRevealMonitor(sequencer *Sequencer, sink StepSink, logger zerolog.Logger) *RevealMonitor {
	return &RevealMonitor{
		sequencer: sequencer,
		sink:      sink,
		queue:     make(chan []game.Step, 64),
		logger:    logger.With().Str("component", "reveal").Logger(),
	}
}

// OnRoundComplete queues the round's steps.
func (m *RevealMonitor) OnRoundComplete(result *game.RoundResult, _ game.Snapshot) {
	select {
	case m.queue <- result.Steps():
	default:
		m.logger.Warn().Int("round", result.Round).Msg("Reveal queue full, dropping round")
	}
}

// Run delivers queued rounds until ctx is cancelled.
func (m *RevealMonitor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case steps := <-m.queue:
			if err := m.sequencer.Play(ctx, steps, m.sink); err != nil {
				return err
			}
		}
	}
}
