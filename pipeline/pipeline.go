// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package pipeline chains Intcode machines so that the output of each stage
// is the input of the next.
//
// Every stage runs the same program and is primed with its own phase value
// before the first signal arrives. A pipeline can be run once end to end
// (Pass), or as a feedback loop where the last stage's output returns to the
// first stage until the last stage halts (Feedback).
package pipeline

import (
	"log"

	"github.com/ezrec/intcode/intcode"
	"github.com/ezrec/intcode/internal"
)

// Pipeline is an ordered chain of machines.
type Pipeline struct {
	Verbose bool               // If set, logs the signal through each stage.
	Stages  []*intcode.Machine // Machines, in signal order.
}

// Result is the outcome of a phase search.
type Result struct {
	Signal int64   // Best final signal.
	Phases []int64 // Phase order that produced it.
}

// New creates a pipeline with one machine per phase, each loaded with
// program and primed with its phase.
func New(program []int64, phases []int64) (pl *Pipeline) {
	pl = &Pipeline{
		Stages: make([]*intcode.Machine, len(phases)),
	}

	for n, phase := range phases {
		m := intcode.NewMachine(program)
		m.PushInput(phase)
		pl.Stages[n] = m
	}

	return
}

// Pass sends signal through every stage once, and returns the output of
// the last stage. Each stage must produce an output before it suspends.
func (pl *Pipeline) Pass(signal int64) (output int64, err error) {
	if len(pl.Stages) == 0 {
		err = ErrPipelineEmpty
		return
	}

	output = signal
	for n, m := range pl.Stages {
		m.PushInput(output)

		var state intcode.State
		state, err = m.Run()
		if err != nil {
			err = ErrStage{Stage: n, Err: err}
			return
		}

		value, ok := m.PopOutput()
		if !ok {
			err = ErrStage{Stage: n, Err: intcode.ErrMissingOutput}
			return
		}

		if pl.Verbose {
			log.Printf("stage %d: %d -> %d (%v)", n, output, value, state)
		}

		output = value
	}

	return
}

// Feedback repeats Pass, returning each final output to the first stage,
// until the last stage has terminated.
func (pl *Pipeline) Feedback(signal int64) (output int64, err error) {
	if len(pl.Stages) == 0 {
		err = ErrPipelineEmpty
		return
	}

	last := pl.Stages[len(pl.Stages)-1]

	output = signal
	for {
		output, err = pl.Pass(output)
		if err != nil {
			return
		}

		if last.State() == intcode.STATE_TERMINATED {
			break
		}
	}

	return
}

// Amplify runs a new pipeline once from signal 0.
func Amplify(program []int64, phases []int64) (int64, error) {
	return New(program, phases).Pass(0)
}

// AmplifyFeedback runs a new pipeline as a feedback loop from signal 0.
func AmplifyFeedback(program []int64, phases []int64) (int64, error) {
	return New(program, phases).Feedback(0)
}

// MaxSignal tries every ordering of phases and returns the one with the
// highest final signal. Orderings that fail are skipped; if none succeeds,
// ErrNoPhase is returned.
func MaxSignal(program []int64, phases []int64, feedback bool) (result Result, err error) {
	found := false

	for order := range internal.Permutations(phases) {
		var signal int64
		var perr error
		if feedback {
			signal, perr = AmplifyFeedback(program, order)
		} else {
			signal, perr = Amplify(program, order)
		}
		if perr != nil {
			continue
		}

		if !found || signal > result.Signal {
			result = Result{Signal: signal, Phases: order}
			found = true
		}
	}

	if !found {
		err = ErrNoPhase
	}

	return
}
