package pipeline

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrPipelineEmpty = errors.New(f("pipeline has no stages"))
	ErrNoPhase       = errors.New(f("no phase order completed"))
)

// ErrStage indicates the stage a pipeline failure happened in.
type ErrStage struct {
	Stage int
	Err   error
}

func (err ErrStage) Error() string {
	return f("stage %d %v", err.Stage, err.Err)
}

func (err ErrStage) Unwrap() error {
	return err.Err
}
