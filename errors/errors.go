// Package errors is the structured error type used throughout the render
// pipeline core.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryMemory   Category = "memory"   // allocation failure
	CategoryBounds   Category = "bounds"   // sub-rectangle escaped its parent
	CategoryPipeline Category = "pipeline" // builder / build-time validation
	CategoryCallback Category = "callback" // error surfaced from a decoder fill callback
)

// PipelineError is the structured error type returned by this module.
type PipelineError struct {
	Category Category
	Op       string // operation name, e.g. "builder.add_stage", "plane.rect"
	Err      error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// New creates a PipelineError.
func New(category Category, op string, err error) *PipelineError {
	return &PipelineError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context. Returns nil if err is nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// Sentinel errors for the kinds §7 of the spec calls out by name.
var (
	// ErrOutOfMemory is returned when a plane or scratch buffer allocation fails.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrOutOfBounds is returned when a requested sub-rectangle exceeds its parent.
	ErrOutOfBounds = errors.New("rectangle out of bounds")

	// ErrChannelUnused is returned at build time when a channel's sample type
	// could not be resolved because no stage used it.
	ErrChannelUnused = errors.New("channel used by no stage")

	// ErrArithmeticOverflow is returned when accumulating per-channel
	// downsampling shifts overflows the u8 representation.
	ErrArithmeticOverflow = errors.New("arithmetic overflow accumulating downsample shift")
)

// ChannelTypeMismatchError is PipelineChannelTypeMismatch(stage, channel,
// expected, actual) from §7: a stage's declared INPUT_TYPE disagrees with
// the sample type the channel already carries when the stage is attached.
type ChannelTypeMismatchError struct {
	Stage    string
	Channel  int
	Expected fmt.Stringer
	Actual   fmt.Stringer
}

func (e *ChannelTypeMismatchError) Error() string {
	return fmt.Sprintf(
		"pipeline: stage %q channel %d: expected input type %s, channel carries %s",
		e.Stage, e.Channel, e.Expected, e.Actual,
	)
}

// ShiftAfterExpandError is PipelineShiftAfterExpand(stage) from §7: a stage
// with nonzero SHIFT was added after an Extend stage.
type ShiftAfterExpandError struct {
	Stage string
}

func (e *ShiftAfterExpandError) Error() string {
	return fmt.Sprintf("pipeline: stage %q has nonzero shift but follows an Extend stage", e.Stage)
}

// ChannelUnusedError is PipelineChannelUnused(channel) from §7: build()
// could not resolve a sample type for this channel anywhere in the chain.
type ChannelUnusedError struct {
	Channel int
}

func (e *ChannelUnusedError) Error() string {
	return fmt.Sprintf("pipeline: channel %d is used by no stage", e.Channel)
}

func (e *ChannelUnusedError) Unwrap() error { return ErrChannelUnused }
