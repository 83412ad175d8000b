// Package stages collects concrete Stage implementations: the canonical
// Save terminal sink and a handful of example InPlace/InOut/Extend stages
// exercising the pipeline's geometry-changing variants.
package stages

import (
	"fmt"
	"sync"

	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stage"
)

// SaveStage is an Input-variant stage that copies one channel's samples
// into an owned buffer of its own sample type, for the caller to recover
// once rendering completes. The buffer is guarded by a mutex so that a
// future parallel-chunk implementation could write disjoint rectangles
// from multiple goroutines safely; this core never does so itself.
type SaveStage[T sampletype.Sample] struct {
	mu      sync.Mutex
	buf     *plane.Plane[T]
	channel int
}

// NewSaveStage allocates a fresh, zero-filled output buffer of size for
// the given channel.
func NewSaveStage[T sampletype.Sample](channel int, size plane.Size) (*SaveStage[T], error) {
	buf, err := plane.New[T](size)
	if err != nil {
		return nil, err
	}
	return &SaveStage[T]{buf: buf, channel: channel}, nil
}

// NewSaveStageWithBuffer wraps an already-allocated buffer, e.g. one
// supplied by the caller to avoid a copy on extraction.
func NewSaveStageWithBuffer[T sampletype.Sample](channel int, buf *plane.Plane[T]) *SaveStage[T] {
	return &SaveStage[T]{buf: buf, channel: channel}
}

func (s *SaveStage[T]) Name() string {
	return fmt.Sprintf("save channel %d (type %s)", s.channel, sampletype.TagOf[T]())
}

func (s *SaveStage[T]) UsesChannel(c int) bool { return c == s.channel }

func (s *SaveStage[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{Name: s.Name(), Kind: stage.KindInput, InputType: tag, OutputType: tag}
}

// Buffer locks and returns the underlying plane. Callers must call Unlock
// when done inspecting it.
func (s *SaveStage[T]) Buffer() (*plane.Plane[T], func()) {
	s.mu.Lock()
	return s.buf, s.mu.Unlock
}

// IntoBuffer consumes the stage and returns its buffer outright.
func (s *SaveStage[T]) IntoBuffer() *plane.Plane[T] {
	return s.buf
}

func (s *SaveStage[T]) ProcessRowChunk(pos plane.Point, xsize int, rows [][]T) {
	input := rows[0]
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.buf.AsRectMut().Rect(pos, plane.Size{X: xsize, Y: 1})
	if err != nil {
		panic(fmt.Sprintf("save stage: mismatch in image size: %v", err))
	}
	out.CopyFromSlice(0, input[:xsize])
}
