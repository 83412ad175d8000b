// Package stage defines the render pipeline's Stage abstraction: a single
// processing step carrying static shape metadata (structural Kind, sample
// types, shift) plus a dynamic per-variant row-chunk method.
package stage

import (
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
)

// Kind is the structural variant of a Stage. It determines the shape of
// ProcessRowChunk and whether the stage may change canvas geometry.
type Kind uint8

const (
	KindInput Kind = iota
	KindInPlace
	KindInOut
	KindExtend
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "Input"
	case KindInPlace:
		return "InPlace"
	case KindInOut:
		return "InOut"
	case KindExtend:
		return "Extend"
	default:
		return "unknown"
	}
}

// Shift is a log-2 upsample (or, for downsample accumulation, subsample)
// factor pair applied independently on each axis.
type Shift struct {
	SX, SY uint8
}

// IsZero reports whether both axes carry zero shift.
func (s Shift) IsZero() bool { return s.SX == 0 && s.SY == 0 }

// Info is the static description common to every stage, independent of its
// concrete sample type parameters.
type Info struct {
	Name       string
	Kind       Kind
	InputType  sampletype.Tag
	OutputType sampletype.Tag
	Shift      Shift
}

// Stage is the non-generic capability surface the builder and runtime
// operate over once a concrete stage has been wrapped for storage in a
// heterogeneous chain (see pipeline.AddInputStage and its siblings).
type Stage interface {
	// Name returns the stage's display name, used in error messages and logs.
	Name() string
	// UsesChannel reports whether this stage reads or writes channel c.
	UsesChannel(c int) bool
	// Info returns the stage's static shape metadata.
	Info() Info
}

// InputStage consumes a row chunk and writes nowhere; it may accumulate
// state via interior mutability (e.g. a terminal Save stage).
type InputStage[T sampletype.Sample] interface {
	Stage
	// ProcessRowChunk is invoked once per chunk with a read-only row-major
	// view of width xsize, one row per channel the stage uses, in
	// channel-index order.
	ProcessRowChunk(pos plane.Point, xsize int, rows [][]T)
}

// InPlaceStage rewrites samples without changing geometry.
type InPlaceStage[T sampletype.Sample] interface {
	Stage
	// ProcessRowChunk is invoked once per chunk with a mutable row-major
	// view of width xsize, one row per channel the stage uses.
	ProcessRowChunk(pos plane.Point, xsize int, rows [][]T)
}

// InOutStage reads a bordered input window and writes an upsampled output
// window. Border size (BX, BY) is returned by Border; shift (SX, SY) is
// carried in Info.
type InOutStage[TIn, TOut sampletype.Sample] interface {
	Stage
	// Border returns the number of extra input samples needed on each side
	// of a chunk along X and Y respectively.
	Border() (bx, by int)
	// NewSize computes the output canvas size for a given input canvas size.
	NewSize(in plane.Size) plane.Size
	// ProcessRowChunk is invoked once per chunk. inRows holds, for each
	// channel the stage uses, 2*BY+1 bordered input rows each of width
	// 2*BX+xsize. outRows holds, for each such channel, 1<<SY output rows
	// each of width xsize<<SX, to be filled by the callback.
	ProcessRowChunk(pos plane.Point, xsize int, inRows [][][]TIn, outRows [][][]TOut)
}

// ExtendStage enlarges the canvas per NewSize, copies original samples into
// the rectangle at OriginalDataOrigin, and is invoked only for pixels
// outside that rectangle to synthesize new border content.
type ExtendStage[T sampletype.Sample] interface {
	Stage
	// NewSize computes the enlarged canvas size for a given input size.
	NewSize(in plane.Size) plane.Size
	// OriginalDataOrigin returns the offset at which original samples are
	// copied into the enlarged canvas.
	OriginalDataOrigin() plane.Point
	// ProcessRowChunk synthesizes samples outside the copied-in rectangle.
	ProcessRowChunk(pos plane.Point, xsize int, rows [][]T)
}
