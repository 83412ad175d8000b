// Package pipeline implements the render pipeline builder and runtime: it
// accepts stages in declaration order, type-checks channel flow and
// accumulates downsampling at build time, then drives per-group input and
// per-pass rendering at run time.
package pipeline

import (
	"fmt"
	"time"

	rpErrors "github.com/jxlgo/renderpipeline/errors"
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stage"
)

const defaultChunkSize = 256

// Hook observes stage execution during render. It is given the stage's
// name, kind and (after the stage) its run time; no sample buffers are
// passed to it. See package hooks for logging and metrics implementations.
type Hook interface {
	BeforeStage(name string, kind stage.Kind)
	AfterStage(name string, kind stage.Kind, d time.Duration)
}

// chanInfo is the per-channel, per-chain-position channel-shape record. Ty
// is nil while the channel's sample type remains unresolved.
type chanInfo struct {
	ty         *sampletype.Tag
	downsample stage.Shift
}

// runner is the non-generic wrapper every AddXStage constructor produces.
// It closes over the stage's concrete type parameter(s) so that stages of
// differing sample types can live in one []*runner chain, the same problem
// the Rust reference solves with a boxed trait object.
type runner struct {
	name               string
	info               stage.Info
	usesChannel        func(c int) bool
	border             func() (bx, by int)
	newSize            func(in plane.Size) plane.Size
	originalDataOrigin func() plane.Point
	run                func(chunkSize int, in, out []*plane.Plane[float64])
	handle             any // the original typed stage value, for IntoStages
}

func (r *runner) String() string { return r.name }

// Builder accumulates stages and, on Build, validates and finalizes the
// channel-shape chain into a runnable Pipeline.
type Builder struct {
	channelInfo   [][]chanInfo // len(stages)+1 rows; row 0 is pre-first-stage
	inputSize     plane.Size
	logGroupSize  int
	chunkSize     int
	stages        []*runner
	canShift      bool
	hooks         []Hook
	failed        error // sticky: once a stage add fails, the builder is poisoned
}

// AddHook registers an observer invoked around every stage at render time.
func (b *Builder) AddHook(h Hook) *Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// NewBuilder creates a builder with the default chunk size (256).
func NewBuilder(numChannels int, size plane.Size, logGroupSize int) *Builder {
	return NewBuilderWithChunkSize(numChannels, size, logGroupSize, defaultChunkSize)
}

// NewBuilderWithChunkSize creates a builder with an explicit row-chunk
// width. chunkSize must fit in a uint16, matching the chunk-width limit
// carried in pipeline state.
func NewBuilderWithChunkSize(numChannels int, size plane.Size, logGroupSize, chunkSize int) *Builder {
	if chunkSize > 65535 {
		panic("pipeline: chunk_size exceeds 65535")
	}
	row := make([]chanInfo, numChannels)
	return &Builder{
		channelInfo:  [][]chanInfo{row},
		inputSize:    size,
		logGroupSize: logGroupSize,
		chunkSize:    chunkSize,
		canShift:     true,
	}
}

// addStage performs the channel-shape chain update common to every
// structural variant: carry-forward for unused channels, type-mismatch
// checking and the post-Extend shift rule for used channels.
func (b *Builder) addStage(r *runner) (*Builder, error) {
	if b.failed != nil {
		return b, b.failed
	}
	current := b.channelInfo[len(b.channelInfo)-1]
	after := make([]chanInfo, len(current))
	for c, info := range current {
		if !r.usesChannel(c) {
			after[c] = chanInfo{ty: info.ty, downsample: stage.Shift{}}
			continue
		}
		if info.ty != nil && *info.ty != r.info.InputType {
			err := rpErrors.Wrap(rpErrors.CategoryPipeline, "builder.add_stage",
				&rpErrors.ChannelTypeMismatchError{
					Stage:    r.name,
					Channel:  c,
					Expected: r.info.InputType,
					Actual:   *info.ty,
				})
			b.failed = err
			return b, err
		}
		out := r.info.OutputType
		after[c] = chanInfo{ty: &out, downsample: r.info.Shift}
	}
	if !b.canShift && !r.info.Shift.IsZero() {
		err := rpErrors.Wrap(rpErrors.CategoryPipeline, "builder.add_stage",
			&rpErrors.ShiftAfterExpandError{Stage: r.name})
		b.failed = err
		return b, err
	}
	if r.info.Kind == stage.KindExtend {
		b.canShift = false
	}
	b.channelInfo = append(b.channelInfo, after)
	b.stages = append(b.stages, r)
	return b, nil
}

// AddInputStage appends an Input-variant stage.
func AddInputStage[T sampletype.Sample](b *Builder, s stage.InputStage[T]) (*Builder, error) {
	r := &runner{
		name:        s.Name(),
		info:        s.Info(),
		usesChannel: s.UsesChannel,
		newSize:     func(in plane.Size) plane.Size { return in },
		run: func(chunkSize int, in, out []*plane.Plane[float64]) {
			runInputStage(s, chunkSize, in)
		},
		handle: s,
	}
	return b.addStage(r)
}

// AddInPlaceStage appends an InPlace-variant stage.
func AddInPlaceStage[T sampletype.Sample](b *Builder, s stage.InPlaceStage[T]) (*Builder, error) {
	r := &runner{
		name:        s.Name(),
		info:        s.Info(),
		usesChannel: s.UsesChannel,
		newSize:     func(in plane.Size) plane.Size { return in },
		run: func(chunkSize int, in, out []*plane.Plane[float64]) {
			runInPlaceStage(s, chunkSize, in, out)
		},
		handle: s,
	}
	return b.addStage(r)
}

// AddInOutStage appends an InOut-variant stage.
func AddInOutStage[TIn, TOut sampletype.Sample](b *Builder, s stage.InOutStage[TIn, TOut]) (*Builder, error) {
	r := &runner{
		name:        s.Name(),
		info:        s.Info(),
		usesChannel: s.UsesChannel,
		border:      s.Border,
		newSize:     s.NewSize,
		run: func(chunkSize int, in, out []*plane.Plane[float64]) {
			runInOutStage(s, chunkSize, in, out)
		},
		handle: s,
	}
	return b.addStage(r)
}

// AddExtendStage appends an Extend-variant stage.
func AddExtendStage[T sampletype.Sample](b *Builder, s stage.ExtendStage[T]) (*Builder, error) {
	r := &runner{
		name:               s.Name(),
		info:               s.Info(),
		usesChannel:        s.UsesChannel,
		newSize:            s.NewSize,
		originalDataOrigin: func() plane.Point { return s.OriginalDataOrigin() },
		run: func(chunkSize int, in, out []*plane.Plane[float64]) {
			runExtendStage(s, chunkSize, in, out)
		},
		handle: s,
	}
	return b.addStage(r)
}

func addOverflowU8(a, b uint8) (uint8, bool) {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 0, false
	}
	return uint8(sum), true
}

// shiftRightCeil computes ceil(x / 2^shift).
func shiftRightCeil(x int, shift uint8) int {
	if shift == 0 {
		return x
	}
	span := 1 << shift
	return (x + span - 1) >> shift
}

// Build finalizes the builder: it back-propagates channel sample types,
// accumulates per-channel downsampling, checks every channel was used, and
// allocates the pipeline's input buffers.
func (b *Builder) Build() (*Pipeline, error) {
	if b.failed != nil {
		return nil, b.failed
	}
	numChannels := len(b.channelInfo[0])
	curDownsamples := make([]stage.Shift, numChannels)

	for s := len(b.stages) - 1; s >= 0; s-- {
		st := b.stages[s]
		current := b.channelInfo[s]
		next := b.channelInfo[s+1]
		for c := 0; c < numChannels; c++ {
			if !st.usesChannel(c) {
				if current[c].ty == nil {
					current[c].ty = next[c].ty
				}
			} else {
				if next[c].ty == nil || *next[c].ty != st.info.OutputType {
					panic(fmt.Sprintf("pipeline: internal inconsistency at stage %q channel %d", st.name, c))
				}
				in := st.info.InputType
				current[c].ty = &in
			}

			cur := &curDownsamples[c]
			nextDownsample := &next[c].downsample
			nextTotal := *cur

			sx, ok := addOverflowU8(cur.SX, nextDownsample.SX)
			if !ok {
				return nil, rpErrors.Wrap(rpErrors.CategoryPipeline, "builder.build", rpErrors.ErrArithmeticOverflow)
			}
			sy, ok := addOverflowU8(cur.SY, nextDownsample.SY)
			if !ok {
				return nil, rpErrors.Wrap(rpErrors.CategoryPipeline, "builder.build", rpErrors.ErrArithmeticOverflow)
			}
			cur.SX, cur.SY = sx, sy
			*nextDownsample = nextTotal
		}
	}
	for c := 0; c < numChannels; c++ {
		b.channelInfo[0][c].downsample = curDownsamples[c]
	}

	for _, row := range b.channelInfo {
		for c, info := range row {
			if info.ty == nil {
				return nil, rpErrors.Wrap(rpErrors.CategoryPipeline, "builder.build", &rpErrors.ChannelUnusedError{Channel: c})
			}
		}
	}

	inputBuffers := make([]*plane.Plane[float64], numChannels)
	for c, info := range b.channelInfo[0] {
		xsize := shiftRightCeil(b.inputSize.X, info.downsample.SX)
		ysize := shiftRightCeil(b.inputSize.Y, info.downsample.SY)
		buf, err := plane.New[float64](plane.Size{X: xsize, Y: ysize})
		if err != nil {
			return nil, rpErrors.Wrap(rpErrors.CategoryMemory, "builder.build", err)
		}
		inputBuffers[c] = buf
	}

	xgroups := shiftRightCeil(b.inputSize.X, uint8(b.logGroupSize))
	ygroups := shiftRightCeil(b.inputSize.Y, uint8(b.logGroupSize))

	return &Pipeline{
		channelInfo:      b.channelInfo,
		inputSize:        b.inputSize,
		logGroupSize:     b.logGroupSize,
		xgroups:          xgroups,
		stages:           b.stages,
		groupReadyPasses: make([]int, xgroups*ygroups),
		inputBuffers:     inputBuffers,
		chunkSize:        b.chunkSize,
		hooks:            b.hooks,
	}, nil
}
