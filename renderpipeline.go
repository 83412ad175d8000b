// Package renderpipeline is the top-level convenience facade over the
// render pipeline builder, runtime, stage library, and ambient hooks: most
// callers only need this package, plane and stages.
package renderpipeline

import (
	"github.com/jxlgo/renderpipeline/config"
	"github.com/jxlgo/renderpipeline/pipeline"
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stage"
)

// Re-export the builder/runtime entry points so callers importing only
// this package don't also need the pipeline import for the common path.
type (
	Builder              = pipeline.Builder
	Pipeline             = pipeline.Pipeline
	Hook                 = pipeline.Hook
	GroupFillInfo[F any] = pipeline.GroupFillInfo[F]
)

// NewBuilder creates a builder with the default chunk size.
func NewBuilder(numChannels int, size plane.Size, logGroupSize int) *Builder {
	return pipeline.NewBuilder(numChannels, size, logGroupSize)
}

// AddInputStage appends an Input-variant stage.
func AddInputStage[T sampletype.Sample](b *Builder, s stage.InputStage[T]) (*Builder, error) {
	return pipeline.AddInputStage[T](b, s)
}

// AddInPlaceStage appends an InPlace-variant stage.
func AddInPlaceStage[T sampletype.Sample](b *Builder, s stage.InPlaceStage[T]) (*Builder, error) {
	return pipeline.AddInPlaceStage[T](b, s)
}

// AddInOutStage appends an InOut-variant stage.
func AddInOutStage[TIn, TOut sampletype.Sample](b *Builder, s stage.InOutStage[TIn, TOut]) (*Builder, error) {
	return pipeline.AddInOutStage[TIn, TOut](b, s)
}

// AddExtendStage appends an Extend-variant stage.
func AddExtendStage[T sampletype.Sample](b *Builder, s stage.ExtendStage[T]) (*Builder, error) {
	return pipeline.AddExtendStage[T](b, s)
}

// FillInput fills every group's data using a single fill function over one
// sample type.
func FillInput[T sampletype.Sample](p *Pipeline, groups []GroupFillInfo[func([]plane.RectMut[T]) error]) error {
	return pipeline.FillInput[T](p, groups)
}

// FillInputTwoTypes fills every group's data using a pair of fill
// functions, one per sample type.
func FillInputTwoTypes[T1, T2 sampletype.Sample](
	p *Pipeline,
	groups []GroupFillInfo[struct {
		Fn1 func([]plane.RectMut[T1]) error
		Fn2 func([]plane.RectMut[T2]) error
	}],
) error {
	return pipeline.FillInputTwoTypes[T1, T2](p, groups)
}

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// NewBuilderFromConfig creates a Builder using cfg's LogGroupSize and
// ChunkSize, falling back to the pipeline's own defaults when cfg.ChunkSize
// is 0.
func NewBuilderFromConfig(cfg config.Config, numChannels int, size plane.Size) *Builder {
	if cfg.ChunkSize == 0 {
		return pipeline.NewBuilder(numChannels, size, cfg.LogGroupSize)
	}
	return pipeline.NewBuilderWithChunkSize(numChannels, size, cfg.LogGroupSize, cfg.ChunkSize)
}
