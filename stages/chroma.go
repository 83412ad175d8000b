package stages

import (
	"fmt"

	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stage"
)

// ChromaFromLuma is an InPlace stage reconstructing a chroma channel from a
// correlated luma channel, a simplified stand-in for JPEG XL's
// chroma-from-luma prediction: chroma' = chroma + Factor*(luma - Base).
// It touches exactly two channels, so its row order depends on which
// channel index is smaller; lumaFirst is resolved once at construction.
type ChromaFromLuma[T sampletype.Sample] struct {
	LumaChannel, ChromaChannel int
	Factor, Base               float64

	lumaFirst bool
}

// NewChromaFromLuma constructs the stage, precomputing row order.
func NewChromaFromLuma[T sampletype.Sample](lumaChannel, chromaChannel int, factor, base float64) *ChromaFromLuma[T] {
	if lumaChannel == chromaChannel {
		panic("stages: chroma-from-luma requires distinct luma and chroma channels")
	}
	return &ChromaFromLuma[T]{
		LumaChannel:   lumaChannel,
		ChromaChannel: chromaChannel,
		Factor:        factor,
		Base:          base,
		lumaFirst:     lumaChannel < chromaChannel,
	}
}

func (s *ChromaFromLuma[T]) Name() string {
	return fmt.Sprintf("chroma-from-luma (luma=%d, chroma=%d)", s.LumaChannel, s.ChromaChannel)
}

func (s *ChromaFromLuma[T]) UsesChannel(c int) bool {
	return c == s.LumaChannel || c == s.ChromaChannel
}

func (s *ChromaFromLuma[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{Name: s.Name(), Kind: stage.KindInPlace, InputType: tag, OutputType: tag}
}

func (s *ChromaFromLuma[T]) ProcessRowChunk(pos plane.Point, xsize int, rows [][]T) {
	var luma, chroma []T
	if s.lumaFirst {
		luma, chroma = rows[0], rows[1]
	} else {
		chroma, luma = rows[0], rows[1]
	}
	for ix := 0; ix < xsize; ix++ {
		l := sampletype.ToF64(luma[ix])
		c := sampletype.ToF64(chroma[ix])
		chroma[ix] = sampletype.FromF64[T](c + s.Factor*(l-s.Base))
	}
}
