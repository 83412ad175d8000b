package stages

import (
	"fmt"

	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stage"
)

// Scale is an InPlace stage that multiplies every sample of one channel by
// a constant factor, computed in the pipeline's wide-float transport
// precision before narrowing back to the channel's sample type.
type Scale[T sampletype.Sample] struct {
	Channel int
	Factor  float64
}

func (s *Scale[T]) Name() string            { return fmt.Sprintf("scale channel %d by %v", s.Channel, s.Factor) }
func (s *Scale[T]) UsesChannel(c int) bool  { return c == s.Channel }
func (s *Scale[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{Name: s.Name(), Kind: stage.KindInPlace, InputType: tag, OutputType: tag}
}

func (s *Scale[T]) ProcessRowChunk(pos plane.Point, xsize int, rows [][]T) {
	row := rows[0]
	for ix := 0; ix < xsize; ix++ {
		row[ix] = sampletype.FromF64[T](sampletype.ToF64(row[ix]) * s.Factor)
	}
}

// ClampOutput is an InPlace stage that clamps one channel's samples into
// [Lo, Hi], evaluated in the pipeline's wide-float transport precision
// before narrowing back to the channel's sample type.
type ClampOutput[T sampletype.Sample] struct {
	Channel int
	Lo, Hi  float64
}

func (s *ClampOutput[T]) Name() string           { return fmt.Sprintf("clamp channel %d to [%v, %v]", s.Channel, s.Lo, s.Hi) }
func (s *ClampOutput[T]) UsesChannel(c int) bool { return c == s.Channel }
func (s *ClampOutput[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{Name: s.Name(), Kind: stage.KindInPlace, InputType: tag, OutputType: tag}
}

func (s *ClampOutput[T]) ProcessRowChunk(pos plane.Point, xsize int, rows [][]T) {
	row := rows[0]
	for ix := 0; ix < xsize; ix++ {
		v := sampletype.ToF64(row[ix])
		if v < s.Lo {
			v = s.Lo
		}
		if v > s.Hi {
			v = s.Hi
		}
		row[ix] = sampletype.FromF64[T](v)
	}
}

// NearestUpsample is an InOut stage with zero border that duplicates each
// input sample into a 1<<ShiftX by 1<<ShiftY block of output samples.
type NearestUpsample[T sampletype.Sample] struct {
	Channel         int
	ShiftX, ShiftY  uint8
}

func (s *NearestUpsample[T]) Name() string {
	return fmt.Sprintf("nearest upsample channel %d by (%d, %d)", s.Channel, s.ShiftX, s.ShiftY)
}
func (s *NearestUpsample[T]) UsesChannel(c int) bool { return c == s.Channel }
func (s *NearestUpsample[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{
		Name: s.Name(), Kind: stage.KindInOut, InputType: tag, OutputType: tag,
		Shift: stage.Shift{SX: s.ShiftX, SY: s.ShiftY},
	}
}
func (s *NearestUpsample[T]) Border() (bx, by int) { return 0, 0 }
func (s *NearestUpsample[T]) NewSize(in plane.Size) plane.Size {
	return plane.Size{X: in.X << s.ShiftX, Y: in.Y << s.ShiftY}
}

func (s *NearestUpsample[T]) ProcessRowChunk(pos plane.Point, xsize int, inRows [][][]T, outRows [][][]T) {
	in := inRows[0][0]
	for iy := 0; iy < 1<<s.ShiftY; iy++ {
		out := outRows[0][iy]
		for ix := 0; ix < xsize<<s.ShiftX; ix++ {
			out[ix] = in[ix>>s.ShiftX]
		}
	}
}

// ConstantExtend is an Extend stage that grows the canvas to a fixed
// target size, placing the original samples at Origin and filling every
// newly introduced sample with Fill.
type ConstantExtend[T sampletype.Sample] struct {
	Channel    int
	TargetSize plane.Size
	Origin     plane.Point
	Fill       T
}

func (s *ConstantExtend[T]) Name() string {
	return fmt.Sprintf("constant-extend channel %d to %v at %v", s.Channel, s.TargetSize, s.Origin)
}
func (s *ConstantExtend[T]) UsesChannel(c int) bool { return c == s.Channel }
func (s *ConstantExtend[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{Name: s.Name(), Kind: stage.KindExtend, InputType: tag, OutputType: tag}
}
func (s *ConstantExtend[T]) NewSize(in plane.Size) plane.Size  { return s.TargetSize }
func (s *ConstantExtend[T]) OriginalDataOrigin() plane.Point   { return s.Origin }

func (s *ConstantExtend[T]) ProcessRowChunk(pos plane.Point, xsize int, rows [][]T) {
	row := rows[0]
	for ix := 0; ix < xsize; ix++ {
		row[ix] = s.Fill
	}
}

// EdgeExtend is an Extend stage that grows the canvas to a fixed target
// size, placing the original samples at Origin and filling every newly
// introduced sample by clamping to the nearest original-data edge sample
// (the border-replication counterpart to ConstantExtend's flat fill).
type EdgeExtend[T sampletype.Sample] struct {
	Channel      int
	TargetSize   plane.Size
	Origin       plane.Point
	OriginalSize plane.Size

	src *plane.Plane[T] // set by Attach before the pipeline runs
}

// Attach gives the stage a read-only handle to the original-resolution
// buffer so its ProcessRowChunk can clamp into it. Must be called before
// the owning pipeline's first render.
func (s *EdgeExtend[T]) Attach(src *plane.Plane[T]) { s.src = src }

func (s *EdgeExtend[T]) Name() string {
	return fmt.Sprintf("edge-extend channel %d to %v at %v", s.Channel, s.TargetSize, s.Origin)
}
func (s *EdgeExtend[T]) UsesChannel(c int) bool { return c == s.Channel }
func (s *EdgeExtend[T]) Info() stage.Info {
	tag := sampletype.TagOf[T]()
	return stage.Info{Name: s.Name(), Kind: stage.KindExtend, InputType: tag, OutputType: tag}
}
func (s *EdgeExtend[T]) NewSize(in plane.Size) plane.Size { return s.TargetSize }
func (s *EdgeExtend[T]) OriginalDataOrigin() plane.Point  { return s.Origin }

func (s *EdgeExtend[T]) ProcessRowChunk(pos plane.Point, xsize int, rows [][]T) {
	clampY := pos.Y - s.Origin.Y
	if clampY < 0 {
		clampY = 0
	} else if clampY >= s.OriginalSize.Y {
		clampY = s.OriginalSize.Y - 1
	}
	srcRow := s.src.Row(clampY)
	row := rows[0]
	for ix := 0; ix < xsize; ix++ {
		clampX := pos.X + ix - s.Origin.X
		if clampX < 0 {
			clampX = 0
		} else if clampX >= s.OriginalSize.X {
			clampX = s.OriginalSize.X - 1
		}
		row[ix] = srcRow[clampX]
	}
}
