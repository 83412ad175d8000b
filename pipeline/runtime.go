package pipeline

import (
	"fmt"
	"time"

	rpErrors "github.com/jxlgo/renderpipeline/errors"
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
)

// Pipeline is a built, runnable render pipeline. It waits for every group to
// report the same pass count before rendering, trading memory and speed for
// clarity: the whole canvas is buffered at every stage boundary.
type Pipeline struct {
	channelInfo      [][]chanInfo
	inputSize        plane.Size
	logGroupSize     int
	xgroups          int
	stages           []*runner
	groupReadyPasses []int
	completedPasses  int
	inputBuffers     []*plane.Plane[float64]
	chunkSize        int
	hooks            []Hook
}

// NumGroups returns the total number of groups covering the canvas.
func (p *Pipeline) NumGroups() int {
	ygroups := shiftRightCeil(p.inputSize.Y, uint8(p.logGroupSize))
	return p.xgroups * ygroups
}

// GroupFillInfo describes one group's worth of freshly decoded data: which
// group, how many further progressive passes this delivery completes (added
// to the group's running pass count), and the callback that fills freshly
// allocated per-channel tiles.
type GroupFillInfo[F any] struct {
	GroupID         int
	NumFilledPasses int
	FillFn          F
}

func (p *Pipeline) groupRect(groupID int) (offset plane.Point, clipped plane.Size) {
	gx := groupID % p.xgroups
	gy := groupID / p.xgroups
	span := 1 << p.logGroupSize
	goffX := gx << p.logGroupSize
	goffY := gy << p.logGroupSize
	gsizeX := min(p.inputSize.X, goffX+span) - goffX
	gsizeY := min(p.inputSize.Y, goffY+span) - goffY
	return plane.Point{X: goffX, Y: goffY}, plane.Size{X: gsizeX, Y: gsizeY}
}

// FillInput fills every group's data using a single fill function over one
// sample type; every channel must carry that type.
func FillInput[T sampletype.Sample](p *Pipeline, groups []GroupFillInfo[func(views []plane.RectMut[T]) error]) error {
	for _, g := range groups {
		goffset, gsize := p.groupRect(g.GroupID)

		tiles := make([]*plane.Plane[T], len(p.channelInfo[0]))
		for c, info := range p.channelInfo[0] {
			if *info.ty != sampletype.TagOf[T]() {
				panic(fmt.Sprintf("pipeline: fill_input channel %d type mismatch", c))
			}
			if goffset.X%(1<<info.downsample.SX) != 0 || goffset.Y%(1<<info.downsample.SY) != 0 {
				panic(fmt.Sprintf("pipeline: misaligned group offset for channel %d", c))
			}
			xsize := shiftRightCeil(gsize.X, info.downsample.SX)
			ysize := shiftRightCeil(gsize.Y, info.downsample.SY)
			buf, err := plane.New[T](plane.Size{X: xsize, Y: ysize})
			if err != nil {
				return rpErrors.Wrap(rpErrors.CategoryMemory, "pipeline.fill_input", err)
			}
			tiles[c] = buf
		}

		views := make([]plane.RectMut[T], len(tiles))
		for c, t := range tiles {
			views[c] = t.AsRectMut()
		}
		if err := g.FillFn(views); err != nil {
			return rpErrors.Wrap(rpErrors.CategoryCallback, "pipeline.fill_input", err)
		}

		for c, info := range p.channelInfo[0] {
			offX := goffset.X >> info.downsample.SX
			offY := goffset.Y >> info.downsample.SY
			h := shiftRightCeil(gsize.Y, info.downsample.SY)
			w := shiftRightCeil(gsize.X, info.downsample.SX)
			for y := 0; y < h; y++ {
				dst := p.inputBuffers[c].Row(y + offY)
				src := tiles[c].Row(y)
				for x := 0; x < w; x++ {
					dst[x+offX] = sampletype.ToF64(src[x])
				}
			}
		}

		p.groupReadyPasses[g.GroupID] += g.NumFilledPasses
	}

	return p.render()
}

// FillInputTwoTypes fills every group's data using a pair of fill
// functions, one per sample type; between them they must cover every
// channel's type exactly.
func FillInputTwoTypes[T1, T2 sampletype.Sample](
	p *Pipeline,
	groups []GroupFillInfo[struct {
		Fn1 func(views []plane.RectMut[T1]) error
		Fn2 func(views []plane.RectMut[T2]) error
	}],
) error {
	tag1, tag2 := sampletype.TagOf[T1](), sampletype.TagOf[T2]()

	for _, g := range groups {
		goffset, gsize := p.groupRect(g.GroupID)

		var tiles1 []*plane.Plane[T1]
		var tiles2 []*plane.Plane[T2]
		chIdx := make([]int, len(p.channelInfo[0]))

		for c, info := range p.channelInfo[0] {
			if goffset.X%(1<<info.downsample.SX) != 0 || goffset.Y%(1<<info.downsample.SY) != 0 {
				panic(fmt.Sprintf("pipeline: misaligned group offset for channel %d", c))
			}
			xsize := shiftRightCeil(gsize.X, info.downsample.SX)
			ysize := shiftRightCeil(gsize.Y, info.downsample.SY)
			switch *info.ty {
			case tag1:
				chIdx[c] = len(tiles1)
				buf, err := plane.New[T1](plane.Size{X: xsize, Y: ysize})
				if err != nil {
					return rpErrors.Wrap(rpErrors.CategoryMemory, "pipeline.fill_input_two_types", err)
				}
				tiles1 = append(tiles1, buf)
			case tag2:
				chIdx[c] = len(tiles2)
				buf, err := plane.New[T2](plane.Size{X: xsize, Y: ysize})
				if err != nil {
					return rpErrors.Wrap(rpErrors.CategoryMemory, "pipeline.fill_input_two_types", err)
				}
				tiles2 = append(tiles2, buf)
			default:
				panic(fmt.Sprintf("pipeline: fill_input_two_types channel %d type %s is neither provided type", c, *info.ty))
			}
		}

		if len(tiles1) > 0 {
			views := make([]plane.RectMut[T1], len(tiles1))
			for i, t := range tiles1 {
				views[i] = t.AsRectMut()
			}
			if err := g.FillFn.Fn1(views); err != nil {
				return rpErrors.Wrap(rpErrors.CategoryCallback, "pipeline.fill_input_two_types", err)
			}
		}
		if len(tiles2) > 0 {
			views := make([]plane.RectMut[T2], len(tiles2))
			for i, t := range tiles2 {
				views[i] = t.AsRectMut()
			}
			if err := g.FillFn.Fn2(views); err != nil {
				return rpErrors.Wrap(rpErrors.CategoryCallback, "pipeline.fill_input_two_types", err)
			}
		}

		for c, info := range p.channelInfo[0] {
			offX := goffset.X >> info.downsample.SX
			offY := goffset.Y >> info.downsample.SY
			h := shiftRightCeil(gsize.Y, info.downsample.SY)
			w := shiftRightCeil(gsize.X, info.downsample.SX)
			switch *info.ty {
			case tag1:
				src := tiles1[chIdx[c]]
				for y := 0; y < h; y++ {
					dst := p.inputBuffers[c].Row(y + offY)
					row := src.Row(y)
					for x := 0; x < w; x++ {
						dst[x+offX] = sampletype.ToF64(row[x])
					}
				}
			case tag2:
				src := tiles2[chIdx[c]]
				for y := 0; y < h; y++ {
					dst := p.inputBuffers[c].Row(y + offY)
					row := src.Row(y)
					for x := 0; x < w; x++ {
						dst[x+offX] = sampletype.ToF64(row[x])
					}
				}
			}
		}

		p.groupReadyPasses[g.GroupID] += g.NumFilledPasses
	}

	return p.render()
}

// render executes the whole stage chain once, if every group has reported
// a new completed pass since the last render.
func (p *Pipeline) render() error {
	ready := p.groupReadyPasses[0]
	for _, v := range p.groupReadyPasses[1:] {
		if v < ready {
			ready = v
		}
	}
	if ready <= p.completedPasses {
		return nil
	}
	p.completedPasses = ready

	currentBuffers, err := cloneBuffers(p.inputBuffers)
	if err != nil {
		return err
	}
	currentSize := p.inputSize

	for i, st := range p.stages {
		outputBuffers, err := cloneBuffers(currentBuffers)
		if err != nil {
			return err
		}

		if !st.info.Shift.IsZero() || st.newSize(currentSize) != currentSize {
			currentSize = st.newSize(currentSize)
			for c, info := range p.channelInfo[i+1] {
				if st.usesChannel(c) {
					xsize := shiftRightCeil(currentSize.X, info.downsample.SX)
					ysize := shiftRightCeil(currentSize.Y, info.downsample.SY)
					buf, err := plane.New[float64](plane.Size{X: xsize, Y: ysize})
					if err != nil {
						return rpErrors.Wrap(rpErrors.CategoryMemory, "pipeline.render", err)
					}
					outputBuffers[c] = buf
				}
			}
		}

		var inBuf, outBuf []*plane.Plane[float64]
		for c := range currentBuffers {
			if st.usesChannel(c) {
				inBuf = append(inBuf, currentBuffers[c])
				outBuf = append(outBuf, outputBuffers[c])
			}
		}
		for _, h := range p.hooks {
			h.BeforeStage(st.name, st.info.Kind)
		}
		start := time.Now()
		st.run(p.chunkSize, inBuf, outBuf)
		elapsed := time.Since(start)
		for _, h := range p.hooks {
			h.AfterStage(st.name, st.info.Kind, elapsed)
		}
		currentBuffers = outputBuffers
	}

	return nil
}

func cloneBuffers(src []*plane.Plane[float64]) ([]*plane.Plane[float64], error) {
	out := make([]*plane.Plane[float64], len(src))
	for i, b := range src {
		clone, err := b.ToImage()
		if err != nil {
			return nil, rpErrors.Wrap(rpErrors.CategoryMemory, "pipeline.render", err)
		}
		out[i] = clone
	}
	return out, nil
}

// IntoStages dissolves the pipeline, returning its stages as opaque handles
// the caller can type-assert back to the concrete stage type that was
// added (e.g. *stages.SaveStage[T]) to recover owned terminal state.
func (p *Pipeline) IntoStages() []any {
	out := make([]any, len(p.stages))
	for i, r := range p.stages {
		out[i] = r.handle
	}
	return out
}
