package pipeline

import (
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stage"
)

// mirror maps a coordinate that may fall outside [0, size) back into range
// by reflecting at each boundary, repeatedly, until it lands inside. It is
// the identity on [0, size).
func mirror(v, size int) int {
	for v < 0 || v >= size {
		if v < 0 {
			v = -v - 1
		}
		if v >= size {
			v = size + (size - v) - 1
		}
	}
	return v
}

func runInputStage[T sampletype.Sample](s stage.InputStage[T], chunkSize int, inputBuffers []*plane.Plane[float64]) {
	numc := len(inputBuffers)
	if numc == 0 {
		return
	}
	size := inputBuffers[0].Size()
	buffer := make([][]T, numc)
	for c := range buffer {
		buffer[c] = make([]T, chunkSize)
	}
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x += chunkSize {
			xsize := min(size.X, x+chunkSize) - x
			for c := 0; c < numc; c++ {
				src := inputBuffers[c].Row(y)
				for ix := 0; ix < xsize; ix++ {
					buffer[c][ix] = sampletype.FromF64[T](src[x+ix])
				}
			}
			rows := make([][]T, numc)
			for c := range rows {
				rows[c] = buffer[c][:xsize]
			}
			s.ProcessRowChunk(plane.Point{X: x, Y: y}, xsize, rows)
		}
	}
}

func runInPlaceStage[T sampletype.Sample](s stage.InPlaceStage[T], chunkSize int, inputBuffers, outputBuffers []*plane.Plane[float64]) {
	numc := len(inputBuffers)
	if numc == 0 {
		return
	}
	size := inputBuffers[0].Size()
	buffer := make([][]T, numc)
	for c := range buffer {
		buffer[c] = make([]T, chunkSize)
	}
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x += chunkSize {
			xsize := min(size.X, x+chunkSize) - x
			for c := 0; c < numc; c++ {
				src := inputBuffers[c].Row(y)
				for ix := 0; ix < xsize; ix++ {
					buffer[c][ix] = sampletype.FromF64[T](src[x+ix])
				}
			}
			rows := make([][]T, numc)
			for c := range rows {
				rows[c] = buffer[c][:xsize]
			}
			s.ProcessRowChunk(plane.Point{X: x, Y: y}, xsize, rows)
			for c := 0; c < numc; c++ {
				dst := outputBuffers[c].Row(y)
				for ix := 0; ix < xsize; ix++ {
					dst[x+ix] = sampletype.ToF64(buffer[c][ix])
				}
			}
		}
	}
}

func runInOutStage[TIn, TOut sampletype.Sample](s stage.InOutStage[TIn, TOut], chunkSize int, inputBuffers, outputBuffers []*plane.Plane[float64]) {
	numc := len(inputBuffers)
	if numc == 0 {
		return
	}
	bx, by := s.Border()
	sx, sy := int(s.Info().Shift.SX), int(s.Info().Shift.SY)
	inputSize := inputBuffers[0].Size()

	bufIn := make([][][]TIn, numc)
	for c := range bufIn {
		bufIn[c] = make([][]TIn, 2*by+1)
		for r := range bufIn[c] {
			bufIn[c][r] = make([]TIn, chunkSize+2*bx)
		}
	}
	bufOut := make([][][]TOut, numc)
	for c := range bufOut {
		bufOut[c] = make([][]TOut, 1<<sy)
		for r := range bufOut[c] {
			bufOut[c][r] = make([]TOut, chunkSize<<sx)
		}
	}

	for y := 0; y < inputSize.Y; y++ {
		for x := 0; x < inputSize.X; x += chunkSize {
			xsize := min(inputSize.X, x+chunkSize) - x

			for c := 0; c < numc; c++ {
				for iy := -by; iy <= by; iy++ {
					imgy := mirror(y+iy, inputSize.Y)
					srcRow := inputBuffers[c].Row(imgy)
					for ix := -bx; ix < xsize+bx; ix++ {
						imgx := mirror(x+ix, inputSize.X)
						bufIn[c][iy+by][ix+bx] = sampletype.FromF64[TIn](srcRow[imgx])
					}
				}
			}

			inRows := make([][][]TIn, numc)
			outRows := make([][][]TOut, numc)
			for c := 0; c < numc; c++ {
				inRows[c] = make([][]TIn, 2*by+1)
				for r := 0; r < 2*by+1; r++ {
					inRows[c][r] = bufIn[c][r][:2*bx+xsize]
				}
				outRows[c] = make([][]TOut, 1<<sy)
				for r := 0; r < 1<<sy; r++ {
					outRows[c][r] = bufOut[c][r][:xsize<<sx]
				}
			}

			s.ProcessRowChunk(plane.Point{X: x, Y: y}, xsize, inRows, outRows)

			for c := 0; c < numc; c++ {
				for iy := 0; iy < 1<<sy; iy++ {
					dst := outputBuffers[c].Row((y << sy) + iy)
					for ix := 0; ix < xsize<<sx; ix++ {
						dst[(x<<sx)+ix] = sampletype.ToF64(bufOut[c][iy][ix])
					}
				}
			}
		}
	}
}

func runExtendStage[T sampletype.Sample](s stage.ExtendStage[T], chunkSize int, inputBuffers, outputBuffers []*plane.Plane[float64]) {
	numc := len(inputBuffers)
	if numc == 0 {
		return
	}
	inputSize := inputBuffers[0].Size()
	outputSize := outputBuffers[0].Size()
	origin := s.OriginalDataOrigin()

	for c := 0; c < numc; c++ {
		for y := 0; y < inputSize.Y; y++ {
			srcRow := inputBuffers[c].Row(y)
			dstRow := outputBuffers[c].Row(origin.Y + y)
			copy(dstRow[origin.X:origin.X+inputSize.X], srcRow)
		}
	}

	buffer := make([][]T, numc)
	for c := range buffer {
		buffer[c] = make([]T, chunkSize)
	}
	runChunk := func(x, y, xsize int) {
		rows := make([][]T, numc)
		for c := range rows {
			rows[c] = buffer[c][:xsize]
		}
		s.ProcessRowChunk(plane.Point{X: x, Y: y}, xsize, rows)
		for c := 0; c < numc; c++ {
			dst := outputBuffers[c].Row(y)
			for ix := 0; ix < xsize; ix++ {
				dst[x+ix] = sampletype.ToF64(buffer[c][ix])
			}
		}
	}

	stripRows := make([]int, 0, outputSize.Y-inputSize.Y)
	for y := 0; y < origin.Y; y++ {
		stripRows = append(stripRows, y)
	}
	for y := origin.Y + inputSize.Y; y < outputSize.Y; y++ {
		stripRows = append(stripRows, y)
	}
	for _, y := range stripRows {
		for x := 0; x < outputSize.X; x += chunkSize {
			xsize := min(outputSize.X, x+chunkSize) - x
			runChunk(x, y, xsize)
		}
	}

	for y := origin.Y; y < origin.Y+inputSize.Y; y++ {
		for x := 0; x < origin.X; x += chunkSize {
			xsize := min(origin.X, x+chunkSize) - x
			runChunk(x, y, xsize)
		}
		for x := origin.X + inputSize.X; x < outputSize.X; x += chunkSize {
			xsize := min(outputSize.X, x+chunkSize) - x
			runChunk(x, y, xsize)
		}
	}
}
