// Command render-demo builds a small multi-channel render pipeline, feeds
// it synthetic per-group data, and writes the composited luma channel out
// as a PNG.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"time"

	rp "github.com/jxlgo/renderpipeline"
	"github.com/jxlgo/renderpipeline/hooks"
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/sampletype"
	"github.com/jxlgo/renderpipeline/stages"
)

func main() {
	cfg := rp.DefaultConfig()
	cfg.LogGroupSize = 3 // 8x8 groups
	cfg.EnableMetrics = true

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	metrics := hooks.NewInMemoryMetrics()

	size := plane.Size{X: 16, Y: 16}
	b := rp.NewBuilderFromConfig(cfg, 2, size)
	b.AddHook(hooks.NewLoggingHook(logger))
	b.AddHook(hooks.NewMetricsHook(metrics))

	b, err := rp.AddInPlaceStage[float32](b, stages.NewChromaFromLuma[float32](0, 1, 0.3, 128))
	mustNoErr(err)
	b, err = rp.AddInPlaceStage[float32](b, &stages.ClampOutput[float32]{Channel: 0, Lo: 0, Hi: 255})
	mustNoErr(err)
	b, err = rp.AddInPlaceStage[float32](b, &stages.ClampOutput[float32]{Channel: 1, Lo: 0, Hi: 255})
	mustNoErr(err)

	lumaSave, err := stages.NewSaveStage[float32](0, size)
	mustNoErr(err)
	b, err = rp.AddInputStage[float32](b, lumaSave)
	mustNoErr(err)
	chromaSave, err := stages.NewSaveStage[float32](1, size)
	mustNoErr(err)
	b, err = rp.AddInputStage[float32](b, chromaSave)
	mustNoErr(err)

	pl, err := b.Build()
	mustNoErr(err)
	fmt.Printf("pipeline covers %d groups over %v\n", pl.NumGroups(), size)

	groups := make([]rp.GroupFillInfo[func([]plane.RectMut[float32]) error], pl.NumGroups())
	for i := range groups {
		gid := i
		groups[i] = rp.GroupFillInfo[func([]plane.RectMut[float32]) error]{
			GroupID:         gid,
			NumFilledPasses: 1,
			FillFn: func(views []plane.RectMut[float32]) error {
				for y := 0; y < views[0].Size().Y; y++ {
					lumaRow := views[0].Row(y)
					chromaRow := views[1].Row(y)
					for x := range lumaRow {
						lumaRow[x] = float32((x*7 + y*13 + gid*5) % 256)
						chromaRow[x] = 128
					}
				}
				return nil
			},
		}
	}
	start := time.Now()
	mustNoErr(rp.FillInput(pl, groups))
	fmt.Printf("render took %s\n", time.Since(start))

	buf, unlock := lumaSave.Buffer()
	defer unlock()
	if err := writePNG("luma.png", buf); err != nil {
		log.Fatalf("write png: %v", err)
	}

	snap := metrics.Snapshot()
	for name, calls := range snap.StageCalls {
		avgUs := float64(snap.StageDurationsUs[name]) / float64(calls)
		fmt.Printf("  %-32s calls=%-3d avg=%.1fus\n", name, calls, avgUs)
	}
}

func writePNG(path string, buf *plane.Plane[float32]) error {
	size := buf.Size()
	img := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		row := buf.Row(y)
		for x := 0; x < size.X; x++ {
			v := sampletype.ToF64(row[x])
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func mustNoErr(err error) {
	if err != nil {
		log.Fatalf("render-demo: %v", err)
	}
}
