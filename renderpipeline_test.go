package renderpipeline_test

import (
	"testing"

	rp "github.com/jxlgo/renderpipeline"
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/stages"
)

// TestChromaFromLumaThenClampThenSave builds a two-channel pipeline through
// the top-level facade: a chroma-from-luma reconstruction stage followed by
// a clamp and a pair of Save terminals, then fills a single whole-canvas
// group and checks the saved buffers.
func TestChromaFromLumaThenClampThenSave(t *testing.T) {
	size := plane.Size{X: 2, Y: 2}
	b := rp.NewBuilder(2, size, 4)

	b, err := rp.AddInPlaceStage[float32](b, stages.NewChromaFromLuma[float32](0, 1, 0.5, 128))
	if err != nil {
		t.Fatalf("add chroma-from-luma: %v", err)
	}
	b, err = rp.AddInPlaceStage[float32](b, &stages.ClampOutput[float32]{Channel: 1, Lo: 0, Hi: 255})
	if err != nil {
		t.Fatalf("add clamp: %v", err)
	}

	lumaSave, err := stages.NewSaveStage[float32](0, size)
	if err != nil {
		t.Fatalf("new luma save: %v", err)
	}
	b, err = rp.AddInputStage[float32](b, lumaSave)
	if err != nil {
		t.Fatalf("add luma save: %v", err)
	}
	chromaSave, err := stages.NewSaveStage[float32](1, size)
	if err != nil {
		t.Fatalf("new chroma save: %v", err)
	}
	b, err = rp.AddInputStage[float32](b, chromaSave)
	if err != nil {
		t.Fatalf("add chroma save: %v", err)
	}

	p, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	groups := []rp.GroupFillInfo[func([]plane.RectMut[float32]) error]{
		{
			GroupID:         0,
			NumFilledPasses: 1,
			FillFn: func(views []plane.RectMut[float32]) error {
				views[0].CopyFromSlice(0, []float32{130, 140})
				views[0].CopyFromSlice(1, []float32{150, 160})
				views[1].CopyFromSlice(0, []float32{10, 10})
				views[1].CopyFromSlice(1, []float32{400, 400}) // forces clamp
				return nil
			},
		},
	}
	if err := rp.FillInput(p, groups); err != nil {
		t.Fatalf("fill_input: %v", err)
	}

	lumaBuf, unlockLuma := lumaSave.Buffer()
	defer unlockLuma()
	wantLuma := [][]float32{{130, 140}, {150, 160}}
	for y, row := range wantLuma {
		got := lumaBuf.Row(y)
		for x, v := range row {
			if got[x] != v {
				t.Fatalf("luma (%d,%d): got %v, want %v", x, y, got[x], v)
			}
		}
	}

	chromaBuf, unlockChroma := chromaSave.Buffer()
	defer unlockChroma()
	// chroma' = clamp(chroma + 0.5*(luma-128), 0, 255)
	want00 := float32(10 + 0.5*(130-128))
	want01 := float32(10 + 0.5*(140-128))
	want10 := float32(255) // 400 + 0.5*(150-128) clamps to 255
	want11 := float32(255)
	got := chromaBuf.Row(0)
	if got[0] != want00 || got[1] != want01 {
		t.Fatalf("chroma row 0: got %v, want [%v %v]", got, want00, want01)
	}
	got = chromaBuf.Row(1)
	if got[0] != want10 || got[1] != want11 {
		t.Fatalf("chroma row 1: got %v, want [%v %v]", got, want10, want11)
	}
}
