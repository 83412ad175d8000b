package pipeline_test

import (
	"testing"

	"github.com/jxlgo/renderpipeline/pipeline"
	"github.com/jxlgo/renderpipeline/plane"
	"github.com/jxlgo/renderpipeline/stages"
)

func TestScaleByTwoInPlace(t *testing.T) {
	b := pipeline.NewBuilder(1, plane.Size{X: 4, Y: 1}, 2)
	b, err := pipeline.AddInPlaceStage[float32](b, &stages.Scale[float32]{Channel: 0, Factor: 2})
	if err != nil {
		t.Fatalf("add scale: %v", err)
	}
	save, err := stages.NewSaveStage[float32](0, plane.Size{X: 4, Y: 1})
	if err != nil {
		t.Fatalf("new save: %v", err)
	}
	b, err = pipeline.AddInputStage[float32](b, save)
	if err != nil {
		t.Fatalf("add save: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	groups := []pipeline.GroupFillInfo[func([]plane.RectMut[float32]) error]{
		{
			GroupID:         0,
			NumFilledPasses: 1,
			FillFn: func(views []plane.RectMut[float32]) error {
				for ix, v := range []float32{1, 2, 3, 4} {
					views[0].Row(0)[ix] = v
				}
				return nil
			},
		},
	}
	if err := pipeline.FillInput(p, groups); err != nil {
		t.Fatalf("fill_input: %v", err)
	}

	buf, unlock := save.Buffer()
	defer unlock()
	want := []float32{2, 4, 6, 8}
	got := buf.Row(0)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row: got %v, want %v", got, want)
		}
	}
}

// TestTwoGroupsRenderOnlyAfterBothReady exercises a zero-shift, two-group
// canvas end to end: the render must not fire until every group has
// delivered its pass, and the composited buffer must reflect both groups
// once it does.
func TestTwoGroupsRenderOnlyAfterBothReady(t *testing.T) {
	b := pipeline.NewBuilder(1, plane.Size{X: 4, Y: 2}, 1)
	save, err := stages.NewSaveStage[uint8](0, plane.Size{X: 4, Y: 2})
	if err != nil {
		t.Fatalf("new save: %v", err)
	}
	b, err = pipeline.AddInputStage[uint8](b, save)
	if err != nil {
		t.Fatalf("add save: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := p.NumGroups(); got != 2 {
		t.Fatalf("num_groups: got %d, want 2", got)
	}

	fillWith := func(v uint8) func([]plane.RectMut[uint8]) error {
		return func(views []plane.RectMut[uint8]) error {
			for y := 0; y < views[0].Size().Y; y++ {
				row := views[0].Row(y)
				for x := range row {
					row[x] = v
				}
			}
			return nil
		}
	}

	if err := pipeline.FillInput(p, []pipeline.GroupFillInfo[func([]plane.RectMut[uint8]) error]{
		{GroupID: 0, NumFilledPasses: 1, FillFn: fillWith(9)},
	}); err != nil {
		t.Fatalf("fill group 0: %v", err)
	}
	buf, unlock := save.Buffer()
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if buf.Row(y)[x] != 0 {
				t.Fatalf("render ran before all groups ready: (%d,%d)=%d", x, y, buf.Row(y)[x])
			}
		}
	}
	unlock()

	if err := pipeline.FillInput(p, []pipeline.GroupFillInfo[func([]plane.RectMut[uint8]) error]{
		{GroupID: 1, NumFilledPasses: 1, FillFn: fillWith(7)},
	}); err != nil {
		t.Fatalf("fill group 1: %v", err)
	}
	buf, unlock = save.Buffer()
	defer unlock()
	want := [][]uint8{{9, 9, 7, 7}, {9, 9, 7, 7}}
	for y, row := range want {
		got := buf.Row(y)
		for x, v := range row {
			if got[x] != v {
				t.Fatalf("(%d,%d): got %d, want %d", x, y, got[x], v)
			}
		}
	}
}
