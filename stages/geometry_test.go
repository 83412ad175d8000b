package stages

import (
	"testing"

	"github.com/jxlgo/renderpipeline/plane"
)

func TestEdgeExtendClampsToOriginalBorder(t *testing.T) {
	src, err := plane.New[uint8](plane.Size{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	copy(src.Row(0), []uint8{10, 20})
	copy(src.Row(1), []uint8{30, 40})

	ext := &EdgeExtend[uint8]{
		Channel:      0,
		TargetSize:   plane.Size{X: 4, Y: 4},
		Origin:       plane.Point{X: 1, Y: 1},
		OriginalSize: plane.Size{X: 2, Y: 2},
	}
	ext.Attach(src)

	// Full border strips a real executor would drive this stage with:
	// rows above/below the copied-in rectangle, and the side columns
	// within it.
	cases := []struct {
		pos  plane.Point
		want uint8
	}{
		{plane.Point{X: 0, Y: 0}, 10}, // above-left corner clamps to (0,0)
		{plane.Point{X: 3, Y: 0}, 20}, // above-right corner clamps to (1,0)
		{plane.Point{X: 0, Y: 1}, 10}, // left column, row 0 clamps to (0,0)
		{plane.Point{X: 0, Y: 2}, 30}, // left column, row 1 clamps to (0,1)
		{plane.Point{X: 3, Y: 3}, 40}, // below-right corner clamps to (1,1)
	}
	for _, c := range cases {
		row := make([]uint8, 1)
		ext.ProcessRowChunk(c.pos, 1, [][]uint8{row})
		if row[0] != c.want {
			t.Fatalf("at %v: got %d, want %d", c.pos, row[0], c.want)
		}
	}
}
