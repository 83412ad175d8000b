package stages

import (
	"math/rand"
	"testing"

	"github.com/jxlgo/renderpipeline/plane"
)

func TestSaveStageCopiesRowsExactly(t *testing.T) {
	src, err := plane.New[uint8](plane.Size{X: 128, Y: 128})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rng := rand.New(rand.NewSource(0))
	for y := 0; y < 128; y++ {
		row := src.Row(y)
		for x := range row {
			row[x] = uint8(rng.Intn(256))
		}
	}

	save, err := NewSaveStage[uint8](0, plane.Size{X: 128, Y: 128})
	if err != nil {
		t.Fatalf("NewSaveStage: %v", err)
	}
	for y := 0; y < 128; y++ {
		save.ProcessRowChunk(plane.Point{X: 0, Y: y}, 128, [][]uint8{src.Row(y)})
	}

	buf, unlock := save.Buffer()
	defer unlock()
	if !src.AsRect().CheckEqual(buf.AsRect()) {
		t.Fatal("save stage buffer does not match source image")
	}
}
