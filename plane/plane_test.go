package plane

import "testing"

func TestNewSizeInvariants(t *testing.T) {
	p, err := New[uint16](Size{X: 4, Y: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Size() != (Size{X: 4, Y: 3}) {
		t.Fatalf("Size: got %v", p.Size())
	}
	if len(p.Row(0)) != 4 {
		t.Fatalf("row width: got %d, want 4", len(p.Row(0)))
	}
	for y := 0; y < 3; y++ {
		_ = p.Row(y) // must not panic for any in-range row
	}
}

func TestNewRejectsNegativeSize(t *testing.T) {
	if _, err := New[uint8](Size{X: -1, Y: 1}); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestRectBoundsChecking(t *testing.T) {
	p, _ := New[uint8](Size{X: 10, Y: 10})
	if _, err := p.AsRect().Rect(Point{X: 5, Y: 5}, Size{X: 5, Y: 5}); err != nil {
		t.Fatalf("expected in-bounds rect to succeed: %v", err)
	}
	if _, err := p.AsRect().Rect(Point{X: 5, Y: 5}, Size{X: 6, Y: 5}); err == nil {
		t.Fatal("expected out-of-bounds rect to fail")
	}
	if _, err := p.AsRect().Rect(Point{X: -1, Y: 0}, Size{X: 1, Y: 1}); err == nil {
		t.Fatal("expected negative origin to fail")
	}
}

func TestRectViewWritesThroughToPlane(t *testing.T) {
	p, _ := New[uint8](Size{X: 4, Y: 4})
	sub, err := p.AsRectMut().Rect(Point{X: 1, Y: 1}, Size{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("Rect: %v", err)
	}
	sub.CopyFromSlice(0, []uint8{9, 9})
	if got := p.Row(1)[1]; got != 9 {
		t.Fatalf("write through: got %d, want 9", got)
	}
	if got := p.Row(1)[0]; got != 0 {
		t.Fatalf("write escaped view bounds: row1[0] got %d", got)
	}
}

func TestToImageIsIndependentCopy(t *testing.T) {
	p, _ := New[uint8](Size{X: 2, Y: 2})
	p.Row(0)[0] = 7
	clone, err := p.ToImage()
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	clone.Row(0)[0] = 42
	if p.Row(0)[0] != 7 {
		t.Fatalf("mutating clone affected original: got %d", p.Row(0)[0])
	}
}

func TestCheckEqual(t *testing.T) {
	a, _ := New[uint8](Size{X: 2, Y: 2})
	b, _ := New[uint8](Size{X: 2, Y: 2})
	if !a.AsRect().CheckEqual(b.AsRect()) {
		t.Fatal("expected equal zero-filled planes to compare equal")
	}
	b.Row(1)[1] = 1
	if a.AsRect().CheckEqual(b.AsRect()) {
		t.Fatal("expected differing planes to compare unequal")
	}
}
