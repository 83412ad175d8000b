package sampletype

import (
	"math"
	"testing"

	"github.com/mrjoshuak/go-openexr/half"
)

func TestTagOf(t *testing.T) {
	cases := []struct {
		name string
		got  Tag
		want Tag
	}{
		{"uint8", TagOf[uint8](), Uint8},
		{"uint16", TagOf[uint16](), Uint16},
		{"uint32", TagOf[uint32](), Uint32},
		{"half", TagOf[half.Half](), Float16},
		{"float32", TagOf[float32](), Float32},
		{"float64", TagOf[float64](), Float64},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestRoundTripIntegers(t *testing.T) {
	for _, v := range []uint8{0, 1, 127, 255} {
		if got := FromF64[uint8](ToF64(v)); got != v {
			t.Errorf("uint8 round-trip %d: got %d", v, got)
		}
	}
	for _, v := range []uint16{0, 1, 32767, 65535} {
		if got := FromF64[uint16](ToF64(v)); got != v {
			t.Errorf("uint16 round-trip %d: got %d", v, got)
		}
	}
	for _, v := range []uint32{0, 1, 1 << 20, math.MaxUint32} {
		if got := FromF64[uint32](ToF64(v)); got != v {
			t.Errorf("uint32 round-trip %d: got %d", v, got)
		}
	}
}

func TestFromF64ClampsOutOfRange(t *testing.T) {
	if got := FromF64[uint8](-10); got != 0 {
		t.Errorf("clamp low: got %d, want 0", got)
	}
	if got := FromF64[uint8](1000); got != 255 {
		t.Errorf("clamp high: got %d, want 255", got)
	}
	if got := FromF64[uint16](-1); got != 0 {
		t.Errorf("clamp low u16: got %d, want 0", got)
	}
}

func TestFromF64RoundsToNearest(t *testing.T) {
	if got := FromF64[uint8](2.4); got != 2 {
		t.Errorf("round down: got %d, want 2", got)
	}
	if got := FromF64[uint8](2.6); got != 3 {
		t.Errorf("round up: got %d, want 3", got)
	}
}

func TestRoundTripFloats(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 3.5, math.Pi} {
		if got := FromF64[float64](ToF64(v)); got != v {
			t.Errorf("float64 round-trip %v: got %v", v, got)
		}
	}
	for _, v := range []float32{0, 1, -1, 3.5} {
		if got := FromF64[float32](ToF64(v)); got != v {
			t.Errorf("float32 round-trip %v: got %v", v, got)
		}
	}
}

func TestHalfRoundTrip(t *testing.T) {
	for _, v := range []float32{0, 1, -1, 0.5, 100} {
		h := half.FromFloat32(v)
		wide := ToF64(h)
		back := FromF64[half.Half](wide)
		if back.Float32() != h.Float32() {
			t.Errorf("half round-trip %v: got %v, want %v", v, back.Float32(), h.Float32())
		}
	}
}
