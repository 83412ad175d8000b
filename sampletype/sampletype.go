// Package sampletype enumerates the per-sample numeric types the render
// pipeline moves between stages and provides lossless conversion to and
// from the pipeline's canonical wide-float transport type.
package sampletype

import (
	"math"

	"github.com/mrjoshuak/go-openexr/half"
)

// Sample is the set of concrete Go types a Plane, and a Stage's typed
// row-chunk methods, may be instantiated over. Each is a distinct named
// type, so the union below has no overlapping terms even though Float16's
// underlying representation is also a uint16.
type Sample interface {
	uint8 | uint16 | uint32 | half.Half | float32 | float64
}

// Tag is a closed, runtime-inspectable enumeration mirroring the Sample
// constraint above. The pipeline builder and runtime need to reason about a
// channel's sample type before any concrete T is in scope (e.g. while
// walking the channel-info table during build()), so every Sample type has
// a corresponding Tag and the two are kept in lockstep by TagOf.
type Tag uint8

const (
	Uint8 Tag = iota
	Uint16
	Uint32
	Float16
	Float32
	Float64
)

func (t Tag) String() string {
	switch t {
	case Uint8:
		return "u8"
	case Uint16:
		return "u16"
	case Uint32:
		return "u32"
	case Float16:
		return "f16"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	default:
		return "unknown"
	}
}

// TagOf returns the Tag corresponding to the Sample type T.
func TagOf[T Sample]() Tag {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case half.Half:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("sampletype: unreachable sample type")
	}
}

// ToF64 losslessly widens a sample to the pipeline's canonical transport
// type. Integer types widen exactly; float types follow ordinary IEEE
// widening.
func ToF64[T Sample](v T) float64 {
	switch x := any(v).(type) {
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case half.Half:
		return float64(x.Float32())
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		panic("sampletype: unreachable sample type")
	}
}

// FromF64 narrows a wide-float transport value back to T. Integer types
// clamp to their representable range and round to nearest; float types
// follow ordinary IEEE narrowing.
func FromF64[T Sample](x float64) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return any(uint8(clampRound(x, 0, math.MaxUint8))).(T)
	case uint16:
		return any(uint16(clampRound(x, 0, math.MaxUint16))).(T)
	case uint32:
		return any(uint32(clampRound(x, 0, math.MaxUint32))).(T)
	case half.Half:
		return any(half.FromFloat32(float32(x))).(T)
	case float32:
		return any(float32(x)).(T)
	case float64:
		return any(x).(T)
	default:
		panic("sampletype: unreachable sample type")
	}
}

// clampRound clamps x to [lo, hi] and rounds to the nearest integer.
func clampRound(x, lo, hi float64) float64 {
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return math.Round(x)
}
