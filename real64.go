//go:build !real32

package glove

import "math"

// Real is the scalar type every persisted file and in-memory matrix
// uses. This build selects the 64-bit width; build with -tags real32
// to select 32-bit instead. The two widths are not interoperable on
// disk: a file written by one build cannot be read by the other.
type Real = float64

// realSize is sizeof(Real) in bytes, used when computing file offsets.
const realSize = 8

func realToBits(r Real) uint64 { return math.Float64bits(r) }
func bitsToReal(b uint64) Real { return math.Float64frombits(b) }
