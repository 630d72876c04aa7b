//go:build real32

package glove

import "math"

// Real is the scalar type every persisted file and in-memory matrix
// uses. This build selects the 32-bit width (build with -tags real32).
// The two widths are not interoperable on disk: a file written by one
// build cannot be read by the other.
type Real = float32

// realSize is sizeof(Real) in bytes, used when computing file offsets.
const realSize = 4

func realToBits(r Real) uint64 { return uint64(math.Float32bits(r)) }
func bitsToReal(b uint64) Real { return math.Float32frombits(uint32(b)) }
