package adler

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultModulus is the largest prime below 2^16, as used by zlib.
const DefaultModulus uint32 = 65521

// Sum is a packed checksum: the running checksum in the high 16 bits and the
// running byte sum in the low 16 bits.
type Sum uint32

// Uint32 returns the packed value.
func (s Sum) Uint32() uint32 { return uint32(s) }

// Bytes returns the four bytes of s in little-endian order.
func (s Sum) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(s))
	return b
}

// String returns the little-endian bytes of s as 8 uppercase hex digits.
func (s Sum) String() string {
	return strings.ToUpper(hex.EncodeToString(s.Bytes()))
}

// Digest accumulates a checksum. The zero value is not usable; create one
// with [New]. Digest is a value type and Update returns a derived copy, so
// it can live on the stack.
type Digest struct {
	mod    uint32
	sum    uint32
	rolled uint32
}

// New returns a Digest reducing modulo mod. A zero mod selects
// [DefaultModulus].
func New(mod uint32) Digest {
	if mod == 0 {
		mod = DefaultModulus
	}
	return Digest{mod: mod, sum: 1}
}

// Modulus returns the modulus d reduces by.
func (d Digest) Modulus() uint32 { return d.mod }

// Update returns d advanced over buf.
//
// Additions wrap at 32 bits before reduction. That only matters for moduli
// close to 2^32, where it keeps results identical to the legacy unsigned
// arithmetic.
func (d Digest) Update(buf []byte) Digest {
	if d.mod == 0 {
		d = New(0)
	}
	for _, b := range buf {
		d.sum = (d.sum + uint32(b)) % d.mod
		d.rolled = (d.rolled + d.sum) % d.mod
	}
	return d
}

// Sum32 packs the accumulators. The rolled checksum is shifted into the
// upper half and any bits above 32 are dropped.
func (d Digest) Sum32() Sum {
	if d.mod == 0 {
		return New(0).Sum32()
	}
	return Sum(d.rolled<<16 | d.sum)
}

// Checksum returns the checksum of all of buf.
func Checksum(buf []byte, mod uint32) Sum {
	return New(mod).Update(buf).Sum32()
}

// Window checksums length bytes of data beginning at start.
//
// A length below 1 selects the first half of data, rounded down. A negative
// start is treated as 0. If the window extends past the end of data,
// ErrOutOfRange is returned.
func Window(data []byte, start, length int, mod uint32) (Sum, error) {
	if length < 1 {
		length = len(data) / 2
	}
	if start < 0 {
		start = 0
	}
	if start > len(data) || length > len(data)-start {
		return 0, fmt.Errorf("%w: start %d, length %d, input %d bytes",
			ErrOutOfRange, start, length, len(data))
	}
	return New(mod).Update(data[start : start+length]).Sum32(), nil
}
