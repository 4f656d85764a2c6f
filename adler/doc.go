// Package adler implements the Adler-32 rolling checksum with a configurable
// modulus and an optional start/length window over the input.
//
// With the default modulus (65521) the result is identical to
// [hash/adler32]. Other moduli produce the variant used by legacy password
// digests, where the modulus acts as a second, non-secret tuning parameter.
//
// # Byte order
//
// [Sum.String] and [Sum.Bytes] always render the 32-bit value in
// little-endian order, whatever the host architecture:
//
//	adler.Checksum([]byte("Wikipedia"), adler.DefaultModulus).String() // "9803E611"
//
// Use [Sum.Uint32] when the numeric value is needed.
package adler
