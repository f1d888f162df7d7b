// Package salsa implements the Salsa20 keystream core with configurable
// round counts, per [the Salsa20 specification].
//
// [the Salsa20 specification]: https://cr.yp.to/snuffle/spec.pdf
package salsa

import (
	"encoding/binary"
	"math/bits"

	"github.com/codahale/salsa20/internal/mem"
)

// BlockSize is the length, in bytes, of one keystream block.
const BlockSize = 64

// quarterRound mixes four state words and returns them. The rotation
// distances 7, 9, 13, and 18 are fixed by the cipher.
func quarterRound(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	b ^= bits.RotateLeft32(a+d, 7)
	c ^= bits.RotateLeft32(b+a, 9)
	d ^= bits.RotateLeft32(c+b, 13)
	a ^= bits.RotateLeft32(d+c, 18)
	return a, b, c, d
}

// core applies rounds/2 double-rounds to the sixteen-word state, adds the
// original state back into the result, and serializes the sums little-endian
// into out. rounds must be even and positive. The state itself is left
// unmodified.
func core(out *[BlockSize]byte, state *[16]uint32, rounds int) {
	x0, x1, x2, x3 := state[0], state[1], state[2], state[3]
	x4, x5, x6, x7 := state[4], state[5], state[6], state[7]
	x8, x9, x10, x11 := state[8], state[9], state[10], state[11]
	x12, x13, x14, x15 := state[12], state[13], state[14], state[15]

	for range rounds / 2 {
		// Quarter-rounds down the columns
		x0, x4, x8, x12 = quarterRound(x0, x4, x8, x12)
		x5, x9, x13, x1 = quarterRound(x5, x9, x13, x1)
		x10, x14, x2, x6 = quarterRound(x10, x14, x2, x6)
		x15, x3, x7, x11 = quarterRound(x15, x3, x7, x11)

		// Quarter-rounds along the rows
		x0, x1, x2, x3 = quarterRound(x0, x1, x2, x3)
		x5, x6, x7, x4 = quarterRound(x5, x6, x7, x4)
		x10, x11, x8, x9 = quarterRound(x10, x11, x8, x9)
		x15, x12, x13, x14 = quarterRound(x15, x12, x13, x14)
	}

	binary.LittleEndian.PutUint32(out[0:4], x0+state[0])
	binary.LittleEndian.PutUint32(out[4:8], x1+state[1])
	binary.LittleEndian.PutUint32(out[8:12], x2+state[2])
	binary.LittleEndian.PutUint32(out[12:16], x3+state[3])
	binary.LittleEndian.PutUint32(out[16:20], x4+state[4])
	binary.LittleEndian.PutUint32(out[20:24], x5+state[5])
	binary.LittleEndian.PutUint32(out[24:28], x6+state[6])
	binary.LittleEndian.PutUint32(out[28:32], x7+state[7])
	binary.LittleEndian.PutUint32(out[32:36], x8+state[8])
	binary.LittleEndian.PutUint32(out[36:40], x9+state[9])
	binary.LittleEndian.PutUint32(out[40:44], x10+state[10])
	binary.LittleEndian.PutUint32(out[44:48], x11+state[11])
	binary.LittleEndian.PutUint32(out[48:52], x12+state[12])
	binary.LittleEndian.PutUint32(out[52:56], x13+state[13])
	binary.LittleEndian.PutUint32(out[56:60], x14+state[14])
	binary.LittleEndian.PutUint32(out[60:64], x15+state[15])
}

// Block generates the keystream block for the given counter into out. The
// counter's low and high halves are split into the two counter state words
// here, so the carry from the low word into the high word at 2^32 falls out
// of the split.
func Block(out *[BlockSize]byte, key *[8]uint32, nonce *[2]uint32, counter uint64, rounds int) {
	state := [16]uint32{
		sigma0, key[0], key[1], key[2],
		key[3], sigma1, nonce[0], nonce[1],
		uint32(counter), uint32(counter >> 32), sigma2, key[4], //nolint:gosec // truncation is the split
		key[5], key[6], key[7], sigma3,
	}
	core(out, &state, rounds)
}

// XORKeyStream xors src into dst with the keystream for the given key,
// nonce, and starting block counter, and returns the counter of the block
// after the last one consumed. A partial trailing block consumes one whole
// counter value. The counter wraps modulo 2^64.
//
// dst and src must have the same length and must overlap entirely or not at
// all. The keystream scratch block is zeroed before returning.
func XORKeyStream(dst, src []byte, key *[8]uint32, nonce *[2]uint32, counter uint64, rounds int) uint64 {
	var block [BlockSize]byte
	for len(src) >= BlockSize {
		Block(&block, key, nonce, counter, rounds)
		mem.XOR(dst[:BlockSize], src[:BlockSize], block[:])
		dst, src = dst[BlockSize:], src[BlockSize:]
		counter++
	}

	if len(src) > 0 {
		Block(&block, key, nonce, counter, rounds)
		mem.XOR(dst, src, block[:len(src)])
		counter++
	}

	clear(block[:])
	return counter
}

// HSalsa20 derives an XSalsa20 subkey from the key and the first sixteen
// nonce bytes. It runs the full 20 rounds without the feedforward; words 0,
// 5, 10, 15, and 6 through 9 of the final state form the subkey.
func HSalsa20(key *[8]uint32, nonce *[4]uint32) [8]uint32 {
	x0, x1, x2, x3 := sigma0, key[0], key[1], key[2]
	x4, x5, x6, x7 := key[3], sigma1, nonce[0], nonce[1]
	x8, x9, x10, x11 := nonce[2], nonce[3], sigma2, key[4]
	x12, x13, x14, x15 := key[5], key[6], key[7], sigma3

	for range 10 {
		x0, x4, x8, x12 = quarterRound(x0, x4, x8, x12)
		x5, x9, x13, x1 = quarterRound(x5, x9, x13, x1)
		x10, x14, x2, x6 = quarterRound(x10, x14, x2, x6)
		x15, x3, x7, x11 = quarterRound(x15, x3, x7, x11)

		x0, x1, x2, x3 = quarterRound(x0, x1, x2, x3)
		x5, x6, x7, x4 = quarterRound(x5, x6, x7, x4)
		x10, x11, x8, x9 = quarterRound(x10, x11, x8, x9)
		x15, x12, x13, x14 = quarterRound(x15, x12, x13, x14)
	}

	return [8]uint32{x0, x5, x10, x15, x6, x7, x8, x9}
}

// The "expand 32-byte k" diagonal constants.
const (
	sigma0 uint32 = 0x61707865
	sigma1 uint32 = 0x3320646e
	sigma2 uint32 = 0x79622d32
	sigma3 uint32 = 0x6b206574
)
