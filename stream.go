package salsa20

import (
	"crypto/cipher"
	"crypto/subtle"

	"github.com/codahale/salsa20/internal/salsa"
)

// A Cipher is a stateful instance of the cipher which keeps the keystream position across calls, so a stream may be
// processed in chunks of any size. It implements cipher.Stream.
//
// A Cipher retains no keystream between calls: a partially consumed block is regenerated from the counter when needed,
// and scratch space is zeroed before each call returns.
//
// Cipher instances are not concurrent-safe.
type Cipher struct {
	key     [8]uint32
	nonce   [2]uint32
	counter uint64
	off     int
	rounds  int
}

// NewCipher creates a new Cipher running the full 20 rounds, positioned at counter zero. The key must be KeySize bytes
// long; the nonce must be NonceSize bytes, or NonceSizeX bytes to select XSalsa20.
func NewCipher(key, nonce []byte) (*Cipher, error) {
	return NewCipherWithRounds(key, nonce, 20)
}

// NewCipherWithRounds creates a new Cipher with the given round count (20, 12, or 8), positioned at counter zero. A
// NonceSizeX-byte nonce requires 20 rounds.
func NewCipherWithRounds(key, nonce []byte, rounds int) (*Cipher, error) {
	keyWords, nonceWords, err := cipherWords(nil, nil, nonce, key, rounds)
	if err != nil {
		return nil, err
	}
	return &Cipher{key: keyWords, nonce: nonceWords, counter: 0, off: 0, rounds: rounds}, nil
}

// XORKeyStream XORs src with the next len(src) bytes of the keystream and writes the result to dst. dst must be at
// least as long as src and must overlap it entirely or not at all; XORKeyStream panics otherwise.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("salsa20: output smaller than input")
	}
	if len(src) == 0 {
		return
	}
	dst = dst[:len(src)]

	var block [salsa.BlockSize]byte

	// Regenerate a partially consumed block and finish it first.
	if c.off > 0 {
		salsa.Block(&block, &c.key, &c.nonce, c.counter, c.rounds)
		n := subtle.XORBytes(dst, src, block[c.off:])
		dst, src = dst[n:], src[n:]
		if c.off += n; c.off == salsa.BlockSize {
			c.off = 0
			c.counter++
		}
	}

	if n := len(src) - len(src)%salsa.BlockSize; n > 0 {
		c.counter = salsa.XORKeyStream(dst[:n], src[:n], &c.key, &c.nonce, c.counter, c.rounds)
		dst, src = dst[n:], src[n:]
	}

	if len(src) > 0 {
		salsa.Block(&block, &c.key, &c.nonce, c.counter, c.rounds)
		c.off = subtle.XORBytes(dst, src, block[:])
	}

	clear(block[:])
}

// Seek repositions the stream to the beginning of the given keystream block, discarding any partial-block position.
// Seeking to block n is equivalent to creating a fresh Cipher and consuming n*BlockSize keystream bytes.
func (c *Cipher) Seek(counter uint64) {
	c.counter = counter
	c.off = 0
}

var _ cipher.Stream = (*Cipher)(nil)
