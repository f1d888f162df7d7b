// Package salsa20 implements the [Salsa20] family of stream ciphers: Salsa20/20, the reduced-round variants Salsa20/12
// and Salsa20/8, and [XSalsa20], which extends the nonce to 24 bytes.
//
// Salsa20 expands a 256-bit key, a 64-bit nonce, and a 64-bit block counter into a keystream which is XORed with the
// message; encryption and decryption are the same operation, and any portion of the stream can be processed
// independently given its counter. The cipher provides confidentiality only: nothing is authenticated, and an attacker
// can flip plaintext bits by flipping ciphertext bits. Pair it with a MAC.
//
// A (key, nonce) pair must never cover the same counter range twice with different messages; doing so hands the XOR of
// the two plaintexts to anyone listening.
//
// [Salsa20]: https://cr.yp.to/snuffle/spec.pdf
// [XSalsa20]: https://cr.yp.to/snuffle/xsalsa-20110204.pdf
package salsa20

import (
	"encoding/binary"
	"errors"

	"github.com/codahale/salsa20/internal/salsa"
)

// KeySize is the length of a Salsa20 key, in bytes.
const KeySize = 32

// NonceSize is the length of a Salsa20 nonce, in bytes.
const NonceSize = 8

// NonceSizeX is the length of an XSalsa20 nonce, in bytes.
const NonceSizeX = 24

// BlockSize is the length of one keystream block, in bytes. Each counter value corresponds to one block; a message of
// n bytes consumes ceil(n/BlockSize) counter values.
const BlockSize = salsa.BlockSize

// ErrKeySize is returned when the key is not KeySize bytes long.
var ErrKeySize = errors.New("salsa20: invalid key size")

// ErrNonceSize is returned when the nonce is not NonceSize bytes long, or when a NonceSizeX-byte nonce is combined
// with a reduced round count.
var ErrNonceSize = errors.New("salsa20: invalid nonce size")

// ErrBufferSize is returned when the output buffer's length differs from the input's.
var ErrBufferSize = errors.New("salsa20: output and input lengths differ")

// ErrRounds is returned when the round count is not 20, 12, or 8.
var ErrRounds = errors.New("salsa20: invalid round count")

// Encrypt XORs src with the keystream for the given key, nonce, and starting block counter, writes the result to dst,
// and returns the counter of the block after the last one consumed: counter plus the number of blocks, wrapping modulo
// 2^64. A trailing partial block consumes one whole counter value, so feeding the returned counter to a later call
// continues the stream at the next block boundary. A zero-length src consumes nothing and returns counter unchanged.
//
// dst and src must have the same length and must overlap entirely or not at all. The nonce must be NonceSize bytes
// long, or NonceSizeX bytes to select XSalsa20 (20 rounds only). rounds must be 20, 12, or 8. Arguments are validated
// before any keystream is generated; on error, dst is untouched.
func Encrypt(dst, src, nonce, key []byte, counter uint64, rounds int) (uint64, error) {
	keyWords, nonceWords, err := cipherWords(dst, src, nonce, key, rounds)
	if err != nil {
		return 0, err
	}
	return salsa.XORKeyStream(dst, src, &keyWords, &nonceWords, counter, rounds), nil
}

// Decrypt XORs src with the keystream for the given key, nonce, and starting block counter, writing the result to dst.
// Decryption is the same operation as encryption and always runs the full 20 rounds; ciphertext produced with Encrypt12
// or Encrypt8 must be decrypted by calling those functions again. The argument contract matches Encrypt's.
func Decrypt(dst, src, nonce, key []byte, counter uint64) error {
	_, err := Encrypt(dst, src, nonce, key, counter, 20)
	return err
}

// Encrypt12 is Encrypt with the round count fixed at 12 (Salsa20/12). The nonce must be NonceSize bytes long.
func Encrypt12(dst, src, nonce, key []byte, counter uint64) (uint64, error) {
	return Encrypt(dst, src, nonce, key, counter, 12)
}

// Encrypt8 is Encrypt with the round count fixed at 8 (Salsa20/8). The nonce must be NonceSize bytes long.
func Encrypt8(dst, src, nonce, key []byte, counter uint64) (uint64, error) {
	return Encrypt(dst, src, nonce, key, counter, 8)
}

// cipherWords validates the cipher parameters and returns the key and nonce as state words. A NonceSizeX-byte nonce
// selects XSalsa20: the key and the first sixteen nonce bytes derive a subkey, and the remaining eight bytes become
// the nonce proper.
func cipherWords(dst, src, nonce, key []byte, rounds int) ([8]uint32, [2]uint32, error) {
	var keyWords [8]uint32
	var nonceWords [2]uint32

	if len(dst) != len(src) {
		return keyWords, nonceWords, ErrBufferSize
	}
	if len(nonce) != NonceSize && len(nonce) != NonceSizeX {
		return keyWords, nonceWords, ErrNonceSize
	}
	if len(key) != KeySize {
		return keyWords, nonceWords, ErrKeySize
	}
	if rounds != 20 && rounds != 12 && rounds != 8 {
		return keyWords, nonceWords, ErrRounds
	}
	if len(nonce) == NonceSizeX && rounds != 20 {
		return keyWords, nonceWords, ErrNonceSize
	}

	for i := range keyWords {
		keyWords[i] = binary.LittleEndian.Uint32(key[i*4:])
	}
	if len(nonce) == NonceSizeX {
		var hNonce [4]uint32
		for i := range hNonce {
			hNonce[i] = binary.LittleEndian.Uint32(nonce[i*4:])
		}
		keyWords = salsa.HSalsa20(&keyWords, &hNonce)
		nonce = nonce[16:]
	}
	nonceWords[0] = binary.LittleEndian.Uint32(nonce[0:4])
	nonceWords[1] = binary.LittleEndian.Uint32(nonce[4:8])

	return keyWords, nonceWords, nil
}
