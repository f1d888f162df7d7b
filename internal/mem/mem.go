// Package mem provides the byte-slice XOR primitive used to combine keystream
// with message data.
package mem

import "crypto/subtle"

// XOR XORs a and b into dst. Uses subtle.XORBytes for slices larger than
// 16 bytes (which benefits from SIMD) and a scalar loop for small slices.
// All three slices must be at least len(dst) bytes long.
func XOR(dst, a, b []byte) {
	if len(dst) > 16 {
		subtle.XORBytes(dst, a, b)
	} else {
		for i := range dst {
			dst[i] = a[i] ^ b[i]
		}
	}
}
