// Command salsa20 encrypts or decrypts standard input to standard output. Encryption and decryption are the same
// operation, so there is no mode flag; run the output back through with the same parameters to recover the input.
package main

import (
	"crypto/cipher"
	"encoding/hex"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/codahale/salsa20"
)

func main() {
	var (
		keyHex   = flag.String("key", "", "the key, as 64 hex digits")
		nonceHex = flag.String("nonce", "", "the nonce, as 16 hex digits (48 to select XSalsa20)")
		counter  = flag.Uint64("counter", 0, "the starting block counter")
		rounds   = flag.Int("rounds", 20, "the round count: 20, 12, or 8")
	)
	flag.Parse()

	log := slog.New(slog.Default().Handler())

	key, err := hex.DecodeString(*keyHex)
	if err != nil {
		log.Error("invalid key", "err", err)
		os.Exit(1)
	}

	nonce, err := hex.DecodeString(*nonceHex)
	if err != nil {
		log.Error("invalid nonce", "err", err)
		os.Exit(1)
	}

	c, err := salsa20.NewCipherWithRounds(key, nonce, *rounds)
	if err != nil {
		log.Error("invalid parameters", "err", err)
		os.Exit(1)
	}
	c.Seek(*counter)

	if _, err := io.Copy(os.Stdout, cipher.StreamReader{S: c, R: os.Stdin}); err != nil {
		log.Error("error processing stream", "err", err)
		os.Exit(1)
	}
}
