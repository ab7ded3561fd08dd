// Package entropy picks game seeds from crypto/rand so unseeded games are
// not correlated with process start time. The chosen seed is still recorded
// with the game, which keeps every game replayable.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns a random non-zero seed. Zero is reserved for "unset".
func Seed() int64 {
	for {
		n := seedFrom(cryptoUint64())
		if n != 0 {
			return n
		}
	}
}

// seedFrom folds 64 random bits into a positive int63 seed.
func seedFrom(bits uint64) int64 {
	return int64(bits >> 1)
}

func cryptoUint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms; fall back to the clock.
		slog.Warn("crypto/rand unavailable, seeding from clock", "error", err)
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(buf[:])
}
