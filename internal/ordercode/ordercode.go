package ordercode

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"time"
)

// Prefixes distinguish which manual payment flow produced a code.
const (
	BitcoinPrefix = "BTC"
	CashPrefix    = "CSH"
)

// Generate returns prefix + base36 millisecond timestamp + base36 random
// suffix, uppercased. Codes are generated client-of-database, with no server
// round-trip, and are unique with overwhelming probability even within one
// millisecond thanks to the 40-bit random suffix.
func Generate(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var buf [8]byte
	if _, err := rand.Read(buf[:5]); err != nil {
		// crypto/rand failing is effectively unreachable; fall back to the
		// timestamp low bits so checkout never dead-ends.
		binary.BigEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	}
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(buf[:])>>24, 36)

	return strings.ToUpper(prefix + ts + suffix)
}
