// Package domain holds the core value types shared across the ring,
// storage and front door: node identifiers, node references and the
// records those nodes hold.
package domain

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Bits is the fixed size of the identifier ring. The ring has 2^Bits
// positions; identifiers wrap modulo that size.
const Bits = 32

// ID is a position on the identifier ring, reduced modulo 2^Bits.
type ID uint32

// Hash maps an arbitrary string (a node's dial address, a scraped URL, a
// username) onto the ring: SHA1(s), the top 8 bytes read as a big-endian
// uint64, reduced modulo 2^Bits.
func Hash(s string) ID {
	sum := sha1.Sum([]byte(s))
	top := binary.BigEndian.Uint64(sum[:8])
	return ID(top % (uint64(1) << Bits))
}

// FromHex parses a hex-encoded identifier, as accepted by configuration
// files that pin a node's ID explicitly instead of deriving it from the
// bind address.
func FromHex(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("domain: invalid hex id %q: %w", s, err)
	}
	n := new(big.Int).SetBytes(b)
	if !n.IsUint64() {
		return 0, fmt.Errorf("domain: id %q overflows %d bits", s, Bits)
	}
	return ID(n.Uint64() % (uint64(1) << Bits)), nil
}

// Offset returns (id + 2^i) mod 2^Bits, the target identifier for the
// i-th finger table entry.
func (id ID) Offset(i int) ID {
	return ID(uint64(id) + (uint64(1) << uint(i)))
}

func (id ID) String() string {
	return fmt.Sprintf("%08x", uint32(id))
}

// Equal reports whether two identifiers occupy the same ring position.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Between reports whether id lies in the half-open arc (a, b] walked
// clockwise from a to b. When a == b the arc is the entire ring, so any
// id is considered contained (this matches a node with no predecessor:
// it alone owns every key).
func (id ID) Between(a, b ID) bool {
	if a == b {
		return true
	}
	if a < b {
		return id > a && id <= b
	}
	// Wraps past the 0 point.
	return id > a || id <= b
}
