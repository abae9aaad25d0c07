// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package field implements the 256-bit unsigned integer primitive and the
// BN254 scalar field Fr used throughout the verifier and Poseidon permutation.
package field

import (
	"fmt"
	"math/big"
	"math/bits"
)

// U256 is a 256-bit unsigned integer stored as four 64-bit limbs in
// little-endian limb order: value = limbs[0] + 2^64*limbs[1] + 2^128*limbs[2] + 2^192*limbs[3].
// U256 is not reduced modulo anything; raw conversions wrap modulo 2^256.
type U256 struct {
	limbs [4]uint64
}

// ZeroU256 is the additive identity.
var ZeroU256 = U256{}

// OneU256 is the multiplicative identity.
var OneU256 = U256{limbs: [4]uint64{1, 0, 0, 0}}

// FromUint64 builds a U256 from a native 64-bit value.
func FromUint64(v uint64) U256 {
	return U256{limbs: [4]uint64{v, 0, 0, 0}}
}

// FromLimbs builds a U256 from little-endian limbs.
func FromLimbs(l0, l1, l2, l3 uint64) U256 {
	return U256{limbs: [4]uint64{l0, l1, l2, l3}}
}

// Limbs returns the little-endian limb array.
func (u U256) Limbs() [4]uint64 {
	return u.limbs
}

// IsZero reports whether u is the zero value. Used only on values that are
// not secret (public proof/VK coordinates, loop bounds), so it is allowed to branch.
func (u U256) IsZero() bool {
	return u.limbs[0] == 0 && u.limbs[1] == 0 && u.limbs[2] == 0 && u.limbs[3] == 0
}

// Equal reports whether u and v hold the same value.
func (u U256) Equal(v U256) bool {
	return u.limbs == v.limbs
}

// Bytes serialises u as 32 big-endian bytes.
func (u U256) Bytes() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		limb := u.limbs[i]
		base := 32 - (i+1)*8
		for j := 0; j < 8; j++ {
			out[base+7-j] = byte(limb)
			limb >>= 8
		}
	}
	return out
}

// FromBytes parses big-endian bytes into a U256, wrapping modulo 2^256 when
// given more than 32 bytes (only the low-order 32 bytes are kept) and
// zero-padding on the left when given fewer.
func FromBytes(b []byte) U256 {
	var padded [32]byte
	if len(b) >= 32 {
		copy(padded[:], b[len(b)-32:])
	} else {
		copy(padded[32-len(b):], b)
	}
	var u U256
	for i := 0; i < 4; i++ {
		base := 32 - (i+1)*8
		var limb uint64
		for j := 0; j < 8; j++ {
			limb = (limb << 8) | uint64(padded[base+j])
		}
		u.limbs[i] = limb
	}
	return u
}

// addWithCarry adds a and b as 256-bit unsigned integers, wrapping mod 2^256,
// and returns the 4-limb sum plus the carry bit out of the top limb.
func addWithCarry(a, b U256) (U256, uint64) {
	var sum U256
	var carry uint64
	sum.limbs[0], carry = bits.Add64(a.limbs[0], b.limbs[0], 0)
	sum.limbs[1], carry = bits.Add64(a.limbs[1], b.limbs[1], carry)
	sum.limbs[2], carry = bits.Add64(a.limbs[2], b.limbs[2], carry)
	sum.limbs[3], carry = bits.Add64(a.limbs[3], b.limbs[3], carry)
	return sum, carry
}

// subWithBorrow subtracts b from a as 256-bit unsigned integers, wrapping
// mod 2^256, and returns the 4-limb difference plus the borrow bit (1 if a < b).
func subWithBorrow(a, b U256) (U256, uint64) {
	var diff U256
	var borrow uint64
	diff.limbs[0], borrow = bits.Sub64(a.limbs[0], b.limbs[0], 0)
	diff.limbs[1], borrow = bits.Sub64(a.limbs[1], b.limbs[1], borrow)
	diff.limbs[2], borrow = bits.Sub64(a.limbs[2], b.limbs[2], borrow)
	diff.limbs[3], borrow = bits.Sub64(a.limbs[3], b.limbs[3], borrow)
	return diff, borrow
}

// maskFromBit turns a 0/1 value into an all-zero or all-one 64-bit mask
// without branching, for constant-time selects.
func maskFromBit(bit uint64) uint64 {
	return 0 - (bit & 1)
}

// selectU256 returns a if mask is all-ones, b if mask is all-zeros.
func selectU256(mask uint64, a, b U256) U256 {
	var out U256
	inv := ^mask
	for i := 0; i < 4; i++ {
		out.limbs[i] = (a.limbs[i] & mask) | (b.limbs[i] & inv)
	}
	return out
}

// cmp performs a constant-time, branch-free comparison of a and b. It walks
// all four limbs from most significant to least significant, accumulating a
// tri-state {greater=1, equal=0, less=-1} result that is only updated while
// the limbs seen so far are still equal, so the loop's iteration count and
// memory access pattern never depend on the values compared.
func cmp(a, b U256) int {
	var resultGT, resultLT, stillEqual uint64 = 0, 0, ^uint64(0)
	for i := 3; i >= 0; i-- {
		av, bv := a.limbs[i], b.limbs[i]
		eqMask := maskFromBit(isZero64(av ^ bv))
		_, gtBorrow := bits.Sub64(bv, av, 0) // borrow iff bv<av iff av>bv
		_, ltBorrow := bits.Sub64(av, bv, 0) // borrow iff av<bv
		gtMask := maskFromBit(gtBorrow)
		ltMask := maskFromBit(ltBorrow)

		resultGT |= stillEqual & gtMask
		resultLT |= stillEqual & ltMask
		stillEqual &= eqMask
	}
	return int(resultGT&1) - int(resultLT&1)
}

// isZero64 returns 1 if x == 0, else 0, without branching.
func isZero64(x uint64) uint64 {
	nz := (x | (0 - x)) >> 63
	return nz ^ 1
}

// geU256 reports, in constant time, whether a >= b.
func geU256(a, b U256) bool {
	return cmp(a, b) >= 0
}

var bigTwo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// toBig converts u to a math/big value. Used only for decimal I/O, never on
// the constant-time arithmetic path.
func (u U256) toBig() *big.Int {
	b := u.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// fromBig reduces an arbitrary big.Int modulo 2^256 and returns the
// corresponding U256. Used only for decimal I/O.
func fromBig(v *big.Int) U256 {
	m := new(big.Int).Mod(v, bigTwo256)
	buf := make([]byte, 32)
	m.FillBytes(buf)
	return FromBytes(buf)
}

// ToDecimalString renders u as an unsigned base-10 string. Used for curve
// coordinate I/O, which is public data over either field modulus (not
// necessarily canonical Fr) and so is represented directly as U256.
func (u U256) ToDecimalString() string {
	return u.toBig().String()
}

// U256FromDecimalString parses a non-negative base-10 string into a U256,
// wrapping modulo 2^256. Used for curve coordinate ingress, where values may
// legitimately range over either the scalar or base field modulus.
func U256FromDecimalString(s string) (U256, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return U256{}, fmt.Errorf("field: %q is not a valid decimal integer", s)
	}
	if v.Sign() < 0 {
		return U256{}, fmt.Errorf("field: %q is negative", s)
	}
	if v.Cmp(bigTwo256) >= 0 {
		return U256{}, fmt.Errorf("field: %q does not fit in 256 bits", s)
	}
	return fromBig(v), nil
}
