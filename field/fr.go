// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"fmt"
	"math/big"
	"math/bits"
)

// ScalarFieldDecimal is the BN254 scalar field modulus r, used by Fr and by
// Groth16 public inputs.
const ScalarFieldDecimal = "21888242871839275222246405745257275088548364400416034343698204186575808495617"

// BaseFieldDecimal is the BN254 base field modulus q. It is distinct from r
// and is used only for G1 point negation (see package curve).
const BaseFieldDecimal = "21888242871839275222246405745257275088696311157297823662689037894645226208583"

// InvalidFieldElementError reports a decimal string that is not a valid
// canonical element of the scalar field: non-decimal characters, or a value
// that is out of range (>= r).
type InvalidFieldElementError struct {
	Value string
	Why   string
}

func (e *InvalidFieldElementError) Error() string {
	return fmt.Sprintf("invalid field element %q: %s", e.Value, e.Why)
}

var (
	rValue     U256
	rBig       *big.Int
	baseQValue U256

	// montR2 is R^2 mod r where R = 2^256, the Montgomery constant used to
	// fold a CIOS pass product back into canonical form.
	montR2 U256
	// montNPrime0 is -r^{-1} mod 2^64, the CIOS reduction constant.
	montNPrime0 uint64
	// twoPow256ModR is 2^256 mod r, the constant k used by wide reduction.
	twoPow256ModR U256
)

func init() {
	var ok bool
	rBig, ok = new(big.Int).SetString(ScalarFieldDecimal, 10)
	if !ok {
		panic("field: invalid scalar field modulus literal")
	}
	rValue = fromBig(rBig)

	baseQBig, ok := new(big.Int).SetString(BaseFieldDecimal, 10)
	if !ok {
		panic("field: invalid base field modulus literal")
	}
	baseQValue = fromBig(baseQBig)

	two256 := new(big.Int).Lsh(big.NewInt(1), 256)
	twoPow256ModR = fromBig(new(big.Int).Mod(two256, rBig))

	r2 := new(big.Int).Mod(new(big.Int).Mul(two256, two256), rBig)
	montR2 = fromBig(r2)

	// -r^{-1} mod 2^64, derived from r's least significant limb via modular
	// inverse rather than a hand-copied literal.
	word := new(big.Int).Lsh(big.NewInt(1), 64)
	r0 := new(big.Int).SetUint64(rValue.limbs[0])
	inv := new(big.Int).ModInverse(r0, word)
	if inv == nil {
		panic("field: scalar field modulus has no inverse mod 2^64 (even modulus?)")
	}
	nPrime := new(big.Int).Sub(word, inv)
	nPrime.Mod(nPrime, word)
	montNPrime0 = nPrime.Uint64()
}

// BaseFieldModulus returns q, the BN254 base field modulus, used for G1
// point negation. It is distinct from the scalar field modulus r.
func BaseFieldModulus() U256 { return baseQValue }

// Fr is an element of the BN254 scalar field, always held in canonical form:
// every Fr value produced by this package satisfies 0 <= value < r.
type Fr struct {
	v U256
}

// FrZero is the additive identity.
var FrZero = Fr{}

// FrOne is the multiplicative identity.
var FrOne = Fr{v: OneU256}

// FrFromU64 builds an Fr from a native 64-bit value (always < r).
func FrFromU64(v uint64) Fr {
	return Fr{v: FromUint64(v)}
}

// FrFromDecimalString parses a base-10 string into a canonical Fr, rejecting
// non-decimal input and values outside [0, r).
func FrFromDecimalString(s string) (Fr, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Fr{}, &InvalidFieldElementError{Value: s, Why: "not a valid decimal integer"}
	}
	if v.Sign() < 0 {
		return Fr{}, &InvalidFieldElementError{Value: s, Why: "negative values are not field elements"}
	}
	if v.Cmp(rBig) >= 0 {
		return Fr{}, &InvalidFieldElementError{Value: s, Why: "value is not less than the scalar field modulus"}
	}
	return Fr{v: fromBig(v)}, nil
}

// FrFromBEBytes reduces 32 big-endian bytes modulo r into a canonical Fr.
func FrFromBEBytes(b []byte) Fr {
	u := FromBytes(b)
	return reduceFull(u)
}

// ToDecimalString renders the canonical decimal representation.
func (f Fr) ToDecimalString() string {
	return f.v.toBig().String()
}

// ToBEBytes serialises the canonical value as 32 big-endian bytes.
func (f Fr) ToBEBytes() [32]byte {
	return f.v.Bytes()
}

// IsZero reports whether f is the additive identity.
func (f Fr) IsZero() bool {
	return f.v.IsZero()
}

// Equal reports whether f and g hold the same canonical value.
func (f Fr) Equal(g Fr) bool {
	return f.v.Equal(g.v)
}

// ToBigInt exports the canonical value as a math/big integer, for interop
// with code that operates on *big.Int (e.g. the init-time Poseidon MDS
// matrix generation).
func (f Fr) ToBigInt() *big.Int {
	return f.v.toBig()
}

// FrFromBigInt reduces an arbitrary big.Int modulo r into a canonical Fr.
// Negative values are reduced into [0, r) the same way math/big.Mod does.
func FrFromBigInt(v *big.Int) Fr {
	m := new(big.Int).Mod(v, rBig)
	return Fr{v: fromBig(m)}
}

// reduceFull brings an arbitrary U256 < 2^256 into [0, r) using a fixed,
// branch-free number of conditional subtractions. Since 2^256 < 6r, six
// conditional subtractions always suffice regardless of the input value.
func reduceFull(u U256) Fr {
	for i := 0; i < 6; i++ {
		d, borrow := subWithBorrow(u, rValue)
		mask := maskFromBit(borrow ^ 1) // borrow==0 means u>=r: reduce
		u = selectU256(mask, d, u)
	}
	return Fr{v: u}
}

// Add computes f+g, reduced to canonical form with a single branch-free
// conditional subtraction as described in the field arithmetic contract.
func (f Fr) Add(g Fr) Fr {
	sum, carry := addWithCarry(f.v, g.v)
	reduced, borrow := subWithBorrow(sum, rValue)
	needsReduce := carry | (borrow ^ 1)
	mask := maskFromBit(needsReduce)
	return Fr{v: selectU256(mask, reduced, sum)}
}

// Sub computes f-g mod r. Both candidate results (a-b and a-b+r) are
// materialised unconditionally; a mask drawn from a>=b selects between them.
func (f Fr) Sub(g Fr) Fr {
	direct, _ := subWithBorrow(f.v, g.v)
	viaAdd, _ := addWithCarry(f.v, rValue)
	viaAdd, _ = subWithBorrow(viaAdd, g.v)

	ge := geU256(f.v, g.v)
	mask := maskFromBit(boolToBit(ge))
	return Fr{v: selectU256(mask, direct, viaAdd)}
}

func boolToBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// montgomeryCIOS computes a*b*R^-1 mod r via Coarsely Integrated Operand
// Scanning Montgomery multiplication (Acar/Koc/Kaliski), where R = 2^64^4.
func montgomeryCIOS(a, b, r [4]uint64, nPrime0 uint64) [4]uint64 {
	const n = 4
	var t [n + 2]uint64

	for i := 0; i < n; i++ {
		// t += a * b[i], carried across limbs.
		var carry uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(a[j], b[i])
			var c uint64
			lo, c = bits.Add64(lo, t[j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			t[j] = lo
			carry = hi
		}
		sum, c := bits.Add64(t[n], carry, 0)
		t[n] = sum
		t[n+1] = c

		// m is chosen so that t[0] + m*r[0] == 0 mod 2^64; adding m*r then
		// shifting one word right performs the Montgomery reduction step.
		m := t[0] * nPrime0
		mHi0, mLo0 := bits.Mul64(m, r[0])
		_, c0 := bits.Add64(mLo0, t[0], 0)
		carry2 := mHi0 + c0

		for j := 1; j < n; j++ {
			hi, lo := bits.Mul64(m, r[j])
			var c1 uint64
			lo, c1 = bits.Add64(lo, t[j], 0)
			hi += c1
			lo, c1 = bits.Add64(lo, carry2, 0)
			hi += c1
			t[j-1] = lo
			carry2 = hi
		}
		final, c2 := bits.Add64(t[n], carry2, 0)
		t[n-1] = final
		t[n] = t[n+1] + c2
	}

	return [4]uint64{t[0], t[1], t[2], t[3]}
}

// Mul computes f*g mod r using two CIOS passes: the first yields
// f*g*R^-1 mod r from canonical inputs, and the second, against the
// precomputed constant R^2 mod r, folds that back into canonical form.
func (f Fr) Mul(g Fr) Fr {
	r := rValue.limbs
	step1 := montgomeryCIOS(f.v.limbs, g.v.limbs, r, montNPrime0)
	step2 := montgomeryCIOS(step1, montR2.limbs, r, montNPrime0)
	result := U256{limbs: step2}
	return reduceFull(result)
}

// Pow5 computes the Poseidon S-box x^5 = ((x^2)^2)*x using three multiplies.
func (f Fr) Pow5() Fr {
	x2 := f.Mul(f)
	x4 := x2.Mul(x2)
	return x4.Mul(f)
}

// ReduceWide folds a 512-bit value hi*2^256+lo into a canonical Fr by
// iteratively replacing hi*2^256+lo with hi*k+lo, where k = 2^256 mod r,
// until hi is zero, then canonicalising lo with reduceFull's fixed six
// branch-free conditional subtractions of r.
// The outer loop has a fixed bound of 64 iterations; early exit when hi
// reaches zero is permitted, but the final branch-free reductions always run.
func ReduceWide(hi, lo U256) Fr {
	for iter := 0; iter < 64; iter++ {
		if hi.IsZero() {
			break
		}
		// hi*k: 256x256 -> up to 512 bits, but since hi shrinks each round
		// and k < r < 2^254, this fits comfortably within four limbs after
		// reduction; compute via schoolbook widening then fold again.
		prodHi, prodLo := mul256(hi, twoPow256ModR)
		sum, carry := addWithCarry(prodLo, lo)
		lo = sum
		hi = prodHi
		if carry != 0 {
			hi, _ = addWithCarry(hi, OneU256)
		}
	}
	return reduceFull(lo)
}

// mul256 computes the full 512-bit product of two U256 values, returned as
// (high, low) U256 halves.
func mul256(a, b U256) (hi, lo U256) {
	var t [8]uint64
	for i := 0; i < 4; i++ {
		var carry uint64
		for j := 0; j < 4; j++ {
			h, l := bits.Mul64(a.limbs[i], b.limbs[j])
			var c uint64
			l, c = bits.Add64(l, t[i+j], 0)
			h += c
			l, c = bits.Add64(l, carry, 0)
			h += c
			t[i+j] = l
			carry = h
		}
		t[i+4] += carry
	}
	lo = FromLimbs(t[0], t[1], t[2], t[3])
	hi = FromLimbs(t[4], t[5], t[6], t[7])
	return hi, lo
}
