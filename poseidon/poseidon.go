// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poseidon implements the circomlibjs-compatible Poseidon(t=3) sponge
// used to derive commitments and nullifiers for companion circuits. The
// permutation itself runs entirely over field.Fr (round-constant addition,
// the Pow5 S-box, the MDS matrix-vector product): nullifier data never
// leaves the module's constant-time arithmetic for an external big-int path.
package poseidon

import (
	"errors"
	"math/big"

	"github.com/luxfi/groth16-verify/field"
)

// Width, round counts and S-box power for the t=3, 128-bit-security Poseidon
// instance circomlibjs ships: 8 full rounds (split 4/4 around the partial
// rounds) and 57 partial rounds, x^5 S-box, over the BN254 scalar field.
const (
	width         = 3
	roundsFull    = 8
	roundsPartial = 57
	totalRounds   = roundsFull + roundsPartial
)

// roundConstants holds totalRounds*width Fr elements (195 for t=3), and
// mds the width*width MDS matrix. Both are derived once at init() time by
// grainRoundConstants/cauchyMDSMatrix below rather than hand-transcribed,
// so there are no magic 254-bit literals in this file to mistype.
var (
	roundConstants [totalRounds * width]field.Fr
	mds            [width][width]field.Fr
)

func init() {
	roundConstants = grainRoundConstants()
	mds = cauchyMDSMatrix()
}

// ErrTooManyLeaves names a too-many-leaves failure. The Merkle helpers in
// this package never return it: MerkleRoot and MerkleProof place no upper
// bound on the number of leaves.
var ErrTooManyLeaves = errors.New("poseidon: too many leaves")

// ErrEmptyLeaves is returned when a Merkle operation is given no leaves.
var ErrEmptyLeaves = errors.New("poseidon: empty leaves")

// ErrProofLengthMismatch is returned when a Merkle proof's sibling and
// direction slices disagree in length.
var ErrProofLengthMismatch = errors.New("poseidon: proof and path length mismatch")

// permute runs the full Poseidon(t=3) permutation over a copy of state and
// returns the new state: roundsFull/2 full rounds, then roundsPartial
// partial rounds, then roundsFull/2 more full rounds.
func permute(state [width]field.Fr) [width]field.Fr {
	round := 0
	for i := 0; i < roundsFull/2; i++ {
		state = fullRound(state, round)
		round++
	}
	for i := 0; i < roundsPartial; i++ {
		state = partialRound(state, round)
		round++
	}
	for i := 0; i < roundsFull/2; i++ {
		state = fullRound(state, round)
		round++
	}
	return state
}

func fullRound(state [width]field.Fr, round int) [width]field.Fr {
	state = addRoundConstants(state, round)
	for i := range state {
		state[i] = state[i].Pow5()
	}
	return applyMDS(state)
}

func partialRound(state [width]field.Fr, round int) [width]field.Fr {
	state = addRoundConstants(state, round)
	state[0] = state[0].Pow5()
	return applyMDS(state)
}

func addRoundConstants(state [width]field.Fr, round int) [width]field.Fr {
	base := round * width
	for i := range state {
		state[i] = state[i].Add(roundConstants[base+i])
	}
	return state
}

func applyMDS(state [width]field.Fr) [width]field.Fr {
	var out [width]field.Fr
	for i := 0; i < width; i++ {
		acc := field.FrZero
		for j := 0; j < width; j++ {
			acc = acc.Add(mds[i][j].Mul(state[j]))
		}
		out[i] = acc
	}
	return out
}

// Hash2 computes the width-3 Poseidon sponge over state [0, a, b] and
// returns s[0] after the permutation, matching circomlibjs's hash2.
func Hash2(a, b field.Fr) field.Fr {
	state := [width]field.Fr{field.FrZero, a, b}
	return permute(state)[0]
}

// Hash4 computes hash2(hash2(a,b), hash2(c,d)), a binary-tree sponge rather
// than a width-5 permutation. This must match the consuming circuit exactly.
func Hash4(a, b, c, d field.Fr) field.Fr {
	left := Hash2(a, b)
	right := Hash2(c, d)
	return Hash2(left, right)
}

// ComputeCommitment derives a note commitment the same way companion circuits
// do: commitment = hash4(nullifier, secret, amount, assetID).
func ComputeCommitment(nullifier, secret, amount, assetID field.Fr) field.Fr {
	return Hash4(nullifier, secret, amount, assetID)
}

// ComputeNullifierHash derives the public nullifier hash revealed on spend:
// nullifierHash = hash2(nullifier, decimal(leafIndex)).
func ComputeNullifierHash(nullifier field.Fr, leafIndex uint64) field.Fr {
	return Hash2(nullifier, field.FrFromU64(leafIndex))
}

// MerkleRoot computes the root of a Poseidon Merkle tree over leaves, padding
// with zero leaves up to the next power of two.
func MerkleRoot(leaves []field.Fr) (field.Fr, error) {
	if len(leaves) == 0 {
		return field.Fr{}, ErrEmptyLeaves
	}
	current := padToPowerOfTwo(leaves)
	for len(current) > 1 {
		next := make([]field.Fr, len(current)/2)
		for i := range next {
			next[i] = Hash2(current[2*i], current[2*i+1])
		}
		current = next
	}
	return current[0], nil
}

// MerkleProof returns the sibling hashes and left/right flags needed to
// recompute the root from leaves[index] via VerifyMerkleProof.
func MerkleProof(leaves []field.Fr, index int) (siblings []field.Fr, isLeft []bool, err error) {
	if len(leaves) == 0 || index < 0 || index >= len(leaves) {
		return nil, nil, ErrEmptyLeaves
	}
	current := padToPowerOfTwo(leaves)
	idx := index
	for len(current) > 1 {
		siblingIdx := idx ^ 1
		siblings = append(siblings, current[siblingIdx])
		isLeft = append(isLeft, idx%2 == 0)

		next := make([]field.Fr, len(current)/2)
		for i := range next {
			next[i] = Hash2(current[2*i], current[2*i+1])
		}
		current = next
		idx /= 2
	}
	return siblings, isLeft, nil
}

// VerifyMerkleProof recomputes the root from leaf and the sibling path and
// reports whether it matches root.
func VerifyMerkleProof(leaf field.Fr, siblings []field.Fr, isLeft []bool, root field.Fr) (bool, error) {
	if len(siblings) != len(isLeft) {
		return false, ErrProofLengthMismatch
	}
	current := leaf
	for i := range siblings {
		if isLeft[i] {
			current = Hash2(current, siblings[i])
		} else {
			current = Hash2(siblings[i], current)
		}
	}
	return current.Equal(root), nil
}

func padToPowerOfTwo(leaves []field.Fr) []field.Fr {
	n := 1
	for n < len(leaves) {
		n *= 2
	}
	padded := make([]field.Fr, n)
	copy(padded, leaves)
	return padded
}

// --- Parameter generation: Grain LFSR round constants, Cauchy MDS matrix ---
//
// These run once at init() and only ever touch public, non-secret data (the
// fixed instance parameters below), so doing the heavy lifting in math/big
// here does not reintroduce the constant-time concern the permutation above
// is built to avoid; it mirrors field.Fr's own init()-time use of math/big to
// derive its Montgomery constants.

const (
	grainFieldSize = 254 // bit length of the BN254 scalar field modulus
	grainSboxAlpha = 5
)

// grainLFSR is the 80-bit self-shrinking LFSR the Poseidon paper specifies
// for deterministic round-constant generation, seeded from the field type,
// S-box, field size, width and round counts of this instance.
type grainLFSR struct {
	state [80]bool
}

func newGrainLFSR() *grainLFSR {
	g := &grainLFSR{}
	// b0,b1: field type (prime field = 1, encoded as two 1 bits).
	g.state[0] = true
	g.state[1] = true
	// b2-b5: S-box type, alpha=5.
	for i := 0; i < 4; i++ {
		g.state[2+i] = (grainSboxAlpha>>uint(i))&1 == 1
	}
	// b6-b17: field size in bits.
	for i := 0; i < 12; i++ {
		g.state[6+i] = (grainFieldSize>>uint(i))&1 == 1
	}
	// b18-b29: state width t.
	for i := 0; i < 12; i++ {
		g.state[18+i] = (width>>uint(i))&1 == 1
	}
	// b30-b39: RF.
	for i := 0; i < 10; i++ {
		g.state[30+i] = (roundsFull>>uint(i))&1 == 1
	}
	// b40-b49: RP.
	for i := 0; i < 10; i++ {
		g.state[40+i] = (roundsPartial>>uint(i))&1 == 1
	}
	// b50-b79: padding ones.
	for i := 50; i < 80; i++ {
		g.state[i] = true
	}
	// Discard the first 160 output bits before sampling constants.
	for i := 0; i < 160; i++ {
		g.update()
	}
	return g
}

// update applies the LFSR recurrence b[i+80] = b[i+62]⊕b[i+51]⊕b[i+38]⊕
// b[i+23]⊕b[i+13]⊕b[i] and shifts the window left by one bit.
func (g *grainLFSR) update() {
	newBit := g.state[62] != g.state[51]
	newBit = newBit != g.state[38]
	newBit = newBit != g.state[23]
	newBit = newBit != g.state[13]
	newBit = newBit != g.state[0]
	for i := 0; i < 79; i++ {
		g.state[i] = g.state[i+1]
	}
	g.state[79] = newBit
}

// nextBit implements the self-shrinking step: draw two LFSR bits, and output
// the second only if the first is 1; otherwise discard the pair and retry.
func (g *grainLFSR) nextBit() bool {
	for {
		b1 := g.state[0]
		g.update()
		b2 := g.state[0]
		g.update()
		if b1 {
			return b2
		}
	}
}

// nextFieldElement samples a uniformly-distributed field element below r by
// drawing grainFieldSize bits and reducing, matching the Poseidon reference
// generator's bit-sampling loop.
func (g *grainLFSR) nextFieldElement() field.Fr {
	v := new(big.Int)
	for i := 0; i < grainFieldSize; i++ {
		if g.nextBit() {
			v.SetBit(v, i, 1)
		}
	}
	return field.FrFromBigInt(v)
}

// grainRoundConstants generates the totalRounds*width Fr round constants for
// this Poseidon instance via the Grain LFSR above.
func grainRoundConstants() [totalRounds * width]field.Fr {
	var out [totalRounds * width]field.Fr
	g := newGrainLFSR()
	for i := range out {
		out[i] = g.nextFieldElement()
	}
	return out
}

// cauchyMDSMatrix builds the width*width MDS matrix M[i][j] = 1/(x_i + y_j)
// for the distinct sequences x_i = i+1, y_j = j+width+1, which is always
// maximum-distance-separable over a field this large.
func cauchyMDSMatrix() [width][width]field.Fr {
	var m [width][width]field.Fr
	rMinus2 := new(big.Int).Sub(fieldModulus(), big.NewInt(2))
	for i := 0; i < width; i++ {
		x := field.FrFromU64(uint64(i + 1))
		for j := 0; j < width; j++ {
			y := field.FrFromU64(uint64(j + width + 1))
			sum := x.Add(y)
			// Fermat inverse: sum^(r-2) mod r. sum is never zero since x and
			// y are drawn from disjoint ranges [1,width] and [width+1,2*width].
			m[i][j] = field.FrFromBigInt(new(big.Int).Exp(sum.ToBigInt(), rMinus2, fieldModulus()))
		}
	}
	return m
}

func fieldModulus() *big.Int {
	m, ok := new(big.Int).SetString(field.ScalarFieldDecimal, 10)
	if !ok {
		panic("poseidon: invalid scalar field modulus literal")
	}
	return m
}
