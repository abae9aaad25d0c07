// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poseidon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/groth16-verify/field"
)

func fr(t *testing.T, s string) field.Fr {
	t.Helper()
	v, err := field.FrFromDecimalString(s)
	require.NoError(t, err)
	return v
}

func TestHash4MatchesNestedHash2(t *testing.T) {
	zero := fr(t, "0")
	leaf := Hash2(zero, zero)
	want := Hash2(leaf, leaf)
	got := Hash4(zero, zero, zero, zero)
	assert.True(t, want.Equal(got))
}

func TestHash2Deterministic(t *testing.T) {
	a := fr(t, "123")
	b := fr(t, "456")
	assert.True(t, Hash2(a, b).Equal(Hash2(a, b)))
}

func TestHash2NotCommutative(t *testing.T) {
	a := fr(t, "123")
	b := fr(t, "456")
	assert.False(t, Hash2(a, b).Equal(Hash2(b, a)))
}

func TestHash2ZeroInputsNotZeroOutput(t *testing.T) {
	// The capacity element of the sponge is non-zero after the permutation,
	// so even an all-zero rate must not produce a zero digest.
	zero := fr(t, "0")
	assert.False(t, Hash2(zero, zero).IsZero())
}

func TestComputeCommitmentAndNullifier(t *testing.T) {
	nullifier := fr(t, "111")
	secret := fr(t, "222")
	amount := fr(t, "1000000")
	assetID := fr(t, "1")

	c1 := ComputeCommitment(nullifier, secret, amount, assetID)
	c2 := ComputeCommitment(nullifier, secret, amount, assetID)
	assert.True(t, c1.Equal(c2))

	n1 := ComputeNullifierHash(nullifier, 7)
	n2 := ComputeNullifierHash(nullifier, 8)
	assert.False(t, n1.Equal(n2), "different leaf indices must produce different nullifier hashes")
}

func TestMerkleRootSingleLeaf(t *testing.T) {
	leaf := fr(t, "42")
	root, err := MerkleRoot([]field.Fr{leaf})
	require.NoError(t, err)
	assert.True(t, leaf.Equal(root))
}

func TestMerkleRootEmptyIsError(t *testing.T) {
	_, err := MerkleRoot(nil)
	assert.ErrorIs(t, err, ErrEmptyLeaves)
}

func TestMerkleProofRoundTrip(t *testing.T) {
	leaves := []field.Fr{fr(t, "1"), fr(t, "2"), fr(t, "3"), fr(t, "4"), fr(t, "5")}
	root, err := MerkleRoot(leaves)
	require.NoError(t, err)

	for i := range leaves {
		siblings, isLeft, err := MerkleProof(leaves, i)
		require.NoError(t, err)
		ok, err := VerifyMerkleProof(leaves[i], siblings, isLeft, root)
		require.NoError(t, err)
		assert.True(t, ok, "proof for leaf %d should verify", i)
	}
}

func TestMerkleProofRejectsWrongLeaf(t *testing.T) {
	leaves := []field.Fr{fr(t, "1"), fr(t, "2"), fr(t, "3"), fr(t, "4")}
	root, err := MerkleRoot(leaves)
	require.NoError(t, err)

	siblings, isLeft, err := MerkleProof(leaves, 0)
	require.NoError(t, err)

	ok, err := VerifyMerkleProof(fr(t, "999"), siblings, isLeft, root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMerkleProofLengthMismatch(t *testing.T) {
	_, err := VerifyMerkleProof(fr(t, "1"), []field.Fr{fr(t, "1")}, nil, fr(t, "1"))
	assert.ErrorIs(t, err, ErrProofLengthMismatch)
}
