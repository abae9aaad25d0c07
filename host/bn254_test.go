// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/crypto/bn256"
)

func TestG1SumMatchesDoubling(t *testing.T) {
	h := NewBN254()
	g := new(bn256.G1).ScalarBaseMult(big.NewInt(1))
	gBytes := g.Marshal()

	doubled := new(bn256.G1).Add(g, g)

	data := append(append([]byte{}, gBytes...), gBytes...)
	sum, err := h.G1Sum(data)
	require.NoError(t, err)
	assert.Equal(t, doubled.Marshal(), sum)
}

func TestG1SumRejectsWrongLength(t *testing.T) {
	h := NewBN254()
	_, err := h.G1Sum(make([]byte, 100))
	assert.Error(t, err)
}

func TestG1MultiExpSingleScalarMatchesScalarMult(t *testing.T) {
	h := NewBN254()
	g := new(bn256.G1).ScalarBaseMult(big.NewInt(1))
	gBytes := g.Marshal()

	scalar := big.NewInt(7)
	want := new(bn256.G1).ScalarMult(g, scalar)

	scalarLE := make([]byte, 32)
	sb := scalar.Bytes()
	for i, v := range sb {
		scalarLE[len(sb)-1-i] = v
	}

	data := append(append([]byte{}, scalarLE...), gBytes...)
	got, err := h.G1MultiExp(data)
	require.NoError(t, err)
	assert.Equal(t, want.Marshal(), got)
}

func TestG1MultiExpRejectsMisalignedInput(t *testing.T) {
	h := NewBN254()
	_, err := h.G1MultiExp(make([]byte, 10))
	assert.Error(t, err)
}

func TestPairingCheckOnGeneratorsIsFalse(t *testing.T) {
	h := NewBN254()
	g1 := new(bn256.G1).ScalarBaseMult(big.NewInt(1))
	g2 := new(bn256.G2).ScalarBaseMult(big.NewInt(1))

	data := append(append([]byte{}, g1.Marshal()...), g2.Marshal()...)
	ok, err := h.PairingCheck(data)
	require.NoError(t, err)
	assert.False(t, ok, "e(G1,G2) alone is never the GT identity")
}

func TestPairingCheckRejectsMisalignedInput(t *testing.T) {
	h := NewBN254()
	_, err := h.PairingCheck(make([]byte, 10))
	assert.Error(t, err)
}

func TestKeccak256Deterministic(t *testing.T) {
	h := NewBN254()
	a := h.Keccak256([]byte("groth16"))
	b := h.Keccak256([]byte("groth16"))
	assert.Equal(t, a, b)
}

func TestKeccak256DistinctForDistinctInputs(t *testing.T) {
	h := NewBN254()
	a := h.Keccak256([]byte("a"))
	b := h.Keccak256([]byte("b"))
	assert.NotEqual(t, a, b)
}
