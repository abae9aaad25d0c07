// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"fmt"
	"math/big"

	"github.com/luxfi/crypto"
	"github.com/luxfi/crypto/bn256"
)

// BN254 is a pure-Go reference implementation of Capabilities, built on
// github.com/luxfi/crypto/bn256. It holds no mutable state and is safe for
// concurrent use. A production NEAR deployment would instead wire
// env::alt_bn128_* host functions behind this same interface.
type BN254 struct{}

// NewBN254 constructs a stateless BN254 capability provider.
func NewBN254() BN254 {
	return BN254{}
}

const (
	g1Bytes     = 64
	g2Bytes     = 128
	scalarBytes = 32
	msmPairLen  = scalarBytes + g1Bytes
	pairingLen  = g1Bytes + g2Bytes
)

// G1MultiExp computes the G1 sum of scalar_i * point_i for each
// (scalar_le_32, point_be_64) pair in data.
func (BN254) G1MultiExp(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%msmPairLen != 0 {
		return nil, fmt.Errorf("host: g1_multiexp input length %d is not a multiple of %d", len(data), msmPairLen)
	}
	n := len(data) / msmPairLen
	var acc *bn256.G1
	for i := 0; i < n; i++ {
		off := i * msmPairLen
		scalarLE := data[off : off+scalarBytes]
		pointBE := data[off+scalarBytes : off+msmPairLen]

		scalar := beFromLE(scalarLE)

		p := new(bn256.G1)
		if _, err := p.Unmarshal(pointBE); err != nil {
			return nil, fmt.Errorf("host: g1_multiexp point %d: %w", i, err)
		}
		p.ScalarMult(p, scalar)
		if acc == nil {
			acc = p
		} else {
			acc.Add(acc, p)
		}
	}
	return acc.Marshal(), nil
}

// G1Sum adds the two concatenated 64-byte G1 points in data.
func (BN254) G1Sum(data []byte) ([]byte, error) {
	if len(data) != 2*g1Bytes {
		return nil, fmt.Errorf("host: g1_sum input must be %d bytes, got %d", 2*g1Bytes, len(data))
	}
	var a, b bn256.G1
	if _, err := a.Unmarshal(data[:g1Bytes]); err != nil {
		return nil, fmt.Errorf("host: g1_sum point 0: %w", err)
	}
	if _, err := b.Unmarshal(data[g1Bytes:]); err != nil {
		return nil, fmt.Errorf("host: g1_sum point 1: %w", err)
	}
	sum := new(bn256.G1).Add(&a, &b)
	return sum.Marshal(), nil
}

// PairingCheck reports whether the product of pairings over the
// concatenated (g1_be_64, g2_be_128) pairs in data equals the GT identity.
func (BN254) PairingCheck(data []byte) (bool, error) {
	if len(data)%pairingLen != 0 {
		return false, fmt.Errorf("host: pairing_check input length %d is not a multiple of %d", len(data), pairingLen)
	}
	n := len(data) / pairingLen
	g1Points := make([]*bn256.G1, n)
	g2Points := make([]*bn256.G2, n)
	for i := 0; i < n; i++ {
		off := i * pairingLen
		g1 := new(bn256.G1)
		if _, err := g1.Unmarshal(data[off : off+g1Bytes]); err != nil {
			return false, fmt.Errorf("host: pairing_check G1 %d: %w", i, err)
		}
		g2 := new(bn256.G2)
		if _, err := g2.Unmarshal(data[off+g1Bytes : off+pairingLen]); err != nil {
			return false, fmt.Errorf("host: pairing_check G2 %d: %w", i, err)
		}
		g1Points[i] = g1
		g2Points[i] = g2
	}
	return bn256.PairingCheck(g1Points, g2Points), nil
}

// Keccak256 computes the Ethereum-style Keccak-256 digest of data.
func (BN254) Keccak256(data []byte) [32]byte {
	var out [32]byte
	copy(out[:], crypto.Keccak256(data))
	return out
}

// beFromLE interprets b as a little-endian integer and returns it as a
// big.Int, matching the scalar encoding g1_multiexp expects from callers.
func beFromLE(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}
