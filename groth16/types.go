// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package groth16 parses snarkjs-shaped verification keys and proofs and
// verifies Groth16 proofs on BN254 against a host.Capabilities backend.
package groth16

import "github.com/luxfi/groth16-verify/curve"

// VerificationKey is a Groth16 verification key: alpha in G1, beta/gamma/delta
// in G2, and the IC sequence of G1 points used to form the public-input
// linear combination. len(IC) >= 1 and NumInputs() == len(IC)-1.
type VerificationKey struct {
	Alpha curve.G1Point
	Beta  curve.G2Point
	Gamma curve.G2Point
	Delta curve.G2Point
	IC    []curve.G1Point
}

// NumInputs returns the number of public inputs this key expects.
func (vk VerificationKey) NumInputs() int {
	if len(vk.IC) == 0 {
		return 0
	}
	return len(vk.IC) - 1
}

// Proof is a Groth16 proof: A, C in G1, B in G2.
type Proof struct {
	A curve.G1Point
	B curve.G2Point
	C curve.G1Point
}

// ParseError reports a malformed verification key or proof: a missing field,
// an array too short, or an unparseable coordinate.
type ParseError struct {
	Which string
	Why   string
}

func (e *ParseError) Error() string {
	return "groth16: parse error in " + e.Which + ": " + e.Why
}
