// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host defines the capability façade the Groth16 verifier calls
// into for elliptic-curve arithmetic, and a pure-Go reference implementation
// for local use and testing. A production deployment on a host that exposes
// native BN254 precompiles (for example NEAR's alt_bn128_* host functions)
// wires its own host.Capabilities instead.
package host

// Capabilities is the façade the verifier treats as opaque: four
// input-byte-slice-to-output functions. Every scalar passed to G1MultiExp is
// little-endian; every point coordinate is big-endian, per the G1 (64-byte)
// and G2 (128-byte, imaginary-part-first) layouts in package curve.
type Capabilities interface {
	// G1MultiExp takes a concatenation of (scalar_le_32, point_be_64) pairs
	// and returns the 64-byte G1 sum of scalar_i * point_i.
	G1MultiExp(data []byte) ([]byte, error)
	// G1Sum takes two concatenated 64-byte G1 points and returns their
	// 64-byte G1 sum.
	G1Sum(data []byte) ([]byte, error)
	// PairingCheck takes a concatenation of (g1_be_64, g2_be_128) pairs and
	// reports whether the product of pairings equals the GT identity.
	PairingCheck(data []byte) (bool, error)
	// Keccak256 computes the Ethereum-style Keccak-256 digest of data.
	Keccak256(data []byte) [32]byte
}
