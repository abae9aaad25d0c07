// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16

import (
	"sync/atomic"

	"github.com/luxfi/groth16-verify/curve"
	"github.com/luxfi/groth16-verify/field"
	"github.com/luxfi/groth16-verify/host"
)

// Stats is a point-in-time snapshot of a Verifier's running counters.
type Stats struct {
	TotalVerifications uint64
	TotalProofsValid   uint64
	TotalProofsFailed  uint64
}

// Verifier holds one immutable verification key and verifies Groth16 proofs
// against it. A Verifier is safe for concurrent use by many goroutines
// sharing the same host.Capabilities, since both are stateless apart from
// the atomic counters below.
type Verifier struct {
	vk VerificationKey

	totalVerifications uint64
	totalProofsValid   uint64
	totalProofsFailed  uint64
}

// NewVerifier constructs a Verifier bound to vk for its entire lifetime.
func NewVerifier(vk VerificationKey) *Verifier {
	return &Verifier{vk: vk}
}

// Stats returns a snapshot of the running verification counters.
func (v *Verifier) Stats() Stats {
	return Stats{
		TotalVerifications: atomic.LoadUint64(&v.totalVerifications),
		TotalProofsValid:   atomic.LoadUint64(&v.totalProofsValid),
		TotalProofsFailed:  atomic.LoadUint64(&v.totalProofsFailed),
	}
}

// Verify checks proof against the held verification key and inputs, using h
// for the underlying elliptic-curve primitives. It never panics: malformed
// lengths, host failures, and failed pairing checks all collapse to false.
func (v *Verifier) Verify(h host.Capabilities, inputs []field.Fr, proof Proof) bool {
	atomic.AddUint64(&v.totalVerifications, 1)

	ok := v.verify(h, inputs, proof)
	if ok {
		atomic.AddUint64(&v.totalProofsValid, 1)
	} else {
		atomic.AddUint64(&v.totalProofsFailed, 1)
	}
	return ok
}

func (v *Verifier) verify(h host.Capabilities, inputs []field.Fr, proof Proof) bool {
	if len(inputs) != v.vk.NumInputs() {
		return false
	}

	vkX, ok := v.computeVkX(h, inputs)
	if !ok {
		return false
	}

	return v.pairingCheck(h, proof, vkX)
}

// computeVkX computes vk_x = IC[0] + sum(input[i] * IC[i+1]), skipping
// zero inputs, via the host's multi-scalar-multiplication and sum
// primitives.
func (v *Verifier) computeVkX(h host.Capabilities, inputs []field.Fr) (curve.G1Point, bool) {
	if len(v.vk.IC) == 0 {
		return curve.G1Point{}, false
	}
	if len(inputs)+1 > len(v.vk.IC) {
		return curve.G1Point{}, false
	}

	var msmInput []byte
	for i, in := range inputs {
		if in.IsZero() {
			continue
		}
		scalarLE := leBytes(in.ToBEBytes())
		pointBE := v.vk.IC[i+1].Bytes()
		msmInput = append(msmInput, scalarLE[:]...)
		msmInput = append(msmInput, pointBE[:]...)
	}

	if len(msmInput) == 0 {
		return v.vk.IC[0], true
	}

	msmOut, err := h.G1MultiExp(msmInput)
	if err != nil {
		return curve.G1Point{}, false
	}
	msmPoint, err := curve.G1FromBytes(msmOut)
	if err != nil {
		return curve.G1Point{}, false
	}

	icZero := v.vk.IC[0].Bytes()
	msmBytes := msmPoint.Bytes()
	sumInput := append(append([]byte{}, icZero[:]...), msmBytes[:]...)

	sumOut, err := h.G1Sum(sumInput)
	if err != nil {
		return curve.G1Point{}, false
	}
	return curve.G1FromBytes(sumOut)
}

// pairingCheck builds the four-pair batch e(-A,B)*e(alpha,beta)*e(vk_x,gamma)*e(C,delta)
// and asks the host whether it equals the GT identity.
func (v *Verifier) pairingCheck(h host.Capabilities, proof Proof, vkX curve.G1Point) bool {
	negA := curve.NegateG1(proof.A)

	var batch []byte
	batch = appendPair(batch, negA, proof.B)
	batch = appendPair(batch, v.vk.Alpha, v.vk.Beta)
	batch = appendPair(batch, vkX, v.vk.Gamma)
	batch = appendPair(batch, proof.C, v.vk.Delta)

	ok, err := h.PairingCheck(batch)
	if err != nil {
		return false
	}
	return ok
}

func appendPair(batch []byte, g1 curve.G1Point, g2 curve.G2Point) []byte {
	g1b := g1.Bytes()
	g2b := g2.Bytes()
	batch = append(batch, g1b[:]...)
	batch = append(batch, g2b[:]...)
	return batch
}

// leBytes reverses a big-endian 32-byte scalar encoding into little-endian,
// the format the host MSM primitive expects for scalars.
func leBytes(be [32]byte) [32]byte {
	var le [32]byte
	for i := range be {
		le[i] = be[31-i]
	}
	return le
}

// VerifyJSON is the convenience variant that parses proof and inputs from
// their snarkjs JSON encodings before verifying. Any parse failure is
// treated as an invalid proof and returns false, never an error, per the
// core's "malformed and mathematically invalid are uniform" policy.
func (v *Verifier) VerifyJSON(h host.Capabilities, proofJSON, inputsJSON []byte) bool {
	proof, _, err := ParseProofJSON(proofJSON)
	if err != nil {
		atomic.AddUint64(&v.totalVerifications, 1)
		atomic.AddUint64(&v.totalProofsFailed, 1)
		return false
	}
	inputs, err := ParsePublicInputsJSON(inputsJSON)
	if err != nil {
		atomic.AddUint64(&v.totalVerifications, 1)
		atomic.AddUint64(&v.totalProofsFailed, 1)
		return false
	}
	return v.Verify(h, inputs, proof)
}
