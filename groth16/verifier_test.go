// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxfi/groth16-verify/curve"
	"github.com/luxfi/groth16-verify/field"
)

// mockHost is a deterministic, byte-exact stand-in for host.Capabilities,
// used to test the verifier's orchestration logic in isolation from real
// curve arithmetic.
type mockHost struct {
	multiExpCalled bool
	multiExpOut    []byte
	multiExpErr    error

	sumCalled bool
	sumOut    []byte
	sumErr    error

	pairingInput []byte
	pairingOut   bool
	pairingErr   error
}

func (m *mockHost) G1MultiExp(data []byte) ([]byte, error) {
	m.multiExpCalled = true
	return m.multiExpOut, m.multiExpErr
}

func (m *mockHost) G1Sum(data []byte) ([]byte, error) {
	m.sumCalled = true
	return m.sumOut, m.sumErr
}

func (m *mockHost) PairingCheck(data []byte) (bool, error) {
	m.pairingInput = append([]byte{}, data...)
	return m.pairingOut, m.pairingErr
}

func (m *mockHost) Keccak256(data []byte) [32]byte {
	return [32]byte{}
}

func g1(x, y uint64) curve.G1Point {
	return curve.G1Point{X: field.FromUint64(x), Y: field.FromUint64(y)}
}

func g2(x0, x1, y0, y1 uint64) curve.G2Point {
	return curve.G2Point{
		X0: field.FromUint64(x0), X1: field.FromUint64(x1),
		Y0: field.FromUint64(y0), Y1: field.FromUint64(y1),
	}
}

func sampleVK() VerificationKey {
	return VerificationKey{
		Alpha: g1(1, 2),
		Beta:  g2(3, 4, 5, 6),
		Gamma: g2(7, 8, 9, 10),
		Delta: g2(11, 12, 13, 14),
		IC:    []curve.G1Point{g1(100, 101), g1(102, 103)},
	}
}

func sampleProof() Proof {
	return Proof{A: g1(20, 21), B: g2(22, 23, 24, 25), C: g1(26, 27)}
}

func TestVerifyLengthMismatchShortCircuits(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{}
	ok := v.Verify(h, []field.Fr{}, sampleProof()) // VK expects 1 input
	assert.False(t, ok)
	assert.False(t, h.multiExpCalled)
	assert.Nil(t, h.pairingInput)
}

func TestComputeVkXRejectsTooManyInputsForIC(t *testing.T) {
	vk := sampleVK()
	vk.IC = vk.IC[:1] // only room for zero public inputs
	v := NewVerifier(vk)
	h := &mockHost{}
	_, ok := v.computeVkX(h, []field.Fr{field.FrFromU64(1)})
	assert.False(t, ok)
}

func TestComputeVkXRejectsEmptyIC(t *testing.T) {
	vk := sampleVK()
	vk.IC = nil
	v := NewVerifier(vk)
	h := &mockHost{}
	_, ok := v.computeVkX(h, nil)
	assert.False(t, ok)
}

func TestVerifyZeroInputsSkipsMultiExpAndSum(t *testing.T) {
	vk := sampleVK()
	v := NewVerifier(vk)
	h := &mockHost{pairingOut: true}

	ok := v.Verify(h, []field.Fr{field.FrZero}, sampleProof())
	assert.True(t, ok)
	assert.False(t, h.multiExpCalled, "zero inputs must not invoke the MSM primitive")
	assert.False(t, h.sumCalled, "vk_x is IC[0] directly when all inputs are zero")

	negA := curve.NegateG1(sampleProof().A)
	var want bytes.Buffer
	writeG1G2(&want, negA, sampleProof().B)
	writeG1G2(&want, vk.Alpha, vk.Beta)
	writeG1G2(&want, vk.IC[0], vk.Gamma)
	writeG1G2(&want, sampleProof().C, vk.Delta)
	assert.Equal(t, want.Bytes(), h.pairingInput)
}

func writeG1G2(buf *bytes.Buffer, p curve.G1Point, q curve.G2Point) {
	pb := p.Bytes()
	qb := q.Bytes()
	buf.Write(pb[:])
	buf.Write(qb[:])
}

func TestVerifyNonZeroInputInvokesMultiExpAndSum(t *testing.T) {
	vk := sampleVK()
	v := NewVerifier(vk)
	validG1 := g1(200, 201).Bytes()
	h := &mockHost{
		multiExpOut: append([]byte{}, validG1[:]...),
		sumOut:      append([]byte{}, validG1[:]...),
		pairingOut:  true,
	}

	ok := v.Verify(h, []field.Fr{field.FrFromU64(5)}, sampleProof())
	assert.True(t, ok)
	assert.True(t, h.multiExpCalled)
	assert.True(t, h.sumCalled)
}

func TestVerifyHostMultiExpFailureReturnsFalse(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{multiExpErr: errors.New("host unavailable")}
	ok := v.Verify(h, []field.Fr{field.FrFromU64(5)}, sampleProof())
	assert.False(t, ok)
}

func TestVerifyHostWrongLengthBufferReturnsFalse(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{multiExpOut: []byte{1, 2, 3}} // not 64 bytes
	ok := v.Verify(h, []field.Fr{field.FrFromU64(5)}, sampleProof())
	assert.False(t, ok)
}

func TestVerifyPairingFalseReturnsFalse(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{pairingOut: false}
	ok := v.Verify(h, []field.Fr{field.FrZero}, sampleProof())
	assert.False(t, ok)
}

// S8: truncated inputs never panic, always return false.
func TestVerifyTruncatedInputsReturnsFalseNoPanic(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{pairingOut: true}
	assert.NotPanics(t, func() {
		ok := v.Verify(h, nil, sampleProof())
		assert.False(t, ok)
	})
}

// Any single byte flip in a proof point must change the assembled pairing
// batch; this exercises that the verifier does not coalesce distinct byte
// sequences before handing them to the host. See verifier_e2e_test.go for
// S7's full claim (flipped proof fails, unflipped succeeds) against real
// BN254 arithmetic.
func TestVerifyProducesDistinctBatchPerByteFlip(t *testing.T) {
	vk := sampleVK()
	v := NewVerifier(vk)
	h1 := &mockHost{pairingOut: true}
	_ = v.Verify(h1, []field.Fr{field.FrZero}, sampleProof())

	flipped := sampleProof()
	xb := flipped.A.X.Bytes()
	xb[0] ^= 0xff
	flipped.A.X = field.FromBytes(xb[:])

	h2 := &mockHost{pairingOut: true}
	_ = v.Verify(h2, []field.Fr{field.FrZero}, flipped)

	assert.NotEqual(t, h1.pairingInput, h2.pairingInput)
}

func TestStatsTrackVerificationsAndOutcomes(t *testing.T) {
	v := NewVerifier(sampleVK())
	ok := &mockHost{pairingOut: true}
	bad := &mockHost{pairingOut: false}

	v.Verify(ok, []field.Fr{field.FrZero}, sampleProof())
	v.Verify(bad, []field.Fr{field.FrZero}, sampleProof())
	v.Verify(bad, []field.Fr{field.FrZero}, sampleProof())

	stats := v.Stats()
	assert.Equal(t, uint64(3), stats.TotalVerifications)
	assert.Equal(t, uint64(1), stats.TotalProofsValid)
	assert.Equal(t, uint64(2), stats.TotalProofsFailed)
}

func TestVerifyJSONParseFailureReturnsFalse(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{pairingOut: true}
	ok := v.VerifyJSON(h, []byte(`not json`), []byte(`["1"]`))
	assert.False(t, ok)
}

func TestVerifyJSONInvalidInputsReturnsFalse(t *testing.T) {
	v := NewVerifier(sampleVK())
	h := &mockHost{pairingOut: true}
	proofBytes := []byte(`{"pi_a":["20","21","1"],"pi_b":[["22","23"],["24","25"],["1","0"]],"pi_c":["26","27","1"]}`)
	ok := v.VerifyJSON(h, proofBytes, []byte(`["not-a-number"]`))
	assert.False(t, ok)
}
