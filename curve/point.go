// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve implements the BN254 point byte and JSON encodings used by
// the verifier: the 64-byte G1 layout, the 128-byte G2 layout with its
// imaginary-first host-precompile ordering, and the snarkjs JSON array
// tolerance (trailing projective normaliser ignored).
package curve

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/groth16-verify/field"
)

// G1Point is an affine BN254 G1 point. The all-zero value is the point at
// infinity.
type G1Point struct {
	X, Y field.U256
}

// G2Point is an affine BN254 G2 point, each coordinate in Fq^2 represented
// as c0 + c1*u.
type G2Point struct {
	X0, X1, Y0, Y1 field.U256
}

// Bytes serialises p as 64 bytes: x big-endian in [0,32), y big-endian in [32,64).
func (p G1Point) Bytes() [64]byte {
	var out [64]byte
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	copy(out[0:32], xb[:])
	copy(out[32:64], yb[:])
	return out
}

// G1FromBytes parses the 64-byte encoding produced by Bytes.
func G1FromBytes(b []byte) (G1Point, error) {
	if len(b) != 64 {
		return G1Point{}, fmt.Errorf("curve: G1 point must be 64 bytes, got %d", len(b))
	}
	return G1Point{
		X: field.FromBytes(b[0:32]),
		Y: field.FromBytes(b[32:64]),
	}, nil
}

// Bytes serialises p as 128 bytes using the imaginary-part-first ordering
// required by the BN254 host precompile: x.c1, x.c0, y.c1, y.c0. This is the
// opposite of the real-part-first ordering used by the JSON ingress format;
// the inversion is centralized here and must not be duplicated elsewhere.
func (p G2Point) Bytes() [128]byte {
	var out [128]byte
	x1 := p.X1.Bytes()
	x0 := p.X0.Bytes()
	y1 := p.Y1.Bytes()
	y0 := p.Y0.Bytes()
	copy(out[0:32], x1[:])
	copy(out[32:64], x0[:])
	copy(out[64:96], y1[:])
	copy(out[96:128], y0[:])
	return out
}

// G2FromBytes parses the 128-byte imaginary-first encoding produced by Bytes.
func G2FromBytes(b []byte) (G2Point, error) {
	if len(b) != 128 {
		return G2Point{}, fmt.Errorf("curve: G2 point must be 128 bytes, got %d", len(b))
	}
	return G2Point{
		X1: field.FromBytes(b[0:32]),
		X0: field.FromBytes(b[32:64]),
		Y1: field.FromBytes(b[64:96]),
		Y0: field.FromBytes(b[96:128]),
	}, nil
}

// NegateG1 computes -(x,y) = (x, q-y) over the BN254 base field q, which is
// distinct from the scalar field r used everywhere else in this module. The
// point at infinity is fixed by negation.
func NegateG1(p G1Point) G1Point {
	if p.X.IsZero() && p.Y.IsZero() {
		return p
	}
	q := field.BaseFieldModulus()
	negY := subU256ModQ(q, p.Y)
	return G1Point{X: p.X, Y: negY}
}

// subU256ModQ computes (q - y) treating q and y as plain 256-bit integers
// known to satisfy 0 <= y < q; this is public curve data, not a secret, so
// no constant-time discipline is required here (unlike field.Fr arithmetic).
func subU256ModQ(q, y field.U256) field.U256 {
	qBytes := q.Bytes()
	yBytes := y.Bytes()
	var diff [32]byte
	borrow := 0
	for i := 31; i >= 0; i-- {
		v := int(qBytes[i]) - int(yBytes[i]) - borrow
		if v < 0 {
			v += 256
			borrow = 1
		} else {
			borrow = 0
		}
		diff[i] = byte(v)
	}
	return field.FromBytes(diff[:])
}

// MarshalJSON renders p in the snarkjs 3-element array form. Coordinates are
// rendered as decimal U256 values, not reduced modulo the scalar field: G1
// coordinates live in the base field Fq, which is a different (larger)
// modulus than Fr.
func (p G1Point) MarshalJSON() ([]byte, error) {
	arr := [3]string{p.X.ToDecimalString(), p.Y.ToDecimalString(), "1"}
	return json.Marshal(arr)
}

// UnmarshalJSON accepts both the 3-element snarkjs array and a bare [x, y]
// pair, ignoring any trailing projective-normaliser entries.
func (p *G1Point) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("curve: G1 point is not a JSON string array: %w", err)
	}
	if len(arr) < 2 {
		return fmt.Errorf("curve: G1 point array needs at least 2 entries, got %d", len(arr))
	}
	x, err := field.U256FromDecimalString(arr[0])
	if err != nil {
		return fmt.Errorf("curve: G1.x: %w", err)
	}
	y, err := field.U256FromDecimalString(arr[1])
	if err != nil {
		return fmt.Errorf("curve: G1.y: %w", err)
	}
	p.X, p.Y = x, y
	return nil
}

// MarshalJSON renders p in the snarkjs real-part-first nested array form:
// [[x.c0, x.c1], [y.c0, y.c1], ["1","0"]].
func (p G2Point) MarshalJSON() ([]byte, error) {
	arr := [3][2]string{
		{p.X0.ToDecimalString(), p.X1.ToDecimalString()},
		{p.Y0.ToDecimalString(), p.Y1.ToDecimalString()},
		{"1", "0"},
	}
	return json.Marshal(arr)
}

// UnmarshalJSON accepts the snarkjs nested-array form, real part first,
// ignoring the trailing projective-normaliser pair.
func (p *G2Point) UnmarshalJSON(data []byte) error {
	var arr [][]string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("curve: G2 point is not a nested JSON array: %w", err)
	}
	if len(arr) < 2 {
		return fmt.Errorf("curve: G2 point array needs at least 2 entries, got %d", len(arr))
	}
	if len(arr[0]) < 2 || len(arr[1]) < 2 {
		return fmt.Errorf("curve: G2 coordinate pairs need 2 entries each")
	}
	x0, err := field.U256FromDecimalString(arr[0][0])
	if err != nil {
		return fmt.Errorf("curve: G2.x.c0: %w", err)
	}
	x1, err := field.U256FromDecimalString(arr[0][1])
	if err != nil {
		return fmt.Errorf("curve: G2.x.c1: %w", err)
	}
	y0, err := field.U256FromDecimalString(arr[1][0])
	if err != nil {
		return fmt.Errorf("curve: G2.y.c0: %w", err)
	}
	y1, err := field.U256FromDecimalString(arr[1][1])
	if err != nil {
		return fmt.Errorf("curve: G2.y.c1: %w", err)
	}
	p.X0, p.X1, p.Y0, p.Y1 = x0, x1, y0, y1
	return nil
}
