// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/groth16-verify/curve"
	"github.com/luxfi/groth16-verify/field"
)

// vkJSON mirrors the snarkjs verification_key.json shape.
type vkJSON struct {
	Protocol string            `json:"protocol,omitempty"`
	Curve    string            `json:"curve,omitempty"`
	NPublic  int               `json:"nPublic,omitempty"`
	VkAlpha1 curve.G1Point     `json:"vk_alpha_1"`
	VkBeta2  curve.G2Point     `json:"vk_beta_2"`
	VkGamma2 curve.G2Point     `json:"vk_gamma_2"`
	VkDelta2 curve.G2Point     `json:"vk_delta_2"`
	IC       []curve.G1Point   `json:"IC"`
}

// proofJSON mirrors the snarkjs proof.json shape.
type proofJSON struct {
	PiA      curve.G1Point `json:"pi_a"`
	PiB      curve.G2Point `json:"pi_b"`
	PiC      curve.G1Point `json:"pi_c"`
	Protocol string        `json:"protocol,omitempty"`
	Curve    string        `json:"curve,omitempty"`
}

// ParseVerificationKeyJSON decodes a snarkjs verification_key.json document.
// protocol/curve mismatches are reported as non-fatal warnings; a missing or
// empty IC, or any malformed point, is a hard ParseError.
func ParseVerificationKeyJSON(data []byte) (VerificationKey, []string, error) {
	var raw vkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return VerificationKey{}, nil, &ParseError{Which: "verification key", Why: err.Error()}
	}
	if len(raw.IC) == 0 {
		return VerificationKey{}, nil, &ParseError{Which: "verification key", Why: "IC must be non-empty"}
	}

	var warnings []string
	if raw.Protocol != "" && raw.Protocol != "groth16" {
		warnings = append(warnings, fmt.Sprintf("unexpected protocol %q (expected groth16)", raw.Protocol))
	}
	if raw.Curve != "" && raw.Curve != "bn128" {
		warnings = append(warnings, fmt.Sprintf("unexpected curve %q (expected bn128)", raw.Curve))
	}

	vk := VerificationKey{
		Alpha: raw.VkAlpha1,
		Beta:  raw.VkBeta2,
		Gamma: raw.VkGamma2,
		Delta: raw.VkDelta2,
		IC:    raw.IC,
	}
	return vk, warnings, nil
}

// ParseProofJSON decodes a snarkjs proof.json document. protocol/curve
// mismatches are non-fatal warnings; missing or malformed point arrays are a
// hard ParseError.
func ParseProofJSON(data []byte) (Proof, []string, error) {
	var raw proofJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Proof{}, nil, &ParseError{Which: "proof", Why: err.Error()}
	}
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return Proof{}, nil, &ParseError{Which: "proof", Why: err.Error()}
	}
	for _, key := range []string{"pi_a", "pi_b", "pi_c"} {
		if _, ok := present[key]; !ok {
			return Proof{}, nil, &ParseError{Which: "proof", Why: "missing " + key}
		}
	}

	var warnings []string
	if raw.Protocol != "" && raw.Protocol != "groth16" {
		warnings = append(warnings, fmt.Sprintf("unexpected protocol %q (expected groth16)", raw.Protocol))
	}
	if raw.Curve != "" && raw.Curve != "bn128" {
		warnings = append(warnings, fmt.Sprintf("unexpected curve %q (expected bn128)", raw.Curve))
	}

	proof := Proof{A: raw.PiA, B: raw.PiB, C: raw.PiC}
	return proof, warnings, nil
}

// ParsePublicInputsJSON decodes a flat JSON array of decimal-string public
// inputs into canonical scalar field elements suitable for Verifier.Verify.
// The first entry that is not a valid element of Fr aborts parsing with its
// index identified in the error.
func ParsePublicInputsJSON(data []byte) ([]field.Fr, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Which: "public inputs", Why: err.Error()}
	}
	inputs := make([]field.Fr, len(raw))
	for i, s := range raw {
		v, err := field.FrFromDecimalString(s)
		if err != nil {
			return nil, &ParseError{Which: "public inputs", Why: fmt.Sprintf("entry %d: %v", i, err)}
		}
		inputs[i] = v
	}
	return inputs, nil
}
