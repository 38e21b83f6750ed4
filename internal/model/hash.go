package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainModel  = "tangent/model/v1"
	DomainResult = "tangent/result/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content-addressed fingerprint of a model: its
// name, order, variables with base values, and output source text.
// Two compilations of the same model file produce the same hash, so
// stored runs can be traced back to the exact model that produced them.
func (m *ModelSpec) Hash() (string, error) {
	vars := make([]any, len(m.Variables))
	for i, v := range m.Variables {
		vars[i] = map[string]any{"name": v.Name, "value": v.Value}
	}
	outs := make([]any, len(m.Outputs))
	for i, o := range m.Outputs {
		outs[i] = map[string]any{"name": o.Name, "source": o.Source}
	}
	obj := map[string]any{
		"name":      m.Name,
		"order":     int64(m.Order),
		"variables": vars,
		"outputs":   outs,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("model hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModel, canonical), nil
}

// ResultID computes the content-addressed ID of one evaluated output:
// stable across re-evaluation given the same model hash, output name
// and payload.
func ResultID(modelHash, output string, payload map[string]any) (string, error) {
	obj := map[string]any{
		"model_hash": modelHash,
		"output":     output,
		"payload":    payload,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("result id: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}
