package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/venicegeo/ets-gpkg12/internal/engine"
)

// DomainRunResult separates run result digests from any other SHA-256 use.
// The version suffix allows a future change of the serialized form.
const DomainRunResult = "ets-gpkg12/run-result/v1"

// ToMap converts a result to the map form used for canonical serialization.
// Empty fault and diagnostic fields are omitted; canonical JSON has no null.
func ToMap(r *engine.RunResult) map[string]any {
	verdicts := make([]any, len(r.Verdicts))
	for i, v := range r.Verdicts {
		m := map[string]any{
			"requirement_id": v.RequirementID,
			"class":          v.Class,
			"pass":           v.Pass,
		}
		if v.Fault != "" {
			m["fault"] = string(v.Fault)
		}
		if v.Diagnostic != "" {
			m["diagnostic"] = v.Diagnostic
		}
		verdicts[i] = m
	}

	return map[string]any{
		"target":     r.Target,
		"conformant": r.Conformant(),
		"total":      r.Total,
		"passed":     r.Passed,
		"failed":     r.Failed,
		"skipped":    stringList(r.Skipped),
		"unknown":    stringList(r.Unknown),
		"verdicts":   verdicts,
	}
}

// MarshalCanonical returns the canonical JSON bytes of a result. Equal
// results yield equal bytes.
func MarshalCanonical(r *engine.RunResult) ([]byte, error) {
	data, err := MarshalCanonicalValue(ToMap(r))
	if err != nil {
		return nil, fmt.Errorf("marshal run result: %w", err)
	}
	return data, nil
}

// Digest returns the hex SHA-256 of the canonical bytes of a result.
// Format: SHA256(DomainRunResult + 0x00 + canonical JSON)
func Digest(r *engine.RunResult) (string, error) {
	data, err := MarshalCanonical(r)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainRunResult, data), nil
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func stringList(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
