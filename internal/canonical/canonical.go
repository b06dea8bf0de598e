// Package canonical produces the deterministic serialized form of a
// spell and its content hash. Two records with the same mechanical
// content always canonicalize to the same bytes, regardless of field
// order, set ordering, or provenance metadata.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/gowebpki/jcs"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
)

// rootExcludedFields are provenance fields stripped from the top level
// of the document before hashing.
var rootExcludedFields = map[string]bool{
	"id":             true,
	"source_refs":    true,
	"version":        true,
	"edition":        true,
	"author":         true,
	"license":        true,
	"schema_version": true,
	"created_at":     true,
	"updated_at":     true,
	"artifacts":      true,
}

// depthExcludedFields are provenance fields stripped at every nesting
// depth. Mechanical ids (damage part ids, save ids) are NOT here: they
// are content.
var depthExcludedFields = map[string]bool{
	"artifacts":   true,
	"source_refs": true,
	"source_text": true,
}

// sortedArrayFields are sets: element order never changes the hash.
var sortedArrayFields = map[string]bool{
	"class_list":  true,
	"tags":        true,
	"subschools":  true,
	"descriptors": true,
}

// Serialize returns the canonical RFC 8785 JSON for an
// already-normalized spell.
func Serialize(c *spell.CanonicalSpell) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to serialize spell")
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to decode serialized spell")
	}
	pruned, ok := pruneValue(doc, "", true)
	if !ok {
		return nil, errors.InvalidArgument("canonical spell is empty")
	}
	prunedJSON, err := json.Marshal(pruned)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to serialize pruned spell")
	}
	canonical, err := jcs.Transform(prunedJSON)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "canonical transform failed")
	}
	return canonical, nil
}

// pruneValue drops nulls and excluded metadata and sorts flagged set
// arrays. key is the field name the value sits under; root marks the
// top-level object, where the root-scoped exclusions also apply.
func pruneValue(v any, key string, root bool) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if depthExcludedFields[k] || (root && rootExcludedFields[k]) {
				continue
			}
			if pruned, ok := pruneValue(item, k, false); ok {
				out[k] = pruned
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if pruned, ok := pruneValue(item, "", false); ok {
				out = append(out, pruned)
			}
		}
		if sortedArrayFields[key] {
			sort.Slice(out, func(i, j int) bool {
				a, _ := json.Marshal(out[i])
				b, _ := json.Marshal(out[j])
				return bytes.Compare(a, b) < 0
			})
		}
		return out, true
	default:
		return val, true
	}
}

// ComputeHash normalizes, validates, and hashes a spell. The returned
// hash is 64 lowercase hex characters of SHA-256 over the canonical
// JSON.
func ComputeHash(c *spell.CanonicalSpell) (string, error) {
	c.Normalize()
	if err := ValidateSpell(c); err != nil {
		return "", err
	}
	canonical, err := Serialize(c)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalJSON normalizes, validates, and serializes a spell,
// returning both the canonical document and its hash. Migration
// backfill stores the pair together so integrity checks can recompute
// one from the other.
func CanonicalJSON(c *spell.CanonicalSpell) (canonicalJSON string, hash string, err error) {
	c.Normalize()
	if err := ValidateSpell(c); err != nil {
		return "", "", err
	}
	data, err := Serialize(c)
	if err != nil {
		return "", "", err
	}
	sum := sha256.Sum256(data)
	return string(data), hex.EncodeToString(sum[:]), nil
}
