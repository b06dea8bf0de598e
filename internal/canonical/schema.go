package canonical

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
)

//go:embed spell.schema.json
var schemaJSON []byte

var (
	schemaOnce    sync.Once
	schemaErr     error
	compiled      *jsonschema.Schema
	schemaVersion int64
)

func loadSchema() {
	var doc struct {
		Version *int64 `json:"x-schema-version"`
	}
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		schemaErr = errors.WrapWithCode(err, errors.CodeInternal, "invalid embedded spell schema")
		return
	}
	if doc.Version == nil {
		schemaErr = errors.Internal("schema version metadata missing")
		return
	}
	schemaVersion = *doc.Version

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("spell.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		schemaErr = errors.WrapWithCode(err, errors.CodeInternal, "failed to load spell schema")
		return
	}
	compiled, schemaErr = compiler.Compile("spell.schema.json")
}

// CurrentSchemaVersion returns the x-schema-version of the embedded
// schema document.
func CurrentSchemaVersion() (int64, error) {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return 0, schemaErr
	}
	return schemaVersion, nil
}

// ValidateSchemaVersion rejects records written by a newer schema than
// this build understands.
func ValidateSchemaVersion(version int64) error {
	current, err := CurrentSchemaVersion()
	if err != nil {
		return err
	}
	if version > current {
		slog.Warn("incoming schema version is newer than supported",
			"incoming", version, "supported", current)
		return errors.FailedPreconditionf(
			"schema version %d is newer than supported %d", version, current)
	}
	return nil
}

// ValidateSpell checks a record against the embedded JSON schema and
// the schema version gate. Validation runs on the serialized form, so
// it sees exactly what would be stored.
func ValidateSpell(c *spell.CanonicalSpell) error {
	if err := ValidateSchemaVersion(c.SchemaVersion); err != nil {
		return err
	}
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return schemaErr
	}
	data, err := json.Marshal(c)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to serialize spell")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode spell")
	}
	if err := compiled.Validate(instance); err != nil {
		return errors.InvalidArgumentf("spell failed schema validation: %s", flattenValidationError(err)).
			WithMeta("spell_name", c.Name)
	}
	return nil
}

func flattenValidationError(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	leaves := collectLeaves(ve)
	msgs := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		msgs = append(msgs, fmt.Sprintf("%s at /%s", leaf.Message, leaf.InstanceLocation))
	}
	return strings.Join(msgs, "; ")
}

func collectLeaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		out = append(out, collectLeaves(cause)...)
	}
	return out
}

// SchemaMigrationReport records an in-memory schema upgrade applied
// while reading a stored record.
type SchemaMigrationReport struct {
	FromVersion int64    `json:"from_version"`
	ToVersion   int64    `json:"to_version"`
	Notes       []string `json:"notes"`
}

// MigrateJSONToCurrent upgrades a raw canonical document to the
// current schema version in memory. Version 0 is treated as 1. Records
// written by a newer schema are not touched here; the version gate
// rejects them during validation.
func MigrateJSONToCurrent(doc map[string]any) (map[string]any, *SchemaMigrationReport, error) {
	current, err := CurrentSchemaVersion()
	if err != nil {
		return nil, nil, err
	}
	report := &SchemaMigrationReport{FromVersion: current, ToVersion: current}

	incoming := int64(1)
	if raw, ok := doc["schema_version"]; ok {
		if v, ok := asInt64(raw); ok && v > 0 {
			incoming = v
		}
	}
	report.FromVersion = incoming
	if incoming < current {
		doc["schema_version"] = current
		report.ToVersion = current
		report.Notes = append(report.Notes,
			fmt.Sprintf("Migrated schema_version %d -> %d", incoming, current))
		slog.Info("migrated stored spell schema",
			"from_version", incoming, "to_version", current)
	}
	return doc, report, nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// FromJSON parses a stored canonical document, applying any pending
// in-memory schema migration first.
func FromJSON(data []byte) (*spell.CanonicalSpell, *SchemaMigrationReport, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument,
			"stored canonical data is not valid JSON")
	}
	doc, report, err := MigrateJSONToCurrent(doc)
	if err != nil {
		return nil, nil, err
	}
	migrated, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInternal,
			"failed to reserialize migrated document")
	}
	var out spell.CanonicalSpell
	if err := json.Unmarshal(migrated, &out); err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument,
			"stored canonical data does not match the spell model")
	}
	return &out, report, nil
}
