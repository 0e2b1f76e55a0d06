package halyard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaResource is the URL the caller schema is registered under; schemas
// are always supplied inline, never loaded from disk or network.
const schemaResource = "config.schema.json"

// validateValue compiles schema in strict mode and validates value against
// it. An empty schema accepts everything. Failures are reported as
// MsgBadSchema (the schema itself is unusable) or MsgBadAttribute (the
// value does not satisfy it).
func validateValue(value any, schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if err := checkKeywords(schema, "#"); err != nil {
		return err
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return failWith(MsgBadSchema, map[string]any{"message": err.Error()})
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(raw)); err != nil {
		return failWith(MsgBadSchema, map[string]any{"message": err.Error()})
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return failWith(MsgBadSchema, map[string]any{"message": err.Error()})
	}

	if err := compiled.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return failWith(MsgBadAttribute, attributeLabels(ve))
		}
		return err
	}

	return nil
}

// attributeLabels describes the first leaf of the validation cause tree.
// The engine orders causes by evaluation order, so the reported error is
// the same on every run even when several constraints fail.
func attributeLabels(ve *jsonschema.ValidationError) map[string]any {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	keyword := leafKeyword(leaf.KeywordLocation)
	return map[string]any{
		"instancePath": leaf.InstanceLocation,
		"keyword":      keyword,
		"params":       keywordParams(keyword, leaf.Message),
		"schemaPath":   leaf.KeywordLocation,
		"message":      leaf.Message,
	}
}

// leafKeyword extracts the failing keyword from a keyword location such as
// "/properties/age/minimum" or "/allOf/0/required".
func leafKeyword(location string) string {
	segments := strings.Split(strings.TrimPrefix(location, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" && !isDigits(segments[i]) {
			return segments[i]
		}
	}
	return ""
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// keywordParams recovers structured parameters for the keywords that name
// a specific property in their message; other keywords report no params.
func keywordParams(keyword, message string) map[string]any {
	params := map[string]any{}
	switch keyword {
	case "required":
		if names := namedProperties(message); len(names) > 0 {
			params["missingProperty"] = names[0]
		}
	case "additionalProperties":
		if names := namedProperties(message); len(names) > 0 {
			params["additionalProperty"] = names[0]
		}
	}
	return params
}

// namedProperties pulls property names out of an engine message like
// "missing properties: 'name', 'age'" (quoted or bare).
func namedProperties(message string) []string {
	idx := strings.LastIndex(message, ": ")
	if idx < 0 {
		return nil
	}
	parts := strings.Split(message[idx+2:], ", ")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, `'"`)
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// Keyword tables for the strict compile check. The engine ignores unknown
// keywords, so strictness is enforced here before compiling: a keyword
// outside these tables fails as a bad schema.
var (
	// value is a map of named subschemas
	schemaMapKeywords = map[string]bool{
		"$defs":             true,
		"definitions":       true,
		"dependentSchemas":  true,
		"patternProperties": true,
		"properties":        true,
	}

	// value is a single subschema (or a boolean schema)
	subschemaKeywords = map[string]bool{
		"additionalItems":       true,
		"additionalProperties":  true,
		"contains":              true,
		"contentSchema":         true,
		"else":                  true,
		"if":                    true,
		"items":                 true,
		"not":                   true,
		"propertyNames":         true,
		"then":                  true,
		"unevaluatedItems":      true,
		"unevaluatedProperties": true,
	}

	// value is a list of subschemas
	schemaListKeywords = map[string]bool{
		"allOf":       true,
		"anyOf":       true,
		"oneOf":       true,
		"prefixItems": true,
	}

	// value carries no subschemas
	plainKeywords = map[string]bool{
		"$anchor":           true,
		"$comment":          true,
		"$dynamicAnchor":    true,
		"$dynamicRef":       true,
		"$id":               true,
		"$ref":              true,
		"$schema":           true,
		"$vocabulary":       true,
		"const":             true,
		"contentEncoding":   true,
		"contentMediaType":  true,
		"default":           true,
		"dependentRequired": true,
		"deprecated":        true,
		"description":       true,
		"enum":              true,
		"examples":          true,
		"exclusiveMaximum":  true,
		"exclusiveMinimum":  true,
		"format":            true,
		"maxContains":       true,
		"maxItems":          true,
		"maxLength":         true,
		"maxProperties":     true,
		"maximum":           true,
		"minContains":       true,
		"minItems":          true,
		"minLength":         true,
		"minProperties":     true,
		"minimum":           true,
		"multipleOf":        true,
		"pattern":           true,
		"readOnly":          true,
		"required":          true,
		"title":             true,
		"type":              true,
		"uniqueItems":       true,
		"writeOnly":         true,
	}
)

// checkKeywords rejects keywords outside the draft vocabulary, recursing
// into every position that holds subschemas. at is the JSON-pointer-ish
// location reported for the offending keyword.
func checkKeywords(schema map[string]any, at string) error {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := schema[k]
		loc := at + "/" + k

		switch {
		case schemaMapKeywords[k]:
			if m, ok := v.(map[string]any); ok {
				if err := checkSchemaMap(m, loc); err != nil {
					return err
				}
			}
		case subschemaKeywords[k]:
			// items may also be a list of subschemas (older drafts).
			if list, ok := v.([]any); ok && k == "items" {
				if err := checkSchemaList(list, loc); err != nil {
					return err
				}
				continue
			}
			if m, ok := v.(map[string]any); ok {
				if err := checkKeywords(m, loc); err != nil {
					return err
				}
			}
		case schemaListKeywords[k]:
			if list, ok := v.([]any); ok {
				if err := checkSchemaList(list, loc); err != nil {
					return err
				}
			}
		case k == "dependencies":
			// values are either subschemas or property-name lists
			if m, ok := v.(map[string]any); ok {
				if err := checkSchemaMap(m, loc); err != nil {
					return err
				}
			}
		case plainKeywords[k]:
		default:
			return failWith(MsgBadSchema, map[string]any{
				"message": fmt.Sprintf("unknown keyword %q at %s", k, at),
			})
		}
	}

	return nil
}

func checkSchemaMap(m map[string]any, at string) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if sub, ok := m[name].(map[string]any); ok {
			if err := checkKeywords(sub, at+"/"+name); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSchemaList(list []any, at string) error {
	for i, item := range list {
		if sub, ok := item.(map[string]any); ok {
			if err := checkKeywords(sub, fmt.Sprintf("%s/%d", at, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
