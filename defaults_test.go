package halyard

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

// applied runs applyDefaults and decodes the resulting document.
func applied(t *testing.T, doc string, defaults map[string]any) (any, bool) {
	t.Helper()

	out, changed, err := applyDefaults([]byte(doc), defaults)
	if err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}

	var value any
	if err := json.Unmarshal(out, &value); err != nil {
		t.Fatalf("resulting document is not valid JSON: %v\n%s", err, out)
	}
	return value, changed
}

func TestApplyDefaults_AbsentPathGetsDefault(t *testing.T) {
	value, changed := applied(t, `{"name": "x"}`, map[string]any{
		"address.city": "Ha Noi",
	})

	want := map[string]any{
		"name":    "x",
		"address": map[string]any{"city": "Ha Noi"},
	}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %v, want %v", value, want)
	}
	if !changed {
		t.Error("changed should be true")
	}
}

func TestApplyDefaults_PresentValueUntouched(t *testing.T) {
	value, changed := applied(t, `{"address": {"city": "HCM"}}`, map[string]any{
		"address.city": "Ha Noi",
	})

	want := map[string]any{"address": map[string]any{"city": "HCM"}}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %v, want %v", value, want)
	}
	if changed {
		t.Error("changed should be false")
	}
}

func TestApplyDefaults_PresentNullUntouched(t *testing.T) {
	// An explicit null is a present value, not an absent one.
	value, changed := applied(t, `{"address": {"city": null}}`, map[string]any{
		"address.city": "Ha Noi",
	})

	want := map[string]any{"address": map[string]any{"city": nil}}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %v, want %v", value, want)
	}
	if changed {
		t.Error("changed should be false")
	}
}

func TestApplyDefaults_BracketedArrayPath(t *testing.T) {
	value, _ := applied(t, `{"items": [{}]}`, map[string]any{
		"items[0].name": "first",
	})

	want := map[string]any{
		"items": []any{map[string]any{"name": "first"}},
	}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %v, want %v", value, want)
	}
}

func TestApplyDefaults_MixedPresence(t *testing.T) {
	value, _ := applied(t, `{"server": {"host": "0.0.0.0"}}`, map[string]any{
		"server.host": "localhost",
		"server.port": float64(8080),
		"debug":       false,
	})

	want := map[string]any{
		"server": map[string]any{"host": "0.0.0.0", "port": float64(8080)},
		"debug":  false,
	}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %v, want %v", value, want)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	defaults := map[string]any{
		"address.city": "Ha Noi",
		"server.port":  float64(8080),
	}

	once, _, err := applyDefaults([]byte(`{"name": "x"}`), defaults)
	if err != nil {
		t.Fatalf("first application: %v", err)
	}

	twice, changed, err := applyDefaults(once, defaults)
	if err != nil {
		t.Fatalf("second application: %v", err)
	}
	if changed {
		t.Error("second application should change nothing")
	}
	if !bytes.Equal(once, twice) {
		t.Errorf("second application altered the document:\n%s\n%s", once, twice)
	}
}

func TestApplyDefaults_NoDefaults(t *testing.T) {
	doc := []byte(`{"name": "x"}`)

	out, changed, err := applyDefaults(doc, nil)
	if err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}
	if changed || !bytes.Equal(out, doc) {
		t.Error("empty defaults must leave the document alone")
	}
}

func TestApplyDefaults_NonObjectRoot(t *testing.T) {
	for _, doc := range []string{`5`, `"text"`, `[1, 2]`, `null`} {
		out, changed, err := applyDefaults([]byte(doc), map[string]any{"a.b": 1})
		if err != nil {
			t.Fatalf("applyDefaults(%s): %v", doc, err)
		}
		if changed || string(out) != doc {
			t.Errorf("non-object root %s should be untouched, got %s", doc, out)
		}
	}
}
