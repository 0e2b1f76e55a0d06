package halyard

import (
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/Azhovan/halyard/internal/pathkey"
)

// applyDefaults writes each default into doc wherever its path holds no
// value, creating intermediate containers as needed. A present value is
// never overwritten, including an explicit null. Paths are applied in
// sorted order so the result is deterministic. Returns the updated
// document and whether anything was written.
func applyDefaults(doc []byte, defaults map[string]any) ([]byte, bool, error) {
	if len(defaults) == 0 {
		return doc, false, nil
	}

	// A scalar or array root has no place for path-addressed defaults.
	if !gjson.ParseBytes(doc).IsObject() {
		return doc, false, nil
	}

	paths := make([]string, 0, len(defaults))
	for p := range defaults {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	changed := false
	for _, p := range paths {
		key := pathkey.ToGJSON(p)
		// Exists is true for an explicit null, which is exactly the
		// absent-vs-null distinction the contract needs.
		if gjson.GetBytes(doc, key).Exists() {
			continue
		}
		out, err := sjson.SetBytes(doc, key, defaults[p])
		if err != nil {
			return nil, false, err
		}
		doc = out
		changed = true
	}

	return doc, changed, nil
}
