package halyard

import (
	"io/fs"
	"math"
	"regexp"
	"sort"
)

// DefaultFilePermission is the permission ceiling applied when Options
// leaves FilePermission unset.
const DefaultFilePermission fs.FileMode = 0o600

// maxFilePermission is the largest accepted ceiling (all permission and
// mode-special bits).
const maxFilePermission = 0o7777

// identityPattern restricts Identity to a short filesystem-safe token.
var identityPattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)

// Options configures a single Load call.
type Options struct {
	// Identity names the application and derives the discovery locations
	// (~/.config/<identity>/config.json and /etc/<identity>/config.json).
	// It is required only when FilePath is empty: with an explicit path
	// discovery never runs and Identity is ignored.
	Identity string

	// FilePath, when set, is loaded directly (after tilde expansion)
	// without any discovery or existence probing.
	FilePath string

	// Schema is a JSON-Schema-shaped document the file content must
	// satisfy. Nil or empty accepts any value.
	Schema map[string]any

	// DefaultValues maps dotted/bracketed paths (e.g. "address.city",
	// "items[0].name") to values written wherever the file provides
	// nothing at that path. An explicit null in the file counts as
	// provided. Defaults are applied after schema validation.
	DefaultValues map[string]any

	// FilePermission is an upper bound on the file's permission bits
	// (mode & 0o777, compared numerically). Zero means
	// DefaultFilePermission.
	FilePermission fs.FileMode
}

// optionNames is the closed set of keys accepted by ParseOptions.
var optionNames = map[string]bool{
	"identity":       true,
	"filePath":       true,
	"schema":         true,
	"defaultValues":  true,
	"filePermission": true,
}

// ParseOptions validates a raw option bag and returns a fully populated
// Options value. Unknown keys and wrong-typed values fail with a
// LoadingError; unknown keys are reported in sorted order so the failure
// is deterministic.
func ParseOptions(bag map[string]any) (Options, error) {
	opts, err := parseOptions(bag)
	if err != nil {
		return Options{}, wrapFailure(err, "")
	}
	opts, err = opts.normalize()
	if err != nil {
		return Options{}, wrapFailure(err, "")
	}
	return opts, nil
}

func parseOptions(bag map[string]any) (Options, error) {
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !optionNames[k] {
			return Options{}, unknownOption(k)
		}
	}

	var opts Options

	if v, ok := bag["identity"]; ok {
		s, ok := v.(string)
		if !ok {
			return Options{}, invalidOption("identity")
		}
		opts.Identity = s
	}

	if v, ok := bag["filePath"]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return Options{}, invalidOption("filePath")
		}
		opts.FilePath = s
	}

	if v, ok := bag["schema"]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return Options{}, invalidOption("schema")
		}
		opts.Schema = m
	}

	if v, ok := bag["filePermission"]; ok {
		mode, ok := toFileMode(v)
		if !ok {
			return Options{}, invalidOption("filePermission")
		}
		opts.FilePermission = mode
	}

	if v, ok := bag["defaultValues"]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return Options{}, invalidOption("defaultValues")
		}
		opts.DefaultValues = m
	}

	return opts, nil
}

// toFileMode accepts the integer shapes an option bag may carry (typed
// literals, JSON-decoded float64) and bounds them to maxFilePermission.
func toFileMode(v any) (fs.FileMode, bool) {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint:
		n = int64(t)
	case uint32:
		n = int64(t)
	case uint64:
		if t > maxFilePermission {
			return 0, false
		}
		n = int64(t)
	case fs.FileMode:
		n = int64(t)
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		n = int64(t)
	default:
		return 0, false
	}
	if n < 0 || n > maxFilePermission {
		return 0, false
	}
	return fs.FileMode(n), true
}

// normalize validates a typed Options value and fills in defaults.
func (o Options) normalize() (Options, error) {
	if o.FilePath == "" && !identityPattern.MatchString(o.Identity) {
		return Options{}, invalidOption("identity")
	}
	if o.FilePermission > maxFilePermission {
		return Options{}, invalidOption("filePermission")
	}
	if o.FilePermission == 0 {
		o.FilePermission = DefaultFilePermission
	}
	if o.Schema == nil {
		o.Schema = map[string]any{}
	}
	if o.DefaultValues == nil {
		o.DefaultValues = map[string]any{}
	}
	return o, nil
}
