package halyard

import (
	"encoding/json"
	"errors"
	"io/fs"
)

// Loader accumulates options for a single Load call.
// Methods return the loader for chaining and are not safe for concurrent
// configuration changes.
type Loader struct {
	opts     Options
	resolver *resolver
}

// NewLoader creates a Loader with empty options.
func NewLoader() *Loader {
	return &Loader{resolver: newResolver()}
}

// WithIdentity sets the application identity used for discovery.
func (l *Loader) WithIdentity(identity string) *Loader {
	l.opts.Identity = identity
	return l
}

// WithFilePath sets an explicit file path, bypassing discovery.
func (l *Loader) WithFilePath(path string) *Loader {
	l.opts.FilePath = path
	return l
}

// WithSchema sets the schema the file content must satisfy.
func (l *Loader) WithSchema(schema map[string]any) *Loader {
	l.opts.Schema = schema
	return l
}

// WithDefaults sets path-addressed values filled in where the file
// provides nothing.
func (l *Loader) WithDefaults(defaults map[string]any) *Loader {
	l.opts.DefaultValues = defaults
	return l
}

// WithPermissionCeiling sets the most permissive file mode accepted.
func (l *Loader) WithPermissionCeiling(mode fs.FileMode) *Loader {
	l.opts.FilePermission = mode
	return l
}

// Load runs the pipeline with the accumulated options.
func (l *Loader) Load() (any, error) {
	return loadWith(l.opts, l.resolver)
}

// Load resolves, reads, parses, validates, and defaults one configuration
// file in a single blocking call. On success the returned value is the
// fully defaulted content tree; on failure it is a *LoadingError carrying
// one of the Msg* vocabulary strings, the file path being processed, and
// stage-specific labels. Errors that are not loading failures (a provider
// crash, an unreadable working directory) propagate unchanged.
func Load(opts Options) (any, error) {
	return loadWith(opts, newResolver())
}

// LoadMap validates a raw option bag and loads with it.
func LoadMap(bag map[string]any) (any, error) {
	opts, err := ParseOptions(bag)
	if err != nil {
		return nil, err
	}
	return Load(opts)
}

func loadWith(opts Options, r *resolver) (any, error) {
	value, path, err := run(opts, r)
	if err != nil {
		return nil, wrapFailure(err, path)
	}
	return value, nil
}

// run executes the pipeline. The returned path is the best-known file path
// at the point of failure, so the wrapper can attach it.
func run(opts Options, r *resolver) (any, string, error) {
	// Step 1: validate the options and fill their defaults
	opts, err := opts.normalize()
	if err != nil {
		return nil, "", err
	}

	// Step 2: determine the file to load
	path, err := r.resolve(opts.Identity, opts.FilePath)
	if err != nil {
		return nil, path, err
	}

	// Step 3: permission-checked read
	raw, err := readConfigFile(path, opts.FilePermission)
	if err != nil {
		return nil, path, err
	}

	// Step 4: comment-tolerant parse
	doc, value, err := parseDocument(raw)
	if err != nil {
		return nil, path, err
	}

	// Step 5: schema validation
	if err := validateValue(value, opts.Schema); err != nil {
		return nil, path, err
	}

	// Step 6: fill defaults where the file provides nothing. Defaults are
	// trusted and deliberately not re-validated.
	doc, changed, err := applyDefaults(doc, opts.DefaultValues)
	if err != nil {
		return nil, path, err
	}
	if changed {
		if err := json.Unmarshal(doc, &value); err != nil {
			return nil, path, err
		}
	}

	return value, path, nil
}

// wrapFailure is the single point converting pipeline failures into the
// public error type. Anything else passes through untouched: it signals a
// bug or an unmodeled environment failure, not a loading error.
func wrapFailure(err error, path string) error {
	var f *loadFailure
	if errors.As(err, &f) {
		labels := f.labels
		if labels == nil {
			labels = map[string]any{}
		}
		return &LoadingError{Message: f.message, FilePath: path, Labels: labels}
	}
	return err
}
