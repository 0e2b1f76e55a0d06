package halyard

import (
	"fmt"
	"sort"
	"strings"
)

// Messages reported through LoadingError. The set is closed: every failure
// produced by this package carries one of these strings (or one of the
// option messages built by unknownOption/invalidOption).
const (
	MsgNoConfigFile      = "no configuration file"
	MsgFileNotExist      = "file is not existed or access denied"
	MsgNotRegularFile    = "not a regular file"
	MsgPermissionTooOpen = "file permission is too open"
	MsgInvalidJSON       = "invalid JSON format"
	MsgBadSchema         = "bad schema"
	MsgBadAttribute      = "bad attribute"
)

// LoadingError is the only error type returned by Load and ParseOptions.
// Message is one of the Msg* constants or an option message; FilePath is
// the file being processed, empty when the failure happened before a path
// was known; Labels carries stage-specific diagnostics.
type LoadingError struct {
	Message  string
	FilePath string
	Labels   map[string]any
}

// Error formats the failure with its path and labels.
func (e *LoadingError) Error() string {
	var b strings.Builder
	b.WriteString("config loading failed: ")
	b.WriteString(e.Message)

	if e.FilePath != "" {
		fmt.Fprintf(&b, " (%s)", e.FilePath)
	}

	if len(e.Labels) > 0 {
		keys := make([]string, 0, len(e.Labels))
		for k := range e.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  - %s: %v", k, e.Labels[k])
		}
	}

	return b.String()
}

// loadFailure carries a failure through the pipeline before the file path
// is known. Load converts it into a LoadingError at the single wrapping
// point; any error that is not a loadFailure passes through unchanged.
type loadFailure struct {
	message string
	labels  map[string]any
}

func (f *loadFailure) Error() string { return f.message }

func fail(message string) *loadFailure {
	return &loadFailure{message: message}
}

func failWith(message string, labels map[string]any) *loadFailure {
	return &loadFailure{message: message, labels: labels}
}

func unknownOption(name string) *loadFailure {
	return fail("unknown option: " + name)
}

func invalidOption(name string) *loadFailure {
	return fail("invalid option: " + name)
}
