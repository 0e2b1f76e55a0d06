package halyard

import (
	"io/fs"
	"os"
	"runtime"
	"strconv"
)

// permissionBitsSupported is false where the OS has no POSIX permission
// bits; the ceiling check is a no-op there.
var permissionBitsSupported = runtime.GOOS != "windows"

// readConfigFile stats path, rejects non-regular files and files more
// permissive than ceiling, and returns the file content.
func readConfigFile(path string, ceiling fs.FileMode) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return "", fail(MsgFileNotExist)
		}
		return "", err
	}

	if !info.Mode().IsRegular() {
		return "", fail(MsgNotRegularFile)
	}

	// Magnitude comparison on the low nine bits: 0o701 exceeds a 0o700
	// ceiling even though only the execute-other bit differs.
	if actual := info.Mode().Perm(); permissionBitsSupported && actual > ceiling {
		return "", failWith(MsgPermissionTooOpen, map[string]any{
			"upperBoundary": octal(ceiling),
			"actual":        octal(actual),
		})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return "", fail(MsgFileNotExist)
		}
		return "", err
	}

	return string(data), nil
}

// octal renders a mode as "0o" followed by base-8 digits, e.g. "0o600".
func octal(m fs.FileMode) string {
	return "0o" + strconv.FormatUint(uint64(m), 8)
}
