package util

import (
	"io/fs"
	"os"
	"path/filepath"
)

// InitDir creates the parent directory of path with the given mode.
func InitDir(path string, mode fs.FileMode) error {
	expanded := os.ExpandEnv(path)
	return os.MkdirAll(filepath.Dir(expanded), mode)
}

// CheckError panics on a non-nil error. Used in initialization paths
// where there is no caller to return to.
func CheckError(err error) {
	if err != nil {
		panic(err)
	}
}

// GetString returns the string value pointed to by value, or an empty string if value is nil.
func GetString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
