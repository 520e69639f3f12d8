package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/mitchellh/go-homedir"
)

var integerPattern = regexp.MustCompile(`-?[0-9]+`)

// ReadIntFromFile reads the first integer found in the file at the given path.
// sysfs attributes usually contain a single value followed by a newline.
func ReadIntFromFile(path string) (value int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, err
	}
	if len(data) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	match := integerPattern.Find(data)
	if match == nil {
		return -1, fmt.Errorf("no integer value in file: %s", path)
	}
	value, err = strconv.Atoi(string(match))
	if err != nil {
		return -1, fmt.Errorf("cannot convert value of %s: %w", path, err)
	}
	return value, nil
}

// WriteIntToFile writes a single integer to the file at the given path.
func WriteIntToFile(value int, path string) error {
	return WriteStringToFile(strconv.Itoa(value), path)
}

// WriteStringToFile writes the given value to an existing file.
// The file is opened without O_CREATE and O_TRUNC, since sysfs attributes
// reject those flags on some kernels.
func WriteStringToFile(value string, path string) error {
	evaluatedPath, err := filepath.EvalSymlinks(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, err = f.WriteString(value)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// ExpandPath resolves a leading "~" to the home directory of the current user
func ExpandPath(path string) (string, error) {
	return homedir.Expand(path)
}
