package file

import "os"

// Exists returns whether a file exists at the given path.
func Exists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}
