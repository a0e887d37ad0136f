package brstitch

import "os"

// exists reports whether path can be stat'd.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// removePaths deletes each path, continuing past individual
// failures and returning the first error seen.
func removePaths(paths []string) (err error) {
	for _, path := range paths {
		e := os.Remove(path)
		if e != nil && err == nil {
			err = e
		}
	}
	return
}
