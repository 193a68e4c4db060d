//go:build !unix

package filestore

// lockFile без flock остается только блокировка внутри процесса
func lockFile(path string, exclusive bool) (func() error, error) {
	return func() error { return nil }, nil
}
