package archive

import (
	"io"
	"os"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
