package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// readSource reads the file at path, decompressing gzip and zstd files. It
// returns the content and the file name with the compression suffix removed.
func readSource(path string) ([]byte, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("unable to read document: %w", err)
	}

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, "", fmt.Errorf("unable to decompress document: %w", err)
		}
		defer func() { _ = zr.Close() }()
		b, err = io.ReadAll(zr)
		if err != nil {
			return nil, "", fmt.Errorf("unable to decompress document: %w", err)
		}
	case ".zst":
		zr, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, "", fmt.Errorf("unable to decompress document: %w", err)
		}
		defer zr.Close()
		b, err = io.ReadAll(zr)
		if err != nil {
			return nil, "", fmt.Errorf("unable to decompress document: %w", err)
		}
	default:
		return b, name, nil
	}
	return b, strings.TrimSuffix(name, filepath.Ext(name)), nil
}
