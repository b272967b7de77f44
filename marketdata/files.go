package marketdata

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"marginsim/market"
)

// LoadQuotesFile reads a quote CSV from path. .gz and .xz files are
// decompressed on the fly; a .zip archive is extracted and must contain
// exactly one .csv entry.
func LoadQuotesFile(path string) ([]market.Quote, error) {
	return loadCSV(path, func(r io.Reader) ([]market.Quote, error) {
		return ReadQuotes(r)
	})
}

// LoadFixingsFile reads a rate-fixing CSV from path, with the same archive
// handling as LoadQuotesFile. percent marks values published in percent.
func LoadFixingsFile(path string, percent bool) ([]market.Fixing, error) {
	return loadCSV(path, func(r io.Reader) ([]market.Fixing, error) {
		return ReadFixings(r, percent)
	})
}

func loadCSV[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		extracted, err := extractZip(path)
		if err != nil {
			return nil, err
		}
		path = extracted
	case ".gz":
		return parseCompressed(path, parse, func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case ".xz":
		return parseCompressed(path, parse, func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r)
		})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func parseCompressed[T any](path string, parse func(io.Reader) ([]T, error), wrap func(io.Reader) (io.Reader, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := wrap(f)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return parse(r)
}

// extractZip unpacks the archive into a temp dir and returns the path of
// its single CSV entry.
func extractZip(path string) (string, error) {
	dir, err := os.MkdirTemp("", "marginsim-zip-")
	if err != nil {
		return "", err
	}

	if err := unzip.Extract(path, dir); err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}

	var csvs []string
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".csv") {
			csvs = append(csvs, p)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(csvs) != 1 {
		return "", fmt.Errorf("archive %s: want exactly one CSV entry, found %d", path, len(csvs))
	}
	return csvs[0], nil
}
