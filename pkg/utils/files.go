package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

var (
	// ErrEmptyArchive is returned when an archive holds no files.
	ErrEmptyArchive = errors.New("archive contains no files")
)

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip and .7z) yield the first file they contain, single
// stream formats (.gz, .xz, .br, .zst and .lz4) are decompressed as a
// whole. Anything else is returned as is.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	data, err = Decompress(strings.ToLower(filepath.Ext(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return data, nil
}

// Decompress decodes data according to the given file extension
// (including the leading dot).
func Decompress(ext string, data []byte) ([]byte, error) {
	var decoder io.Reader
	var err error

	switch ext {
	case ".gz":
		decoder, err = gzip.NewReader(bytes.NewReader(data))
	case ".xz":
		decoder, err = xz.NewReader(bytes.NewReader(data))
	case ".br":
		decoder = brotli.NewReader(bytes.NewReader(data))
	case ".lz4":
		decoder = lz4.NewReader(bytes.NewReader(data))
	case ".zst":
		zr, zerr := zstd.NewReader(bytes.NewReader(data))
		if zerr != nil {
			return nil, zerr
		}
		defer zr.Close()
		decoder = zr
	case ".zip":
		zipReader, zerr := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if zerr != nil {
			return nil, zerr
		}
		if len(zipReader.File) == 0 {
			return nil, ErrEmptyArchive
		}

		// read the first file in the zip file
		rc, zerr := zipReader.File[0].Open()
		if zerr != nil {
			return nil, zerr
		}
		defer rc.Close()
		decoder = rc
	case ".7z":
		r, zerr := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if zerr != nil {
			return nil, zerr
		}
		if len(r.File) == 0 {
			return nil, ErrEmptyArchive
		}

		// read the first file in the archive
		rc, zerr := r.File[0].Open()
		if zerr != nil {
			return nil, zerr
		}
		defer rc.Close()
		decoder = rc
	default:
		// return the data as is
		return data, nil
	}

	if err != nil {
		return nil, err
	}

	// read the decompressed data into a byte slice
	return io.ReadAll(decoder)
}
