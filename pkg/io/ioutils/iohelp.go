// Package ioutils opens inputs and outputs that may be gzip compressed.
package ioutils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// OpenMaybeCompressed opens a file path or stdin ("-" or "") for reading.
// Input is transparently decompressed when the path ends in .gz or the
// stream starts with the gzip magic bytes.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	var (
		src     io.Reader
		closeFn = func() error { return nil }
	)
	if path == "-" || path == "" {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		src, closeFn = f, f.Close
	}
	br := bufio.NewReader(src)
	if filepath.Ext(path) == ".gz" || isGzip(br) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = closeFn()
			return nil, errors.Wrapf(err, "gzip header %s", path)
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeFn() }}, nil
	}
	return readCloser{Reader: br, closeFn: closeFn}, nil
}

func isGzip(br *bufio.Reader) bool {
	b, err := br.Peek(len(gzipMagic))
	return err == nil && b[0] == gzipMagic[0] && b[1] == gzipMagic[1]
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a buffered writer. If the path ends in .gz, the output is gzip
// compressed.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		bw := bufio.NewWriter(os.Stdout)
		return writeCloser{Writer: bw, closeFn: bw.Flush}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	if filepath.Ext(path) == ".gz" {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	bw := bufio.NewWriter(f)
	return writeCloser{Writer: bw, closeFn: func() error {
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error { return r.closeFn() }

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error { return w.closeFn() }
