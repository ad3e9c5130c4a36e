package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// maxLineBytes bounds a single line of a .dat file.
const maxLineBytes = 1 << 20

type loadOptions struct {
	rectangular bool
}

// Option tunes a table load.
type Option func(*loadOptions)

// WithRectangular makes the load fail with RaggedRowError when a row's
// column count differs from the first row's. Loads are permissive otherwise.
func WithRectangular() Option {
	return func(o *loadOptions) { o.rectangular = true }
}

// LoadTable reads a whitespace-delimited numeric table from a file on disk.
// A missing or unreadable file fails with ResourceNotFoundError before any
// parsing; a bad token fails with ParseError and no table is returned.
func LoadTable(path string, opts ...Option) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ResourceNotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ResourceNotFoundError{Path: path, Err: errors.New("is a directory")}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ResourceNotFoundError{Path: path, Err: err}
	}
	defer file.Close()

	return ReadTable(file, path, opts...)
}

// LoadTableFS is LoadTable against an fs.FS.
func LoadTableFS(fsys fs.FS, name string, opts ...Option) (*Table, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, &ResourceNotFoundError{Path: name, Err: err}
	}
	if info.IsDir() {
		return nil, &ResourceNotFoundError{Path: name, Err: errors.New("is a directory")}
	}

	file, err := fsys.Open(name)
	if err != nil {
		return nil, &ResourceNotFoundError{Path: name, Err: err}
	}
	defer file.Close()

	return ReadTable(file, name, opts...)
}

// ReadTable parses a table from r. source only labels errors and the result.
func ReadTable(r io.Reader, source string, opts ...Option) (*Table, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	rows := make([][]float64, 0)
	width := -1
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 { // blank lines contribute no row
			continue
		}

		row := make([]float64, len(fields))
		for i, tok := range fields {
			val, err := ParseToken(tok)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Path = source
					pe.Line = lineNo
					return nil, pe
				}
				return nil, err
			}
			row[i] = val
		}

		if o.rectangular {
			if width < 0 {
				width = len(row)
			} else if len(row) != width {
				return nil, &RaggedRowError{Path: source, Line: lineNo, Want: width, Got: len(row)}
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	return &Table{Source: source, Rows: rows}, nil
}
