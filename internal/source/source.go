// Package source turns files, queries, databases and the environment into
// values the explorer can walk.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/flavono123/peek/internal/value"
)

var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoMatch           = errors.New("query matched nothing")
)

// Stdin is the path that reads from standard input.
const Stdin = "-"

type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "auto"
}

// FormatOf picks a format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Sniff guesses the format of raw input. Anything that does not open like
// JSON is treated as YAML, which is a superset.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

type LoadOptions struct {
	// Format overrides detection by extension.
	Format Format
	// Query is a gjson path applied to JSON input before decoding.
	Query string
}

// Decode decodes data in the given format.
func Decode(data []byte, opts LoadOptions) (any, error) {
	format := opts.Format
	if format == FormatAuto {
		format = Sniff(data)
	}

	if opts.Query != "" {
		if format != FormatJSON {
			return nil, fmt.Errorf("%w: queries need json input, got %s", ErrUnsupportedFormat, format)
		}
		raw, err := Query(data, opts.Query)
		if err != nil {
			return nil, err
		}
		data = raw
	}

	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
}

// LoadFile reads and decodes one file, or standard input for "-".
func LoadFile(path string, opts LoadOptions) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(os.Stdin)
	} else {
		if opts.Format == FormatAuto {
			if f, ferr := FormatOf(path); ferr == nil {
				opts.Format = f
			}
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	v, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadFiles loads every path concurrently. A single path yields its value;
// several yield an object keyed by path in argument order.
func LoadFiles(ctx context.Context, paths []string, opts LoadOptions) (any, error) {
	if len(paths) == 1 {
		return LoadFile(paths[0], opts)
	}

	results := make([]any, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := LoadFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	obj := value.NewObject()
	for i, path := range paths {
		obj.Set(path, results[i])
	}
	return obj, nil
}
