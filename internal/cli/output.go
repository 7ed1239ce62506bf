package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
)

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // source file, used to derive output names
	output    string // -o flag: a file for one format, a base path for several
}

// writeArtifacts writes each artifact and returns the paths written, in
// format order. With a single format, an explicit output path is used
// verbatim.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	formats := slices.Clone(p.formats)
	if len(formats) == 0 {
		for f := range p.artifacts {
			formats = append(formats, f)
		}
		slices.Sort(formats)
	}

	var written []string
	for _, format := range formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := outputPath(basePath(p.output, p.input), format)
		if len(formats) == 1 && p.output != "" {
			path = p.output
		}

		if err := writeFile(path, data); err != nil {
			return written, fmt.Errorf("write %s: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
