package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// rsvgConvert is the converter binary looked up on PATH.
const rsvgConvert = "rsvg-convert"

// ErrConverterNotFound is returned when rsvg-convert is not installed.
var ErrConverterNotFound = errors.New("rsvg-convert not found: install librsvg (brew install librsvg, apt install librsvg2-bin)")

// HasConverter reports whether rsvg-convert is available on PATH.
func HasConverter() bool {
	_, err := exec.LookPath(rsvgConvert)
	return err == nil
}

// ToPDF converts an SVG document to PDF with rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "-f", "pdf")
}

func convert(svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, ErrConverterNotFound
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("rsvg-convert: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("rsvg-convert: %w", err)
	}
	return stdout.Bytes(), nil
}
