package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
)

type document struct {
	Items []layout.Item `json:"items" yaml:"items" toml:"items"`
}

// ReadItems decodes an item document from r in the given format.
//
// ReadItems returns an error if:
//   - The document is malformed
//   - An item has a negative or non-finite size
//   - Two items share an ID
//
// Items without an ID are named "item-<n>" after their zero-based position.
// ReadItems does not close r.
func ReadItems(r io.Reader, format Format) ([]layout.Item, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json items")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml items")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml items")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown item format %q", format)
	}

	if err := NormalizeItems(doc.Items); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// ImportItems reads an item file, choosing the decoder from the extension.
func ImportItems(path string) ([]layout.Item, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadItems(f, format)
}

// NormalizeItems applies the checks of [ReadItems] to items decoded
// elsewhere, such as an API request body. Missing IDs are filled in place.
func NormalizeItems(items []layout.Item) error {
	seen := make(map[string]int, len(items))
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = fmt.Sprintf("item-%d", i)
		}
		if err := errors.ValidateItemID(it.ID); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if j, dup := seen[it.ID]; dup {
			return errors.New(errors.ErrCodeInvalidItem, "items %d and %d share id %q", j, i, it.ID)
		}
		seen[it.ID] = i
		if err := errors.ValidateNonNegative("width", it.Width); err != nil {
			return fmt.Errorf("item %q: %w", it.ID, err)
		}
		if err := errors.ValidateNonNegative("height", it.Height); err != nil {
			return fmt.Errorf("item %q: %w", it.ID, err)
		}
	}
	return nil
}
