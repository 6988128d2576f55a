package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/model"
)

// Load reads the metamodel named by the options: a manifest file when
// opts.Manifest is set, otherwise a stored model via opts.Store. The
// returned model has passed [model.Model.Validate].
func Load(ctx context.Context, opts Options) (*model.Model, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Model != "" {
		return opts.Store.Get(ctx, opts.Model)
	}
	data, format, err := readManifest(opts.Manifest)
	if err != nil {
		return nil, err
	}
	return parseManifest(data, format, opts.Manifest)
}

// readManifest slurps a manifest file and derives its format from the
// extension. The bytes are returned unparsed so callers can hash them.
func readManifest(path string) ([]byte, string, error) {
	format, err := model.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return data, format, nil
}

// parseManifest decodes and validates manifest bytes.
func parseManifest(data []byte, format, path string) (*model.Model, error) {
	m, err := model.Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}
