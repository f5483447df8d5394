package bulk

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
)

// RenameFile is the name of the rename map inside a bulk directory.
const RenameFile = "renames.json"

// WriteRenameMap persists the original to staged name mapping into bulkDir.
// The object only becomes visible once fully written.
func WriteRenameMap(ctx context.Context, fs FS, bulkDir string, renames map[string]string) error {
	p := path.Join(bulkDir, RenameFile)

	data, err := json.Marshal(renames)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", p)
	}

	w, err := fs.Create(ctx, p)
	if err != nil {
		return errors.Wrapf(err, "creating %s", p)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "writing %s", p)
	}

	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", p)
	}
	return nil
}

// ReadRenameMap loads the rename map written by WriteRenameMap.
func ReadRenameMap(ctx context.Context, fs FS, bulkDir string) (map[string]string, error) {
	p := path.Join(bulkDir, RenameFile)

	r, err := fs.Open(ctx, p)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", p)
	}
	defer r.Close()

	var renames map[string]string
	if err := json.NewDecoder(r).Decode(&renames); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", p)
	}
	return renames, nil
}
