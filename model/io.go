package model

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Save writes the parameters to path with gob. The file is replaced
// atomically so a crash never leaves a truncated checkpoint.
func (n *Net) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create model directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary model file")
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(n); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "encode model %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temporary model file")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replace model %s", path)
}

// Load reads parameters written by Save.
func Load(path string) (*Net, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open model")
	}
	defer f.Close()

	var n Net
	if err := gob.NewDecoder(f).Decode(&n); err != nil {
		return nil, errors.Wrapf(err, "decode model %s", path)
	}
	if len(n.PolicyW) != n.Width*n.Height || len(n.ValueW) != n.inputs() {
		return nil, errors.Errorf("model %s has inconsistent shapes for a %dx%d board", path, n.Width, n.Height)
	}
	return &n, nil
}

// LoadFor reads a model and checks that it fits the board.
func LoadFor(path string, width, height, planes int) (*Net, error) {
	n, err := Load(path)
	if err != nil {
		return nil, err
	}
	if n.Width != width || n.Height != height || n.Planes != planes {
		return nil, errors.Errorf("model %s is for a %dx%d board with %d planes, want %dx%d with %d",
			path, n.Width, n.Height, n.Planes, width, height, planes)
	}
	return n, nil
}
