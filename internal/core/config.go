package core

import (
	"fmt"
	"io"

	"github.com/inovacc/dcc/internal/encoding"
	"github.com/inovacc/dcc/internal/model"
	"github.com/inovacc/dcc/internal/store"
)

// ShowConfig writes the configuration document to w as indented JSON
func ShowConfig(w io.Writer, cs *store.ConfigStore) error {
	cfg, err := cs.Load()
	if err != nil {
		return err
	}

	out, err := encoding.ToJSONIndent(cfg)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(out))

	return err
}

// ResetConfig removes the configuration document and writes a fresh, empty
// one in its place.
func ResetConfig(cs *store.ConfigStore) (*model.Configuration, error) {
	if err := cs.Delete(); err != nil {
		return nil, fmt.Errorf("failed to reset configuration: %w", err)
	}

	cfg, err := cs.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to reset configuration: %w", err)
	}

	return cfg, nil
}
