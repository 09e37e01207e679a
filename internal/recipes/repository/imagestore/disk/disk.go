package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
)

type ImageStore struct {
	dir string
}

func New(cfg config.Storage) (ImageStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil { //nolint:gomnd
		return ImageStore{}, fmt.Errorf("mkdir error: %w", err)
	}

	return ImageStore{
		dir: cfg.Dir,
	}, nil
}

func (st ImageStore) Save(_ context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(st.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gomnd
		return "", fmt.Errorf("mkdir error: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gomnd
		return "", fmt.Errorf("write file error: %w", err)
	}

	return "/media/" + key, nil
}
