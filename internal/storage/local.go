package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LocalStore writes uploads into a directory that is served as static files.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	name, err := newObjectName(contentType)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	log.Debug().Str("file", dst).Msg("upload stored")
	return path.Join(s.urlPrefix, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, location string) error {
	dst := filepath.Join(s.dir, path.Base(location))
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	log.Debug().Str("file", dst).Msg("upload removed")
	return nil
}
