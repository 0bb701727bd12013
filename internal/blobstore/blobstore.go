// Package blobstore persists report documents and hands out locators for them.
package blobstore

import (
	"context"
	"mime"
	"path"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
)

// Store is a write-once object store. Save never overwrites: saving under a
// name that is already taken fails with ierr.ErrAlreadyExists.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	URLFor(name string) string
	Exists(ctx context.Context, name string) (bool, error)
	Open(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

// New builds the store selected by cfg.Provider.
func New(ctx context.Context, cfg models.StorageConfig) (Store, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(ctx, cfg.S3, cfg.PublicBaseURL)
	default:
		return nil, ierr.NewErrorf("unsupported storage provider: %s", cfg.Provider).Mark(ierr.ErrValidation)
	}
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// joinURL appends name to base, inserting a single slash.
func joinURL(base, name string) string {
	if base == "" {
		return "/" + name
	}
	if base[len(base)-1] == '/' {
		return base + name
	}
	return base + "/" + name
}
