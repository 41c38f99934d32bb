// Package storage keeps uploaded project images. Every upload is stored
// under a freshly generated uuid name, so concurrent uploads never collide.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported content type")

// imageExtensions is the upload allow-list.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

type Store interface {
	// Save stores r and returns the public path or URL it is served from.
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	// Delete removes an object previously returned by Save. Deleting a
	// missing object is not an error.
	Delete(ctx context.Context, location string) error
}

// IsAllowedImage reports whether uploads of contentType are accepted.
func IsAllowedImage(contentType string) bool {
	_, ok := imageExtensions[normalizeType(contentType)]
	return ok
}

func newObjectName(contentType string) (string, error) {
	ext, ok := imageExtensions[normalizeType(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	return uuid.NewString() + ext, nil
}

// normalizeType drops parameters and case, "IMAGE/PNG; q=1" becomes "image/png".
func normalizeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
