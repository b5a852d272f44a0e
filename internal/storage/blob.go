// Package storage implements the image blob store on an S3-compatible
// bucket, plus storage-key generation for uploads.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the key-addressed object store used for trade images.
type BlobStore interface {
	// Upload stores the payload under key with the given content type.
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// PublicURL returns the publicly resolvable URL for a stored key.
	PublicURL(key string) string
}

// StorageKey derives a collision-resistant object key from the original
// file name: a second-precision timestamp, a short random suffix, and the
// original extension ("png" when the name has none).
func StorageKey(fileName string) string {
	ext := "png"
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		ext = fileName[i+1:]
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s.%s", time.Now().Format("20060102_150405"), suffix, ext)
}
