// Package imagestore abstracts where uploaded product images live.
//
// Two backends exist: local disk (the default, served by the HTTP server
// under /static/images/) and an S3-compatible bucket. Both name objects
// with a random uuid prefix so stored references never collide even when
// users upload files with the same name.
package imagestore

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Store saves and deletes image blobs and resolves stored references
// to browser-reachable URLs.
type Store interface {
	// Save stores the image and returns its collision-resistant reference.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Delete removes a stored image. Deleting an unknown reference is not
	// an error.
	Delete(ctx context.Context, ref string) error
	// URL returns the path or URL under which the stored image is served.
	URL(ref string) string
}

// makeRef prefixes the original filename with a random uuid, the same
// scheme for both backends.
func makeRef(filename string) string {
	return fmt.Sprintf("%s_%s", uuid.New(), filename)
}
