// Package remote provides HTTP-level access to the remote card catalog:
// the catalog version manifest, the catalog snapshot blob, the image
// manifest, and individual image blobs.
//
// The package deliberately contains no retry logic. Retries are a policy
// decision made by callers, so that retry counts and backoff can differ
// between a one-time catalog blob fetch and thousands of small image
// fetches. Errors are classified into the sentinel values defined in
// errors.go so that callers can use [errors.Is] to tell transient network
// failures from malformed responses.
package remote

import (
	"context"

	"github.com/getdiced/cardmirror/models"
)

// Client defines read-only access to the remote catalog endpoints.
type Client interface {
	// FetchCatalogManifest returns the descriptor of the latest catalog
	// snapshot available on the server.
	FetchCatalogManifest(ctx context.Context) (models.CatalogManifest, error)

	// FetchCatalogBlob downloads the snapshot blob named by manifest.
	// The returned bytes are not size- or content-verified; that is the
	// swap engine's job.
	FetchCatalogBlob(ctx context.Context, manifest models.CatalogManifest) ([]byte, error)

	// FetchImageManifest returns the full remote image manifest.
	FetchImageManifest(ctx context.Context) (models.ImageManifest, error)

	// FetchImageBlob downloads a single image by its manifest-relative
	// path. The returned bytes are not hash-verified; that is the
	// reconciler's job.
	FetchImageBlob(ctx context.Context, relativePath string) ([]byte, error)
}
