package store

import "errors"

var (
	// ErrIncompleteDownload indicates that a downloaded catalog snapshot's
	// byte count does not match the size declared by its manifest. The
	// local store has not been touched; the caller may retry the download
	// from scratch.
	ErrIncompleteDownload = errors.New("catalog snapshot download incomplete")

	// ErrTransaction indicates that the catalog swap transaction failed
	// and was rolled back. The previous catalog remains fully queryable.
	ErrTransaction = errors.New("catalog swap transaction failed")

	// ErrVersionNotNewer indicates a swap was requested for a snapshot
	// whose version is not greater than the installed one. Downgrades
	// must be forced explicitly, never performed by default.
	ErrVersionNotNewer = errors.New("snapshot version not newer than installed catalog")

	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
)
