package images

import "fmt"

// HashMismatchError reports an image blob whose content did not hash to
// the digest the remote manifest promised. The blob is discarded; nothing
// is written to disk or to the local manifest for the asset.
type HashMismatchError struct {
	AssetID string
	Want    string
	Got     string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch for asset %s: manifest declares %s, blob hashes to %s",
		e.AssetID, e.Want, e.Got)
}
