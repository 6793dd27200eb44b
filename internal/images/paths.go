package images

import "path/filepath"

// AssetPath returns the local storage path for an asset: assets are
// sharded into subdirectories by the first two characters of their id to
// keep directory sizes manageable at catalog scale.
//
//	<imagesDir>/<id[:2]>/<id>.webp
func AssetPath(imagesDir, assetID string) string {
	shard := assetID
	if len(assetID) >= 2 {
		shard = assetID[:2]
	}
	return filepath.Join(imagesDir, shard, assetID+".webp")
}
