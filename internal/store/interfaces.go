package store

import (
	"context"

	"github.com/getdiced/cardmirror/models"
)

// CardRepository is the read-only query surface over the catalog tables,
// consumed by UI-layer code. All rows it returns are owned by the remote
// catalog; there are deliberately no write methods — the swap engine is
// the only writer.
type CardRepository interface {
	// CardByUUID returns a single card, or ErrNotFound.
	CardByUUID(ctx context.Context, uuid string) (models.Card, error)

	// CardByName returns a card by name. With exact=false the match is a
	// case-insensitive substring match and the first hit wins.
	CardByName(ctx context.Context, name string, exact bool) (models.Card, error)

	// SearchCards returns cards matching filter, ordered by name.
	SearchCards(ctx context.Context, filter CardFilter) ([]models.Card, error)

	// Competitors returns all competitor cards, optionally restricted to
	// a division, ordered by name.
	Competitors(ctx context.Context, division string, limit uint64) ([]models.Card, error)

	// MainDeckCards returns all main deck cards ordered by deck number.
	MainDeckCards(ctx context.Context) ([]models.Card, error)

	// RelatedFinishes returns the finish card uuids linked to cardUUID.
	RelatedFinishes(ctx context.Context, cardUUID string) ([]string, error)

	// RelatedCards returns the related card uuids linked to cardUUID.
	RelatedCards(ctx context.Context, cardUUID string) ([]string, error)

	// CardCount returns the total number of catalog cards.
	CardCount(ctx context.Context) (int64, error)
}

// CardFilter is the dynamic filter accepted by SearchCards. Zero fields
// are skipped.
type CardFilter struct {
	// Query is a case-insensitive substring match on card name.
	Query string
	// Type filters by card type.
	Type models.CardType
	// AtkType filters main deck cards by attack class.
	AtkType models.AttackType
	// PlayOrder filters main deck cards by play order.
	PlayOrder models.PlayOrder
	// Division filters competitors by division.
	Division string
	// Limit caps the result size; 0 means the default of 100.
	Limit uint64
}

// CatalogStateRepository reads the installed-version row. Writing it is
// the swap engine's job, inside the swap transaction.
type CatalogStateRepository interface {
	CatalogState(ctx context.Context) (models.CatalogState, error)
}

// ImageManifestRepository persists the local image manifest: the hash of
// every asset as last written to disk. Entries are upserted one at a time,
// each in its own autocommitted statement, so the manifest stays
// consistent even if the process is killed mid-sync.
type ImageManifestRepository interface {
	// LoadAll returns the full assetId → entry map.
	LoadAll(ctx context.Context) (map[string]models.LocalImageEntry, error)

	// Upsert durably records the hash for assetID. Must be called only
	// after the asset's bytes have been written to local storage.
	Upsert(ctx context.Context, entry models.LocalImageEntry) error
}

// CollectionRepository manages user-owned saved collections. These live in
// user-owned tables and must survive catalog swaps untouched.
type CollectionRepository interface {
	CreateCollection(ctx context.Context, name string) (models.Collection, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	AddCard(ctx context.Context, collectionID int64, cardUUID string, quantity int64) error
	CollectionCards(ctx context.Context, collectionID int64) ([]models.CollectionCard, error)
	DeleteCollection(ctx context.Context, collectionID int64) error
}

// SwapEngine atomically replaces every catalog-owned row with the contents
// of a downloaded snapshot, leaving user-owned tables untouched.
type SwapEngine interface {
	// Swap installs the snapshot blob described by manifest. The blob's
	// byte count is verified against manifest.SizeBytes before anything
	// else happens. On success the returned state carries the new
	// version; on any failure the store is byte-for-byte as before.
	Swap(ctx context.Context, manifest models.CatalogManifest, blob []byte, opts SwapOptions) (models.CatalogState, error)
}

// SwapOptions tunes a single swap invocation.
type SwapOptions struct {
	// Force permits installing a snapshot whose version is not greater
	// than the installed one. Never set on the default sync path.
	Force bool
}
