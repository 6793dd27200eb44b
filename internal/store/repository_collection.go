package store

import (
	"context"
	"fmt"
	"time"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

type collectionRepository struct {
	*DB
	logger *logger.Logger
}

// NewCollectionRepository constructs the store for user-owned saved
// collections. Collections reference catalog cards by uuid but live
// entirely in user-owned tables, so catalog swaps never touch them.
func NewCollectionRepository(db *DB, logger *logger.Logger) CollectionRepository {
	return &collectionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *collectionRepository) CreateCollection(ctx context.Context, name string) (models.Collection, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	res, err := r.DB.ExecContext(ctx, createCollection, name, now.Unix())
	if err != nil {
		log.Err(err).
			Str("func", "collectionRepository.CreateCollection").
			Str("name", name).
			Msg("failed to create collection")
		return models.Collection{}, fmt.Errorf("failed to create collection %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Collection{}, fmt.Errorf("failed to read new collection id: %w", err)
	}

	return models.Collection{ID: id, Name: name, CreatedAt: now.UTC()}, nil
}

func (r *collectionRepository) ListCollections(ctx context.Context) ([]models.Collection, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listCollections)
	if err != nil {
		log.Err(err).
			Str("func", "collectionRepository.ListCollections").
			Msg("failed to query collections")
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var (
			col       models.Collection
			createdAt int64
		)
		if scanErr := rows.Scan(&col.ID, &col.Name, &createdAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", scanErr)
		}
		col.CreatedAt = time.Unix(createdAt, 0).UTC()
		collections = append(collections, col)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating collection rows: %w", rowsErr)
	}

	return collections, nil
}

func (r *collectionRepository) AddCard(ctx context.Context, collectionID int64, cardUUID string, quantity int64) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, addCollectionCard, collectionID, cardUUID, quantity)
	if err != nil {
		log.Err(err).
			Str("func", "collectionRepository.AddCard").
			Int64("collection_id", collectionID).
			Str("card_uuid", cardUUID).
			Msg("failed to add card to collection")
		return fmt.Errorf("failed to add card %s to collection %d: %w", cardUUID, collectionID, err)
	}

	return nil
}

func (r *collectionRepository) CollectionCards(ctx context.Context, collectionID int64) ([]models.CollectionCard, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getCollectionCards, collectionID)
	if err != nil {
		log.Err(err).
			Str("func", "collectionRepository.CollectionCards").
			Int64("collection_id", collectionID).
			Msg("failed to query collection cards")
		return nil, fmt.Errorf("failed to query collection cards: %w", err)
	}
	defer rows.Close()

	var cards []models.CollectionCard
	for rows.Next() {
		var cc models.CollectionCard
		if scanErr := rows.Scan(&cc.CollectionID, &cc.CardUUID, &cc.Quantity); scanErr != nil {
			return nil, fmt.Errorf("failed to scan collection card row: %w", scanErr)
		}
		cards = append(cards, cc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating collection card rows: %w", rowsErr)
	}

	return cards, nil
}

func (r *collectionRepository) DeleteCollection(ctx context.Context, collectionID int64) error {
	log := logger.FromContext(ctx)

	// two statements, child rows first; collection deletion is not part
	// of the sync path so per-statement autocommit is acceptable here
	if _, err := r.DB.ExecContext(ctx, deleteCollectionCards, collectionID); err != nil {
		log.Err(err).
			Str("func", "collectionRepository.DeleteCollection").
			Int64("collection_id", collectionID).
			Msg("failed to delete collection cards")
		return fmt.Errorf("failed to delete collection cards for %d: %w", collectionID, err)
	}
	if _, err := r.DB.ExecContext(ctx, deleteCollection, collectionID); err != nil {
		log.Err(err).
			Str("func", "collectionRepository.DeleteCollection").
			Int64("collection_id", collectionID).
			Msg("failed to delete collection")
		return fmt.Errorf("failed to delete collection %d: %w", collectionID, err)
	}

	return nil
}
