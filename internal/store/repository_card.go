package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

type cardRepository struct {
	*DB
	logger *logger.Logger
}

// NewCardRepository constructs the read-only catalog query surface over db.
func NewCardRepository(db *DB, logger *logger.Logger) CardRepository {
	return &cardRepository{
		DB:     db,
		logger: logger,
	}
}

func (c *cardRepository) CardByUUID(ctx context.Context, uuid string) (models.Card, error) {
	return c.queryOneCard(ctx, getCardByUUID, uuid)
}

func (c *cardRepository) CardByName(ctx context.Context, name string, exact bool) (models.Card, error) {
	if exact {
		return c.queryOneCard(ctx, getCardByExactName, name)
	}
	return c.queryOneCard(ctx, getCardByPartialName, "%"+name+"%")
}

func (c *cardRepository) SearchCards(ctx context.Context, filter CardFilter) ([]models.Card, error) {
	query, args, err := buildSearchCardsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build card search query: %w", err)
	}
	return c.queryCards(ctx, query, args...)
}

func (c *cardRepository) Competitors(ctx context.Context, division string, limit uint64) ([]models.Card, error) {
	query, args, err := buildCompetitorsQuery(division, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build competitors query: %w", err)
	}
	return c.queryCards(ctx, query, args...)
}

func (c *cardRepository) MainDeckCards(ctx context.Context) ([]models.Card, error) {
	return c.queryCards(ctx, getMainDeckCards)
}

func (c *cardRepository) RelatedFinishes(ctx context.Context, cardUUID string) ([]string, error) {
	return c.queryUUIDList(ctx, getRelatedFinishes, cardUUID)
}

func (c *cardRepository) RelatedCards(ctx context.Context, cardUUID string) ([]string, error) {
	return c.queryUUIDList(ctx, getRelatedCards, cardUUID)
}

func (c *cardRepository) CardCount(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	if err := c.DB.QueryRowContext(ctx, getCardCount).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "cardRepository.CardCount").
			Msg("failed to count catalog cards")
		return 0, fmt.Errorf("failed to count catalog cards: %w", err)
	}

	return count, nil
}

func (c *cardRepository) queryOneCard(ctx context.Context, query string, args ...any) (models.Card, error) {
	log := logger.FromContext(ctx)

	row := c.DB.QueryRowContext(ctx, query, args...)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, ErrNotFound
		}
		log.Err(err).
			Str("func", "cardRepository.queryOneCard").
			Msg("failed to scan card row")
		return models.Card{}, fmt.Errorf("failed to scan card row: %w", err)
	}

	return card, nil
}

func (c *cardRepository) queryCards(ctx context.Context, query string, args ...any) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "cardRepository.queryCards").
			Msg("failed to execute card query")
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "cardRepository.queryCards").
				Msg("failed to scan card row")
			return nil, fmt.Errorf("failed to scan card row: %w", scanErr)
		}
		cards = append(cards, card)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "cardRepository.queryCards").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating card rows: %w", rowsErr)
	}

	return cards, nil
}

func (c *cardRepository) queryUUIDList(ctx context.Context, query string, cardUUID string) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, query, cardUUID)
	if err != nil {
		log.Err(err).
			Str("func", "cardRepository.queryUUIDList").
			Str("card_uuid", cardUUID).
			Msg("failed to query related uuids")
		return nil, fmt.Errorf("failed to query related uuids: %w", err)
	}
	defer rows.Close()

	var uuids []string
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan related uuid: %w", scanErr)
		}
		uuids = append(uuids, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating related uuids: %w", rowsErr)
	}

	return uuids, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard maps one row in the canonical cardColumns order onto a Card.
// Nullable columns arrive as sql.Null* and become nil pointers; tags are
// stored comma-separated and split here.
func scanCard(row rowScanner) (models.Card, error) {
	var (
		card       models.Card
		rulesText  sql.NullString
		errataText sql.NullString
		isBanned   int64
		releaseSet sql.NullString
		srgURL     sql.NullString
		srgpcURL   sql.NullString
		comments   sql.NullString
		tags       sql.NullString
		power      sql.NullInt64
		agility    sql.NullInt64
		strike     sql.NullInt64
		submission sql.NullInt64
		grapple    sql.NullInt64
		technique  sql.NullInt64
		division   sql.NullString
		gender     sql.NullString
		deckNumber sql.NullInt64
		atkType    sql.NullString
		playOrder  sql.NullString
		syncedAt   int64
	)

	err := row.Scan(
		&card.UUID,
		&card.Name,
		&card.Type,
		&rulesText,
		&errataText,
		&isBanned,
		&releaseSet,
		&srgURL,
		&srgpcURL,
		&comments,
		&tags,
		&power,
		&agility,
		&strike,
		&submission,
		&grapple,
		&technique,
		&division,
		&gender,
		&deckNumber,
		&atkType,
		&playOrder,
		&syncedAt,
	)
	if err != nil {
		return models.Card{}, err
	}

	card.RulesText = nullString(rulesText)
	card.ErrataText = nullString(errataText)
	card.IsBanned = isBanned != 0
	card.ReleaseSet = nullString(releaseSet)
	card.SRGURL = nullString(srgURL)
	card.SRGPCURL = nullString(srgpcURL)
	card.Comments = nullString(comments)
	card.Power = nullInt(power)
	card.Agility = nullInt(agility)
	card.Strike = nullInt(strike)
	card.Submission = nullInt(submission)
	card.Grapple = nullInt(grapple)
	card.Technique = nullInt(technique)
	card.Division = nullString(division)
	card.Gender = nullString(gender)
	card.DeckCardNumber = nullInt(deckNumber)
	card.SyncedAt = time.Unix(syncedAt, 0).UTC()

	if tags.Valid && tags.String != "" {
		parts := strings.Split(tags.String, ",")
		card.Tags = make([]string, 0, len(parts))
		for _, p := range parts {
			card.Tags = append(card.Tags, strings.TrimSpace(p))
		}
	}
	if atkType.Valid && atkType.String != "" {
		v := models.AttackType(atkType.String)
		card.AtkType = &v
	}
	if playOrder.Valid && playOrder.String != "" {
		v := models.PlayOrder(playOrder.String)
		card.PlayOrder = &v
	}

	return card, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
