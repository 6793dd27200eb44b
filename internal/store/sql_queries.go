package store

import (
	sq "github.com/Masterminds/squirrel"
)

// cardColumns is the canonical column order of the cards table. The swap
// engine's INSERT … SELECT relies on the snapshot sharing this layout, so
// every query in this file selects the same list.
var cardColumns = []string{
	"db_uuid",
	"name",
	"card_type",
	"rules_text",
	"errata_text",
	"is_banned",
	"release_set",
	"srg_url",
	"srgpc_url",
	"comments",
	"tags",
	"power",
	"agility",
	"strike",
	"submission",
	"grapple",
	"technique",
	"division",
	"gender",
	"deck_card_number",
	"atk_type",
	"play_order",
	"synced_at",
}

const (
	getCardByUUID = `SELECT db_uuid, name, card_type, rules_text, errata_text, is_banned, release_set, srg_url, srgpc_url, comments, tags, power, agility, strike, submission, grapple, technique, division, gender, deck_card_number, atk_type, play_order, synced_at
		FROM cards
		WHERE db_uuid = ?;`

	getCardByExactName = `SELECT db_uuid, name, card_type, rules_text, errata_text, is_banned, release_set, srg_url, srgpc_url, comments, tags, power, agility, strike, submission, grapple, technique, division, gender, deck_card_number, atk_type, play_order, synced_at
		FROM cards
		WHERE name = ?
		LIMIT 1;`

	getCardByPartialName = `SELECT db_uuid, name, card_type, rules_text, errata_text, is_banned, release_set, srg_url, srgpc_url, comments, tags, power, agility, strike, submission, grapple, technique, division, gender, deck_card_number, atk_type, play_order, synced_at
		FROM cards
		WHERE name LIKE ? COLLATE NOCASE
		LIMIT 1;`

	getMainDeckCards = `SELECT db_uuid, name, card_type, rules_text, errata_text, is_banned, release_set, srg_url, srgpc_url, comments, tags, power, agility, strike, submission, grapple, technique, division, gender, deck_card_number, atk_type, play_order, synced_at
		FROM cards
		WHERE card_type = 'MainDeckCard'
		ORDER BY deck_card_number;`

	getCardCount = `SELECT COUNT(*) FROM cards;`

	getRelatedFinishes = `SELECT finish_uuid FROM card_related_finishes WHERE card_uuid = ?;`

	getRelatedCards = `SELECT related_uuid FROM card_related_cards WHERE card_uuid = ?;`

	getCatalogState = `SELECT current_version, last_synced_at FROM catalog_state WHERE id = 1;`

	getAllImageManifestEntries = `SELECT asset_id, hash, synced_at FROM image_manifest;`

	upsertImageManifestEntry = `INSERT INTO image_manifest (asset_id, hash, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET hash = excluded.hash, synced_at = excluded.synced_at;`

	createCollection = `INSERT INTO collections (name, created_at) VALUES (?, ?);`

	listCollections = `SELECT id, name, created_at FROM collections ORDER BY created_at;`

	addCollectionCard = `INSERT INTO collection_cards (collection_id, card_uuid, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT (collection_id, card_uuid) DO UPDATE SET quantity = excluded.quantity;`

	getCollectionCards = `SELECT collection_id, card_uuid, quantity FROM collection_cards WHERE collection_id = ?;`

	deleteCollectionCards = `DELETE FROM collection_cards WHERE collection_id = ?;`

	deleteCollection = `DELETE FROM collections WHERE id = ?;`
)

// buildSearchCardsQuery assembles the dynamic card search from filter.
// Only non-zero filter fields become WHERE clauses.
func buildSearchCardsQuery(filter CardFilter) (string, []any, error) {
	b := sq.Select(cardColumns...).
		From("cards")

	if filter.Query != "" {
		b = b.Where(sq.Expr("name LIKE ? COLLATE NOCASE", "%"+filter.Query+"%"))
	}
	if filter.Type != "" {
		b = b.Where(sq.Eq{"card_type": string(filter.Type)})
	}
	if filter.AtkType != "" {
		b = b.Where(sq.Eq{"atk_type": string(filter.AtkType)})
	}
	if filter.PlayOrder != "" {
		b = b.Where(sq.Eq{"play_order": string(filter.PlayOrder)})
	}
	if filter.Division != "" {
		b = b.Where(sq.Eq{"division": filter.Division})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}

	return b.OrderBy("name").Limit(limit).ToSql()
}

// buildCompetitorsQuery assembles the competitor listing. Competitor rows
// are matched on the card_type substring because both single and tornado
// competitors must be included.
func buildCompetitorsQuery(division string, limit uint64) (string, []any, error) {
	b := sq.Select(cardColumns...).
		From("cards").
		Where(sq.Like{"card_type": "%" + "Competitor" + "%"})

	if division != "" {
		b = b.Where(sq.Eq{"division": division})
	}
	if limit > 0 {
		b = b.Limit(limit)
	}

	return b.OrderBy("name").ToSql()
}

// catalogTablesChildFirst lists every catalog-owned table in
// child-before-parent order, the order the swap engine deletes in.
// Ownership is declared here explicitly and never inferred: tables absent
// from this list are user-owned and must survive a swap untouched.
var catalogTablesChildFirst = []string{
	"card_related_finishes",
	"card_related_cards",
	"cards",
}

// catalogTablesParentFirst is the copy order, parents before children so
// foreign keys on the relation tables resolve during the bulk insert.
var catalogTablesParentFirst = []string{
	"cards",
	"card_related_finishes",
	"card_related_cards",
}
