package models

import "time"

// CardType defines the kind of card a catalog record describes.
// The value determines which optional field groups are populated.
type CardType string

const (
	// MainDeckCard is a numbered card from the shared main deck.
	MainDeckCard CardType = "MainDeckCard"

	// SingleCompetitorCard is a competitor played by one player.
	SingleCompetitorCard CardType = "SingleCompetitorCard"

	// TornadoCompetitorCard is a competitor shared by a tag team.
	TornadoCompetitorCard CardType = "TornadoCompetitorCard"
)

// AttackType defines the attack class of a main deck card.
type AttackType string

const (
	Strike     AttackType = "Strike"
	Grapple    AttackType = "Grapple"
	Submission AttackType = "Submission"
)

// PlayOrder defines when in a turn a main deck card may be played.
type PlayOrder string

const (
	Lead     PlayOrder = "Lead"
	Followup PlayOrder = "Followup"
	Finish   PlayOrder = "Finish"
)

// Card is a single catalog record. Cards are owned entirely by the remote
// catalog: local code never mutates them, and every row is replaced
// wholesale by a catalog swap rather than patched field by field.
type Card struct {
	// UUID is the stable identifier assigned by the remote catalog.
	UUID string `json:"db_uuid"`

	// Name is the printed card name.
	Name string `json:"name"`

	// Type determines which of the optional field groups below apply.
	Type CardType `json:"card_type"`

	RulesText  *string `json:"rules_text,omitempty"`
	ErrataText *string `json:"errata_text,omitempty"`
	IsBanned   bool    `json:"is_banned"`
	ReleaseSet *string `json:"release_set,omitempty"`
	SRGURL     *string `json:"srg_url,omitempty"`
	SRGPCURL   *string `json:"srgpc_url,omitempty"`
	Comments   *string `json:"comments,omitempty"`

	// Tags is stored as a comma-separated string in the catalog and split
	// on load.
	Tags []string `json:"tags,omitempty"`

	// Competitor stats. Nil for main deck cards.
	Power      *int64 `json:"power,omitempty"`
	Agility    *int64 `json:"agility,omitempty"`
	Strike     *int64 `json:"strike,omitempty"`
	Submission *int64 `json:"submission,omitempty"`
	Grapple    *int64 `json:"grapple,omitempty"`
	Technique  *int64 `json:"technique,omitempty"`
	Division   *string `json:"division,omitempty"`
	Gender     *string `json:"gender,omitempty"`

	// Main deck fields. Nil for competitors.
	DeckCardNumber *int64      `json:"deck_card_number,omitempty"`
	AtkType        *AttackType `json:"atk_type,omitempty"`
	PlayOrder      *PlayOrder  `json:"play_order,omitempty"`

	// SyncedAt records when the row was written by the catalog swap.
	SyncedAt time.Time `json:"synced_at"`
}

// IsCompetitor reports whether the card is any competitor variant.
func (c Card) IsCompetitor() bool {
	return c.Type == SingleCompetitorCard || c.Type == TornadoCompetitorCard
}
