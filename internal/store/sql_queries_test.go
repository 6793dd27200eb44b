package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getdiced/cardmirror/models"
)

func TestBuildSearchCardsQuery(t *testing.T) {
	tests := []struct {
		name         string
		filter       CardFilter
		wantContains []string
		wantArgs     []any
	}{
		{
			name:         "empty filter applies default limit only",
			filter:       CardFilter{},
			wantContains: []string{"FROM cards", "ORDER BY name", "LIMIT 100"},
			wantArgs:     nil,
		},
		{
			name:   "name query becomes case-insensitive substring match",
			filter: CardFilter{Query: "piledriver"},
			wantContains: []string{
				"name LIKE ? COLLATE NOCASE",
				"ORDER BY name",
			},
			wantArgs: []any{"%piledriver%"},
		},
		{
			name: "all filters combined",
			filter: CardFilter{
				Query:     "drop",
				Type:      models.MainDeckCard,
				AtkType:   models.Strike,
				PlayOrder: models.Lead,
				Division:  "Heavyweight",
				Limit:     10,
			},
			wantContains: []string{
				"name LIKE ? COLLATE NOCASE",
				"card_type = ?",
				"atk_type = ?",
				"play_order = ?",
				"division = ?",
				"LIMIT 10",
			},
			wantArgs: []any{"%drop%", "MainDeckCard", "Strike", "Lead", "Heavyweight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSearchCardsQuery(tt.filter)
			require.NoError(t, err)

			for _, fragment := range tt.wantContains {
				assert.Contains(t, query, fragment)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildCompetitorsQuery(t *testing.T) {
	tests := []struct {
		name         string
		division     string
		limit        uint64
		wantContains []string
		wantAbsent   []string
		wantArgs     []any
	}{
		{
			name:         "no division returns every competitor type",
			wantContains: []string{"card_type LIKE ?", "ORDER BY name"},
			wantAbsent:   []string{"division", "LIMIT"},
			wantArgs:     []any{"%Competitor%"},
		},
		{
			name:         "division filter and limit",
			division:     "Cruiserweight",
			limit:        5,
			wantContains: []string{"card_type LIKE ?", "division = ?", "LIMIT 5"},
			wantArgs:     []any{"%Competitor%", "Cruiserweight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildCompetitorsQuery(tt.division, tt.limit)
			require.NoError(t, err)

			for _, fragment := range tt.wantContains {
				assert.Contains(t, query, fragment)
			}
			for _, fragment := range tt.wantAbsent {
				assert.NotContains(t, query, fragment)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

// TestCatalogTableOrders guards the delete/copy orders against drift: the
// two slices must hold the same tables, deletes child-first and copies
// parent-first, so foreign keys resolve in both directions.
func TestCatalogTableOrders(t *testing.T) {
	assert.ElementsMatch(t, catalogTablesChildFirst, catalogTablesParentFirst)
	assert.Equal(t, "cards", catalogTablesChildFirst[len(catalogTablesChildFirst)-1])
	assert.Equal(t, "cards", catalogTablesParentFirst[0])
}
