package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/skirmish/internal/faction"
)

// StatsRepo appends faction snapshots of one match to faction_stats.
type StatsRepo struct {
	db      *DB
	matchID uuid.UUID
}

func NewStatsRepo(db *DB, matchID uuid.UUID) *StatsRepo {
	return &StatsRepo{db: db, matchID: matchID}
}

func (r *StatsRepo) MatchID() uuid.UUID { return r.matchID }

// StartMatch inserts the match row. Must run before the first WriteSnapshots.
func (r *StatsRepo) StartMatch(ctx context.Context, factions int) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO matches (match_id, factions) VALUES ($1, $2)`,
		r.matchID, factions,
	)
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	return nil
}

var statsColumns = []string{
	"match_id", "tick", "faction_id", "faction_name", "units", "buildings",
	"combat", "non_combat", "enemies", "attack_power", "defeated",
}

// statsRows lays out snapshots in statsColumns order.
func statsRows(matchID uuid.UUID, tick uint64, snaps []faction.Snapshot) [][]any {
	rows := make([][]any, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []any{
			matchID, int64(tick), s.FactionID, s.Name, s.Units, s.Buildings,
			s.Combat, s.NonCombat, s.Enemies, s.AttackPower, s.Defeated,
		})
	}
	return rows
}

// WriteSnapshots copies one tick's snapshots in a single round trip.
func (r *StatsRepo) WriteSnapshots(ctx context.Context, tick uint64, snaps []faction.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	_, err := r.db.Pool.CopyFrom(ctx,
		pgx.Identifier{"faction_stats"},
		statsColumns,
		pgx.CopyFromRows(statsRows(r.matchID, tick, snaps)),
	)
	if err != nil {
		return fmt.Errorf("write faction stats: %w", err)
	}
	return nil
}
