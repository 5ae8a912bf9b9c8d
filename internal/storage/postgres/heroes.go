package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type heroRepo struct{ tx pgx.Tx }

func (r heroRepo) GetByID(ctx context.Context, id string) (*game.Hero, error) {
	var data string
	err := r.tx.QueryRow(ctx, `SELECT data FROM heroes WHERE id = $1`, id).Scan(&data)
	return r.decode(data, err)
}

func (r heroRepo) GetByPlayerID(ctx context.Context, playerID string) (*game.Hero, error) {
	var data string
	err := r.tx.QueryRow(ctx, `SELECT data FROM heroes WHERE player_id = $1`, playerID).Scan(&data)
	return r.decode(data, err)
}

func (r heroRepo) decode(data string, err error) (*game.Hero, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get hero", err)
	}
	var h game.Hero
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return nil, gameerrors.WrapJSON("decode hero", err)
	}
	return &h, nil
}

func (r heroRepo) Save(ctx context.Context, h *game.Hero) error {
	data, err := json.Marshal(h)
	if err != nil {
		return gameerrors.WrapJSON("encode hero", err)
	}
	_, err = r.tx.Exec(ctx, `
INSERT INTO heroes (id, player_id, data) VALUES ($1, $2, $3)
ON CONFLICT(id) DO UPDATE SET player_id = excluded.player_id, data = excluded.data
`, h.ID, h.PlayerID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save hero", err)
	}
	return nil
}
