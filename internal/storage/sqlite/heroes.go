package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type heroRepo struct{ tx *sql.Tx }

func (r heroRepo) GetByID(ctx context.Context, id string) (*game.Hero, error) {
	var data string
	err := r.tx.QueryRowContext(ctx, `SELECT data FROM heroes WHERE id = ?`, id).Scan(&data)
	return r.decode(data, err)
}

func (r heroRepo) GetByPlayerID(ctx context.Context, playerID string) (*game.Hero, error) {
	var data string
	err := r.tx.QueryRowContext(ctx, `SELECT data FROM heroes WHERE player_id = ?`, playerID).Scan(&data)
	return r.decode(data, err)
}

func (r heroRepo) decode(data string, err error) (*game.Hero, error) {
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err = r.tx.ExecContext(ctx, `
INSERT INTO heroes (id, player_id, data) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET player_id = excluded.player_id, data = excluded.data
`, h.ID, h.PlayerID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save hero", err)
	}
	return nil
}
