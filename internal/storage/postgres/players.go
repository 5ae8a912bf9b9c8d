package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type playerRepo struct{ tx pgx.Tx }

func (r playerRepo) GetByID(ctx context.Context, id string) (*game.Player, error) {
	var data string
	err := r.tx.QueryRow(ctx, `SELECT data FROM players WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get player", err)
	}
	var p game.Player
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, gameerrors.WrapJSON("decode player", err)
	}
	return &p, nil
}

func (r playerRepo) Save(ctx context.Context, p *game.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return gameerrors.WrapJSON("encode player", err)
	}
	_, err = r.tx.Exec(ctx, `
INSERT INTO players (id, alliance_id, data) VALUES ($1, $2, $3)
ON CONFLICT(id) DO UPDATE SET alliance_id = excluded.alliance_id, data = excluded.data
`, p.ID, p.AllianceID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save player", err)
	}
	return nil
}
