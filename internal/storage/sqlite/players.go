package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type playerRepo struct{ tx *sql.Tx }

func (r playerRepo) GetByID(ctx context.Context, id string) (*game.Player, error) {
	var data string
	err := r.tx.QueryRowContext(ctx, `SELECT data FROM players WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err = r.tx.ExecContext(ctx, `
INSERT INTO players (id, alliance_id, data) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET alliance_id = excluded.alliance_id, data = excluded.data
`, p.ID, p.AllianceID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save player", err)
	}
	return nil
}
