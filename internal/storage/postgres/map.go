package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type mapRepo struct{ tx pgx.Tx }

func (r mapRepo) GetFieldByID(ctx context.Context, id uint64) (*game.MapField, error) {
	var data string
	err := r.tx.QueryRow(ctx, `SELECT data FROM map_fields WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get map field", err)
	}
	var f game.MapField
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return nil, gameerrors.WrapJSON("decode map field", err)
	}
	return &f, nil
}

func (r mapRepo) Save(ctx context.Context, f *game.MapField) error {
	data, err := json.Marshal(f)
	if err != nil {
		return gameerrors.WrapJSON("encode map field", err)
	}
	_, err = r.tx.Exec(ctx, `
INSERT INTO map_fields (id, data) VALUES ($1, $2)
ON CONFLICT(id) DO UPDATE SET data = excluded.data
`, f.ID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save map field", err)
	}
	return nil
}
