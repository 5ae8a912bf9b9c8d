package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type armyRepo struct{ tx pgx.Tx }

func (r armyRepo) GetByID(ctx context.Context, id string) (*game.Army, error) {
	var data string
	err := r.tx.QueryRow(ctx, `SELECT data FROM armies WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get army", err)
	}
	var a game.Army
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, gameerrors.WrapJSON("decode army", err)
	}
	return &a, nil
}

func (r armyRepo) Save(ctx context.Context, a *game.Army) error {
	return r.upsert(ctx, a)
}

func (r armyRepo) Add(ctx context.Context, a *game.Army) error {
	return r.upsert(ctx, a)
}

func (r armyRepo) upsert(ctx context.Context, a *game.Army) error {
	data, err := json.Marshal(a)
	if err != nil {
		return gameerrors.WrapJSON("encode army", err)
	}
	_, err = r.tx.Exec(ctx, `
INSERT INTO armies (id, player_id, home_village_id, field_id, data) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT(id) DO UPDATE SET player_id = excluded.player_id, home_village_id = excluded.home_village_id,
	field_id = excluded.field_id, data = excluded.data
`, a.ID, a.PlayerID, a.HomeVillageID, a.FieldID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save army", err)
	}
	return nil
}

func (r armyRepo) Remove(ctx context.Context, id string) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM armies WHERE id = $1`, id)
	if err != nil {
		return gameerrors.WrapDB("remove army", err)
	}
	return nil
}
