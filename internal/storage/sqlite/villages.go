package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type villageRepo struct{ tx *sql.Tx }

// villages.data never carries HomeArmy/Reinforcements/DeployedArmies —
// those are other rows in the armies table, reattached on load by
// field_id/home_village_id the same way the original's
// def_village.reinforcements() accessor is a query, not a stored field.
func (r villageRepo) GetByID(ctx context.Context, id uint64) (*game.Village, error) {
	var data, homeArmyID string
	err := r.tx.QueryRowContext(ctx, `SELECT data, home_army_id FROM villages WHERE id = ?`, id).Scan(&data, &homeArmyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get village", err)
	}
	return r.hydrate(ctx, data, homeArmyID)
}

func (r villageRepo) GetCapitalByPlayerID(ctx context.Context, playerID string) (*game.Village, error) {
	var data, homeArmyID string
	err := r.tx.QueryRowContext(ctx, `SELECT data, home_army_id FROM villages WHERE player_id = ? AND is_capital = 1`, playerID).Scan(&data, &homeArmyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get capital village", err)
	}
	return r.hydrate(ctx, data, homeArmyID)
}

func (r villageRepo) hydrate(ctx context.Context, data, homeArmyID string) (*game.Village, error) {
	var v game.Village
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, gameerrors.WrapJSON("decode village", err)
	}

	if homeArmyID != "" {
		home, err := armyRepo{r.tx}.GetByID(ctx, homeArmyID)
		if err != nil && !errors.Is(err, gameerrors.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			v.HomeArmy = home
		}
	}

	rows, err := r.tx.QueryContext(ctx, `SELECT id, data FROM armies WHERE field_id = ? AND home_village_id != ? AND id != ?`, v.ID, v.ID, homeArmyID)
	if err != nil {
		return nil, gameerrors.WrapDB("list reinforcements", err)
	}
	v.Reinforcements, err = scanArmies(rows)
	if err != nil {
		return nil, err
	}

	rows, err = r.tx.QueryContext(ctx, `SELECT id, data FROM armies WHERE home_village_id = ? AND field_id != ? AND id != ?`, v.ID, v.ID, homeArmyID)
	if err != nil {
		return nil, gameerrors.WrapDB("list deployed armies", err)
	}
	v.DeployedArmies, err = scanArmies(rows)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func scanArmies(rows *sql.Rows) ([]*game.Army, error) {
	defer rows.Close()
	var out []*game.Army
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, gameerrors.WrapDB("scan army", err)
		}
		var a game.Army
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, gameerrors.WrapJSON("decode army", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, gameerrors.WrapDB("iterate armies", err)
	}
	return out, nil
}

func (r villageRepo) Save(ctx context.Context, v *game.Village) error {
	return r.upsert(ctx, v)
}

func (r villageRepo) Add(ctx context.Context, v *game.Village) error {
	return r.upsert(ctx, v)
}

func (r villageRepo) upsert(ctx context.Context, v *game.Village) error {
	stripped := *v
	stripped.HomeArmy = nil
	stripped.Reinforcements = nil
	stripped.DeployedArmies = nil
	data, err := json.Marshal(&stripped)
	if err != nil {
		return gameerrors.WrapJSON("encode village", err)
	}

	homeArmyID := ""
	if v.HomeArmy != nil {
		homeArmyID = v.HomeArmy.ID
	}

	isCapital := 0
	if v.IsCapital {
		isCapital = 1
	}

	_, err = r.tx.ExecContext(ctx, `
INSERT INTO villages (id, player_id, is_capital, home_army_id, data) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET player_id = excluded.player_id, is_capital = excluded.is_capital,
	home_army_id = excluded.home_army_id, data = excluded.data
`, v.ID, v.PlayerID, isCapital, homeArmyID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save village", err)
	}
	return nil
}
