package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type allianceRepo struct{ tx *sql.Tx }

func (r allianceRepo) GetByID(ctx context.Context, id string) (*game.Alliance, error) {
	var data string
	err := r.tx.QueryRowContext(ctx, `SELECT data FROM alliances WHERE id = ?`, id).Scan(&data)
	return r.decode(data, err)
}

func (r allianceRepo) GetByTag(ctx context.Context, tag string) (*game.Alliance, error) {
	var data string
	err := r.tx.QueryRowContext(ctx, `SELECT data FROM alliances WHERE tag = ?`, tag).Scan(&data)
	return r.decode(data, err)
}

func (r allianceRepo) decode(data string, err error) (*game.Alliance, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get alliance", err)
	}
	var a game.Alliance
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, gameerrors.WrapJSON("decode alliance", err)
	}
	return &a, nil
}

func (r allianceRepo) GetLeader(ctx context.Context, allianceID string) (*game.Player, error) {
	var leaderID string
	err := r.tx.QueryRowContext(ctx, `SELECT leader_id FROM alliances WHERE id = ?`, allianceID).Scan(&leaderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get alliance leader id", err)
	}
	return playerRepo{r.tx}.GetByID(ctx, leaderID)
}

func (r allianceRepo) CountMembers(ctx context.Context, allianceID string) (int, error) {
	var count int
	err := r.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE alliance_id = ?`, allianceID).Scan(&count)
	if err != nil {
		return 0, gameerrors.WrapDB("count alliance members", err)
	}
	return count, nil
}

func (r allianceRepo) Save(ctx context.Context, a *game.Alliance) error {
	return r.upsert(ctx, a)
}

func (r allianceRepo) Add(ctx context.Context, a *game.Alliance) error {
	return r.upsert(ctx, a)
}

func (r allianceRepo) upsert(ctx context.Context, a *game.Alliance) error {
	data, err := json.Marshal(a)
	if err != nil {
		return gameerrors.WrapJSON("encode alliance", err)
	}
	_, err = r.tx.ExecContext(ctx, `
INSERT INTO alliances (id, tag, leader_id, data) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET tag = excluded.tag, leader_id = excluded.leader_id, data = excluded.data
`, a.ID, a.Tag, a.LeaderID, string(data))
	if err != nil {
		return gameerrors.WrapDB("save alliance", err)
	}
	return nil
}

type allianceLogRepo struct{ tx *sql.Tx }

func (r allianceLogRepo) Add(ctx context.Context, l *game.AllianceLog) error {
	data, err := json.Marshal(l)
	if err != nil {
		return gameerrors.WrapJSON("encode alliance log", err)
	}
	_, err = r.tx.ExecContext(ctx, `
INSERT INTO alliance_logs (id, alliance_id, created_at, data) VALUES (?, ?, ?, ?)
`, l.ID, l.AllianceID, l.CreatedAt.UnixMilli(), string(data))
	if err != nil {
		return gameerrors.WrapDB("add alliance log", err)
	}
	return nil
}

func (r allianceLogRepo) GetByAllianceID(ctx context.Context, allianceID string, limit, offset int) ([]*game.AllianceLog, error) {
	rows, err := r.tx.QueryContext(ctx, `
SELECT data FROM alliance_logs WHERE alliance_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?
`, allianceID, limit, offset)
	if err != nil {
		return nil, gameerrors.WrapDB("list alliance logs", err)
	}
	defer rows.Close()

	var out []*game.AllianceLog
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, gameerrors.WrapDB("scan alliance log", err)
		}
		var l game.AllianceLog
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return nil, gameerrors.WrapJSON("decode alliance log", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, gameerrors.WrapDB("iterate alliance logs", err)
	}
	return out, nil
}

type allianceInviteRepo struct{ tx *sql.Tx }

func (r allianceInviteRepo) GetByID(ctx context.Context, id string) (*game.AllianceInvite, error) {
	var data string
	err := r.tx.QueryRowContext(ctx, `SELECT data FROM alliance_invites WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get alliance invite", err)
	}
	var inv game.AllianceInvite
	if err := json.Unmarshal([]byte(data), &inv); err != nil {
		return nil, gameerrors.WrapJSON("decode alliance invite", err)
	}
	return &inv, nil
}

func (r allianceInviteRepo) Add(ctx context.Context, inv *game.AllianceInvite) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return gameerrors.WrapJSON("encode alliance invite", err)
	}
	_, err = r.tx.ExecContext(ctx, `
INSERT INTO alliance_invites (id, alliance_id, player_id, data) VALUES (?, ?, ?, ?)
`, inv.ID, inv.AllianceID, inv.PlayerID, string(data))
	if err != nil {
		return gameerrors.WrapDB("add alliance invite", err)
	}
	return nil
}

func (r allianceInviteRepo) Remove(ctx context.Context, id string) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM alliance_invites WHERE id = ?`, id)
	if err != nil {
		return gameerrors.WrapDB("remove alliance invite", err)
	}
	return nil
}
