package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
)

type reportRepo struct{ tx pgx.Tx }

func (r reportRepo) Add(ctx context.Context, rpt *game.Report) error {
	_, err := r.tx.Exec(ctx, `
INSERT INTO reports (id, kind, data, created_at) VALUES ($1, $2, $3, $4)
`, rpt.ID, string(rpt.Kind), rpt.Data, rpt.CreatedAt.UnixMilli())
	if err != nil {
		return gameerrors.WrapDB("add report", err)
	}
	for _, entry := range rpt.Audience {
		_, err := r.tx.Exec(ctx, `
INSERT INTO report_audience (report_id, player_id, read_at) VALUES ($1, $2, $3)
`, rpt.ID, entry.PlayerID, toMillisOrZero(entry.ReadAt))
		if err != nil {
			return gameerrors.WrapDB("add report audience entry", err)
		}
	}
	return nil
}

func (r reportRepo) GetByID(ctx context.Context, id string) (*game.Report, error) {
	var kind, data string
	var createdAt int64
	err := r.tx.QueryRow(ctx, `SELECT kind, data, created_at FROM reports WHERE id = $1`, id).
		Scan(&kind, &data, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get report", err)
	}

	audience, err := r.audienceFor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &game.Report{
		ID:        id,
		Kind:      game.ReportKind(kind),
		Data:      data,
		Audience:  audience,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}, nil
}

func (r reportRepo) ListForPlayer(ctx context.Context, playerID string, limit, offset int) ([]*game.Report, error) {
	rows, err := r.tx.Query(ctx, `
SELECT r.id, r.kind, r.data, r.created_at
FROM reports r
JOIN report_audience a ON a.report_id = r.id
WHERE a.player_id = $1
ORDER BY r.created_at DESC
LIMIT $2 OFFSET $3
`, playerID, limit, offset)
	if err != nil {
		return nil, gameerrors.WrapDB("list reports for player", err)
	}
	defer rows.Close()

	var out []*game.Report
	for rows.Next() {
		var id, kind, data string
		var createdAt int64
		if err := rows.Scan(&id, &kind, &data, &createdAt); err != nil {
			return nil, gameerrors.WrapDB("scan report", err)
		}
		audience, err := r.audienceFor(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, &game.Report{
			ID:        id,
			Kind:      game.ReportKind(kind),
			Data:      data,
			Audience:  audience,
			CreatedAt: time.UnixMilli(createdAt).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, gameerrors.WrapDB("iterate reports", err)
	}
	return out, nil
}

func (r reportRepo) audienceFor(ctx context.Context, reportID string) ([]game.ReportAudienceEntry, error) {
	rows, err := r.tx.Query(ctx, `SELECT player_id, read_at FROM report_audience WHERE report_id = $1`, reportID)
	if err != nil {
		return nil, gameerrors.WrapDB("get report audience", err)
	}
	defer rows.Close()

	var out []game.ReportAudienceEntry
	for rows.Next() {
		var playerID string
		var readAt int64
		if err := rows.Scan(&playerID, &readAt); err != nil {
			return nil, gameerrors.WrapDB("scan report audience entry", err)
		}
		entry := game.ReportAudienceEntry{PlayerID: playerID}
		if readAt > 0 {
			entry.ReadAt = time.UnixMilli(readAt).UTC()
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, gameerrors.WrapDB("iterate report audience", err)
	}
	return out, nil
}
