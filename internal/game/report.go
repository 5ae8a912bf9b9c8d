package game

import (
	"time"

	"github.com/ironcrown/realmforge/internal/id"
)

// ReportKind classifies the domain event a Report carries.
type ReportKind string

const (
	ReportBattle       ReportKind = "battle"
	ReportScout        ReportKind = "scout"
	ReportTradeArrived ReportKind = "trade_arrived"
	ReportConstruction ReportKind = "construction"
)

// ReportAudienceEntry is one recipient of a report and their read state.
type ReportAudienceEntry struct {
	PlayerID string
	ReadAt   time.Time // zero until the player opens the report
}

// Read marks this audience entry as read at now.
func (e *ReportAudienceEntry) Read(now time.Time) { e.ReadAt = now }

// IsRead reports whether the audience entry has been opened.
func (e ReportAudienceEntry) IsRead() bool { return !e.ReadAt.IsZero() }

// Report is a persisted domain event addressed to one or more
// players, each tracked with their own read state (spec §3).
type Report struct {
	ID        string
	Kind      ReportKind
	Data      string // JSON-encoded payload specific to Kind
	Audience  []ReportAudienceEntry
	CreatedAt time.Time
}

// NewReport creates a report of kind carrying data, addressed to
// every player in audience.
func NewReport(kind ReportKind, data string, audience []string, now time.Time) *Report {
	entries := make([]ReportAudienceEntry, len(audience))
	for i, p := range audience {
		entries[i] = ReportAudienceEntry{PlayerID: p}
	}
	return &Report{
		ID:        id.New(),
		Kind:      kind,
		Data:      data,
		Audience:  entries,
		CreatedAt: now,
	}
}

// MarkReadBy marks the audience entry for playerID as read at now, a
// no-op if playerID is not in the audience.
func (r *Report) MarkReadBy(playerID string, now time.Time) {
	for i := range r.Audience {
		if r.Audience[i].PlayerID == playerID {
			r.Audience[i].Read(now)
			return
		}
	}
}
