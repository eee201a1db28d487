// Package tracker wires the ingestion pipeline together: locate the
// account-state file, parse it, normalize the entities, and append them to
// the snapshot store. It also exposes the two report queries the CLI
// renders.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snaptrk/snap-companion/internal/events"
	"github.com/snaptrk/snap-companion/internal/snap"
	"github.com/snaptrk/snap-companion/internal/snap/cards"
	"github.com/snaptrk/snap-companion/internal/snap/derive"
	"github.com/snaptrk/snap-companion/internal/snap/normalize"
	"github.com/snaptrk/snap-companion/internal/snap/statefile"
	"github.com/snaptrk/snap-companion/internal/storage"
)

// ErrNoData means no ingestion has populated the store yet. It is a
// distinct condition from a storage failure and renders as "no data yet",
// never as an empty report.
var ErrNoData = errors.New("no snapshots ingested yet")

// cardsDataVersion stamps the embedded card table's snapshots. Using a
// fixed time keeps re-seeding across restarts idempotent: the tuple is
// identical, so the store ignores it.
var cardsDataVersion = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

// Config holds the tracker's collaborators and source location.
type Config struct {
	// StateRoot is the game's state root directory (holds the per-profile
	// directories).
	StateRoot string

	// Profile names the profile directory; empty means auto-detect, which
	// fails when several profiles exist.
	Profile string

	Store      *storage.SnapshotStore
	Cards      *cards.Table
	Dispatcher *events.Dispatcher
	Logger     zerolog.Logger
}

// Tracker is the explicit pipeline context: storage handle plus static
// reference tables, created at process start and passed into every
// operation. There is no package-level state.
type Tracker struct {
	stateRoot  string
	profile    string
	store      *storage.SnapshotStore
	table      *cards.Table
	dispatcher *events.Dispatcher
	log        zerolog.Logger
}

// New creates a tracker.
func New(cfg Config) (*Tracker, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg.Cards == nil {
		return nil, fmt.Errorf("card table cannot be nil")
	}
	if cfg.StateRoot == "" {
		return nil, fmt.Errorf("state root cannot be empty")
	}
	return &Tracker{
		stateRoot:  cfg.StateRoot,
		profile:    cfg.Profile,
		store:      cfg.Store,
		table:      cfg.Cards,
		dispatcher: cfg.Dispatcher,
		log:        cfg.Logger.With().Str("component", "tracker").Logger(),
	}, nil
}

// IngestResult summarizes one ingestion cycle.
type IngestResult struct {
	CycleID    string
	StatePath  string
	CapturedAt time.Time
	Inserted   int
	Stats      int
	Entries    int
}

// SeedCards writes the static card reference table into the store. The
// fixed capture time makes the operation idempotent across restarts.
func (t *Tracker) SeedCards(ctx context.Context) error {
	for _, card := range t.table.All() {
		payload, err := json.Marshal(card)
		if err != nil {
			return fmt.Errorf("marshal card %s: %w", card.Code, err)
		}
		if _, err := t.store.Put(ctx, storage.KindCardsStatic, card.Code, cardsDataVersion, payload); err != nil {
			return fmt.Errorf("seed card %s: %w", card.Code, err)
		}
	}
	return nil
}

// Ingest runs one full pipeline cycle. Locator, parser, and normalizer
// failures abort this cycle only; the previous latest snapshot stays
// authoritative until a later cycle succeeds.
func (t *Tracker) Ingest(ctx context.Context) (*IngestResult, error) {
	cycleID := uuid.NewString()
	log := t.log.With().Str("cycle_id", cycleID).Logger()

	path, err := statefile.Locate(t.stateRoot, t.profile)
	if err != nil {
		t.notifyFailure(cycleID, "", err)
		return nil, fmt.Errorf("locate state file: %w", err)
	}
	log.Debug().Str("path", path).Msg("located state file")

	info, err := os.Stat(path)
	if err != nil {
		t.notifyFailure(cycleID, path, err)
		return nil, fmt.Errorf("stat state file: %w", err)
	}
	// The source file's own modification time orders its snapshots. It is
	// stable across re-ingestions of an unchanged file, so a repeated
	// cycle dedups to a no-op instead of duplicating history.
	capturedAt := info.ModTime().UTC()

	tree, err := statefile.ParseFile(path)
	if err != nil {
		t.notifyFailure(cycleID, path, err)
		return nil, err
	}

	ents, err := normalize.Normalize(tree, t.table)
	if err != nil {
		t.notifyFailure(cycleID, path, err)
		return nil, err
	}

	result := &IngestResult{
		CycleID:    cycleID,
		StatePath:  path,
		CapturedAt: capturedAt,
		Stats:      len(ents.Stats),
		Entries:    len(ents.Entries),
	}

	inserted, err := t.persist(ctx, capturedAt, ents)
	if err != nil {
		t.notifyFailure(cycleID, path, err)
		return nil, err
	}
	result.Inserted = inserted

	eventType := events.TypeIngestCompleted
	if inserted == 0 {
		eventType = events.TypeIngestSkipped
	}
	t.notify(eventType, events.IngestOutcome{
		CycleID:    cycleID,
		StatePath:  path,
		CapturedAt: capturedAt,
		Inserted:   inserted,
	})
	log.Info().
		Int("inserted", inserted).
		Int("stats", result.Stats).
		Int("entries", result.Entries).
		Time("captured_at", capturedAt).
		Msg("ingestion cycle finished")
	return result, nil
}

// persist appends every normalized entity as a snapshot. Keys are written
// in sorted order so concurrent cycles acquire per-key locks in a
// consistent order.
func (t *Tracker) persist(ctx context.Context, capturedAt time.Time, ents *snap.Entities) (int, error) {
	inserted := 0

	statCodes := sortedKeys(ents.Stats)
	for _, code := range statCodes {
		n, err := t.putJSON(ctx, storage.KindCardStats, code, capturedAt, ents.Stats[code])
		if err != nil {
			return inserted, err
		}
		inserted += n
	}

	entryCodes := sortedKeys(ents.Entries)
	for _, code := range entryCodes {
		n, err := t.putJSON(ctx, storage.KindCollectionEntries, code, capturedAt, ents.Entries[code])
		if err != nil {
			return inserted, err
		}
		inserted += n
	}

	n, err := t.putJSON(ctx, storage.KindCurrencies, storage.CurrenciesKey, capturedAt, ents.Currencies)
	if err != nil {
		return inserted, err
	}
	return inserted + n, nil
}

func (t *Tracker) putJSON(ctx context.Context, kind, key string, capturedAt time.Time, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal %s/%s: %w", kind, key, err)
	}
	ok, err := t.store.Put(ctx, kind, key, capturedAt, payload)
	if err != nil {
		return 0, fmt.Errorf("store %s/%s: %w", kind, key, err)
	}
	if ok {
		return 1, nil
	}
	return 0, nil
}

// PerformanceRanking returns owned cards ordered by win rate. Storage
// failures propagate; an untouched store is ErrNoData.
func (t *Tracker) PerformanceRanking(ctx context.Context) ([]derive.RankedCard, error) {
	entries, err := t.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	statsRaw, err := t.store.AllLatest(ctx, storage.KindCardStats)
	if err != nil {
		return nil, fmt.Errorf("load card stats: %w", err)
	}
	stats := make(map[string]snap.CardStat, len(statsRaw))
	for code, payload := range statsRaw {
		var s snap.CardStat
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode card stat %s: %w", code, err)
		}
		stats[code] = s
	}

	return derive.PerformanceRanking(entries, stats, t.table), nil
}

// UpgradeCandidates returns owned cards whose next upgrade both wallet
// balances cover, cheapest first.
func (t *Tracker) UpgradeCandidates(ctx context.Context) ([]derive.UpgradeCandidate, error) {
	entries, err := t.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	var balances snap.Currencies
	payload, ok, err := t.store.Latest(ctx, storage.KindCurrencies, storage.CurrenciesKey)
	if err != nil {
		return nil, fmt.Errorf("load currencies: %w", err)
	}
	if ok {
		if err := json.Unmarshal(payload, &balances); err != nil {
			return nil, fmt.Errorf("decode currencies: %w", err)
		}
	}

	return derive.UpgradeCandidates(entries, balances, t.table), nil
}

// Currencies returns the latest wallet balances.
func (t *Tracker) Currencies(ctx context.Context) (snap.Currencies, error) {
	payload, ok, err := t.store.Latest(ctx, storage.KindCurrencies, storage.CurrenciesKey)
	if err != nil {
		return snap.Currencies{}, fmt.Errorf("load currencies: %w", err)
	}
	if !ok {
		return snap.Currencies{}, ErrNoData
	}
	var balances snap.Currencies
	if err := json.Unmarshal(payload, &balances); err != nil {
		return snap.Currencies{}, fmt.Errorf("decode currencies: %w", err)
	}
	return balances, nil
}

func (t *Tracker) loadEntries(ctx context.Context) (map[string]snap.CollectionEntry, error) {
	raw, err := t.store.AllLatest(ctx, storage.KindCollectionEntries)
	if err != nil {
		return nil, fmt.Errorf("load collection entries: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoData
	}
	entries := make(map[string]snap.CollectionEntry, len(raw))
	for code, payload := range raw {
		var e snap.CollectionEntry
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode collection entry %s: %w", code, err)
		}
		entries[code] = e
	}
	return entries, nil
}

func (t *Tracker) notify(eventType string, outcome events.IngestOutcome) {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Dispatch(events.Event{Type: eventType, Outcome: outcome})
}

func (t *Tracker) notifyFailure(cycleID, path string, err error) {
	t.log.Error().Str("cycle_id", cycleID).Str("path", path).Err(err).Msg("ingestion cycle aborted")
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Dispatch(events.Event{
		Type: events.TypeIngestFailed,
		Outcome: events.IngestOutcome{
			CycleID:   cycleID,
			StatePath: path,
			Err:       err,
		},
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
