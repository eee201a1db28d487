package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Entity kinds, one logical collection per kind.
const (
	KindCardsStatic       = "cards-static"
	KindCardStats         = "card-stats"
	KindCollectionEntries = "collection-entries"
	KindCurrencies        = "currencies"
)

// CurrenciesKey is the singleton document key for wallet balances.
const CurrenciesKey = "wallet"

// Snapshot is one immutable, timestamped version of an entity.
type Snapshot struct {
	ID         int64
	Kind       string
	Key        string
	CapturedAt time.Time
	Payload    []byte
}

// SnapshotStore is an append-only store of entity snapshots. Past
// snapshots are never mutated; each ingestion appends new versions, and
// "latest" is resolved by capture time with insertion order breaking ties.
type SnapshotStore struct {
	db *DB

	// Writes for the same (kind, key) must not interleave. SQLite already
	// serializes writers; the keyed locks keep the dedup check and the
	// insert of one Put atomic with respect to a concurrent Put for the
	// same entity.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSnapshotStore creates a snapshot store on top of an open database.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *SnapshotStore) keyLock(kind, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := kind + "\x00" + key
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func payloadSHA(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Put appends a new snapshot. It never overwrites history: an identical
// (kind, key, capturedAt, payload) tuple already stored is detected and
// skipped, anything else becomes a new row. Returns whether a row was
// actually inserted.
func (s *SnapshotStore) Put(ctx context.Context, kind, key string, capturedAt time.Time, payload []byte) (bool, error) {
	lock := s.keyLock(kind, key)
	lock.Lock()
	defer lock.Unlock()

	query := `
		INSERT OR IGNORE INTO snapshots (kind, key, captured_at, payload, payload_sha)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.Conn().ExecContext(ctx, query,
		kind, key, capturedAt.UTC(), string(payload), payloadSHA(payload),
	)
	if err != nil {
		return false, unavailable("put", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Latest returns the most recent payload for the key, or ok=false when no
// snapshot exists for it.
func (s *SnapshotStore) Latest(ctx context.Context, kind, key string) ([]byte, bool, error) {
	query := `
		SELECT payload FROM snapshots
		WHERE kind = ? AND key = ?
		ORDER BY captured_at DESC, id DESC
		LIMIT 1
	`

	var payload string
	err := s.db.Conn().QueryRowContext(ctx, query, kind, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("latest", err)
	}
	return []byte(payload), true, nil
}

// AllLatest returns the most recent payload for every key of the kind.
// An empty map means no snapshots of that kind exist; a store failure is
// an error, never an empty result.
func (s *SnapshotStore) AllLatest(ctx context.Context, kind string) (map[string][]byte, error) {
	query := `
		SELECT key, payload FROM (
			SELECT key, payload,
			       ROW_NUMBER() OVER (PARTITION BY key ORDER BY captured_at DESC, id DESC) AS rn
			FROM snapshots
			WHERE kind = ?
		)
		WHERE rn = 1
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, kind)
	if err != nil {
		return nil, unavailable("all-latest", err)
	}
	defer func() { _ = rows.Close() }()

	latest := make(map[string][]byte)
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		latest[key] = []byte(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("all-latest", err)
	}
	return latest, nil
}

// History returns every snapshot for the key, newest first, for
// historical comparison.
func (s *SnapshotStore) History(ctx context.Context, kind, key string) ([]*Snapshot, error) {
	query := `
		SELECT id, kind, key, captured_at, payload FROM snapshots
		WHERE kind = ? AND key = ?
		ORDER BY captured_at DESC, id DESC
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, kind, key)
	if err != nil {
		return nil, unavailable("history", err)
	}
	defer func() { _ = rows.Close() }()

	var history []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		var payload string
		if err := rows.Scan(&snap.ID, &snap.Kind, &snap.Key, &snap.CapturedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Payload = []byte(payload)
		history = append(history, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("history", err)
	}
	return history, nil
}

// Count returns the number of stored snapshots for a kind.
func (s *SnapshotStore) Count(ctx context.Context, kind string) (int, error) {
	var n int
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshots WHERE kind = ?`, kind).Scan(&n)
	if err != nil {
		return 0, unavailable("count", err)
	}
	return n, nil
}
