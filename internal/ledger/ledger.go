package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Entry is one recorded summary run.
type Entry struct {
	bun.BaseModel `bun:"table:summaries"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Operation string    `bun:"operation"`
	Subject   string    `bun:"subject"`
	Provider  string    `bun:"provider"`
	Model     string    `bun:"model"`
	Summary   string    `bun:"summary"`
	CreatedAt time.Time `bun:"created_at"`
}

type Config struct {
	Path  string
	Max   int
	Debug bool
}

// Store keeps the summary history in a local sqlite database.
type Store struct {
	db  *bun.DB
	max int
}

// Open opens or creates the ledger database at cfg.Path.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if _, err := db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger table: %w", err)
	}
	return &Store{db: db, max: cfg.Max}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a summary run, stamping the entry time when unset, and
// trims the ledger to its configured cap.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return err
	}
	if s.max > 0 {
		return s.trim(ctx, s.max)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []Entry
	err := s.db.NewSelect().Model(&entries).
		OrderExpr("created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	return entries, err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*Entry)(nil)).Count(ctx)
}

// Prune keeps the newest keep entries, deletes the rest and reports how
// many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	before, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.trim(ctx, keep); err != nil {
		return 0, err
	}
	after, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	return before - after, nil
}

func (s *Store) trim(ctx context.Context, keep int) error {
	_, err := s.db.NewDelete().
		Model((*Entry)(nil)).
		Where("id IN (SELECT id FROM summaries ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?)", keep).
		Exec(ctx)
	return err
}
