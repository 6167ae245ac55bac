// Package jsondoc implements the storage contracts over a single JSON
// document on disk. It targets single-station deployments where running a
// database server is not worth the operational cost; the trade-off is
// coarse locking, which is acceptable at that scale.
package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/domain/catalogs/lenstype"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/documents/sale"
	"optipos/pkg/logger"
)

const backupKeep = 5

// database is the on-disk document: one key per table.
type database struct {
	Products   map[id.ID]*product.Product     `json:"products"`
	Warehouses map[id.ID]*warehouse.Warehouse `json:"warehouses"`
	Customers  map[id.ID]*customer.Customer   `json:"customers"`
	LensTypes  map[id.ID]*lenstype.LensType   `json:"lensTypes"`
	Sales      map[id.ID]*sale.Sale           `json:"sales"`
	SaleLines  map[id.ID][]sale.Line          `json:"saleLines"`
	SaleExams  map[id.ID][]sale.Examination   `json:"saleExams"`
	Movements  []entity.StockMovement         `json:"stockMovements"`
}

func newDatabase() *database {
	return &database{
		Products:   make(map[id.ID]*product.Product),
		Warehouses: make(map[id.ID]*warehouse.Warehouse),
		Customers:  make(map[id.ID]*customer.Customer),
		LensTypes:  make(map[id.ID]*lenstype.LensType),
		Sales:      make(map[id.ID]*sale.Sale),
		SaleLines:  make(map[id.ID][]sale.Line),
		SaleExams:  make(map[id.ID][]sale.Examination),
		Movements:  make([]entity.StockMovement, 0),
	}
}

// Config holds the document store settings.
type Config struct {
	// Path is the JSON document location; created on first open.
	Path string

	// BackupDir receives compressed rotating backups. Empty disables
	// backups.
	BackupDir string
}

// Store owns the document and serializes all access through one mutex.
type Store struct {
	cfg Config

	mu sync.Mutex
	db *database
}

// Open loads the document from disk, creating an empty one when the file
// does not exist, and takes a backup of the loaded state.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, apperror.NewValidation("document store path is required")
	}

	s := &Store{cfg: cfg, db: newDatabase()}

	raw, err := os.ReadFile(cfg.Path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, apperror.NewPersistence(fmt.Errorf("create data dir: %w", err))
		}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, apperror.NewPersistence(fmt.Errorf("read document: %w", err))
	default:
		if err := json.Unmarshal(raw, s.db); err != nil {
			return nil, apperror.NewPersistence(fmt.Errorf("decode document: %w", err))
		}
	}

	if err := s.backup(); err != nil {
		// A failed backup must not block startup.
		logger.Warn(ctx, "document store backup failed", "error", err)
	}

	logger.Info(ctx, "document store opened",
		"path", cfg.Path,
		"products", len(s.db.Products),
		"sales", len(s.db.Sales),
		"movements", len(s.db.Movements),
	)
	return s, nil
}

// view runs fn with read access to the document.
func (s *Store) view(ctx context.Context, fn func(db *database) error) error {
	if inTransaction(ctx) {
		return fn(s.db)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.db)
}

// update runs fn with write access and persists on success. Inside a
// transaction the deferred persist happens at commit instead.
func (s *Store) update(ctx context.Context, fn func(db *database) error) error {
	if inTransaction(ctx) {
		return fn(s.db)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.db); err != nil {
		return err
	}
	return s.persistLocked()
}

// snapshotLocked deep-copies the document for transaction rollback.
// Caller must hold mu.
func (s *Store) snapshotLocked() (*database, error) {
	raw, err := json.Marshal(s.db)
	if err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("snapshot document: %w", err))
	}
	snap := newDatabase()
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("restore check: %w", err))
	}
	return snap, nil
}

// persistLocked writes the document atomically: temp file then rename.
// Caller must hold mu.
func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("encode document: %w", err))
	}

	tmp := s.cfg.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return apperror.NewPersistence(fmt.Errorf("write document: %w", err))
	}
	if err := os.Rename(tmp, s.cfg.Path); err != nil {
		return apperror.NewPersistence(fmt.Errorf("replace document: %w", err))
	}
	return nil
}

// backup writes a zstd-compressed copy of the current document into the
// backup directory and prunes old copies beyond backupKeep.
func (s *Store) backup() error {
	if s.cfg.BackupDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	src, err := os.Open(s.cfg.Path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%s.json.zst",
		strippedBase(s.cfg.Path), time.Now().UTC().Format("20060102T150405"))
	dst, err := os.Create(filepath.Join(s.cfg.BackupDir, name))
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("init compressor: %w", err)
	}
	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		return fmt.Errorf("compress backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish backup: %w", err)
	}

	return s.pruneBackups()
}

func (s *Store) pruneBackups() error {
	pattern := filepath.Join(s.cfg.BackupDir, strippedBase(s.cfg.Path)+"-*.json.zst")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(matches) <= backupKeep {
		return nil
	}
	// Timestamped names sort oldest first.
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-backupKeep] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("prune backup: %w", err)
		}
	}
	return nil
}

func strippedBase(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
