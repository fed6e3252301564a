// Package sqlite implements the storage.Service contract on top of the
// embedded single-file SQLite store. Identity comes from the store's
// AUTOINCREMENT column (strictly increasing, never reused) and every list
// order is delegated to ORDER BY.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/logging"
	"github.com/lfcamara/fundef-registry/internal/storage"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const dbFileName = "fundef.db"

// Backend is the SQLite-backed storage adapter.
type Backend struct {
	db     *sql.DB
	logger logging.Logger
}

var _ storage.Service = (*Backend)(nil)

// New wraps an already-open database handle. Used by Open and by tests
// running against ":memory:".
func New(db *sql.DB, logger logging.Logger) *Backend {
	return &Backend{db: db, logger: logger}
}

// DefaultDataDir is the fallback storage location: a "dados" directory
// next to the running executable.
func DefaultDataDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "dados"
	}
	return filepath.Join(filepath.Dir(exe), "dados")
}

// Open opens (creating if necessary) the database file under dataDir.
// Directory creation failures are swallowed: on a read-only filesystem the
// store's own open call is allowed to fail on its own terms.
func Open(dataDir string, logger logging.Logger) (*Backend, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.Warn(context.Background(), "could not create data dir", "dir", dataDir, "error", err)
	}

	path := filepath.Join(dataDir, dbFileName)
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w: %v", common.ErrBackendUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w: %v", common.ErrBackendUnavailable, err)
	}

	logger.Info(context.Background(), "sqlite store opened", "path", path)
	return New(db, logger), nil
}

// Init creates the two tables when missing. Idempotent; called on every
// process start.
func (b *Backend) Init(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS professores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			cpf TEXT NOT NULL UNIQUE,
			rg TEXT NOT NULL,
			matricula TEXT NOT NULL,
			escola TEXT NOT NULL,
			cargo TEXT NOT NULL,
			situacao_servidor TEXT NOT NULL,
			data_admissao TEXT NOT NULL,
			telefone TEXT NOT NULL,
			email TEXT NOT NULL,
			endereco TEXT NOT NULL,
			banco TEXT NOT NULL,
			agencia TEXT NOT NULL,
			conta TEXT NOT NULL,
			tipo_conta TEXT NOT NULL,
			data_inicio_fundef TEXT NOT NULL,
			data_fim_fundef TEXT NOT NULL,
			carga_horaria INTEGER NOT NULL,
			quantidade_meses_trabalhados INTEGER NOT NULL,
			aceitou_declaracao INTEGER NOT NULL,
			criado_em TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create professores table: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rascunhos_professores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome_referencia TEXT NOT NULL DEFAULT '',
			cpf TEXT NOT NULL DEFAULT '',
			dados_json TEXT NOT NULL,
			criado_em TEXT NOT NULL,
			atualizado_em TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create rascunhos table: %w", err)
	}

	return nil
}

// Close closes the database handle.
func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
