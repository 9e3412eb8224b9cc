package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var (
	// ErrUninitialized is returned by every operation issued before Init.
	ErrUninitialized = apperrors.NewDomainError(apperrors.CodeUninitialized, "store not initialized", http.StatusServiceUnavailable, nil)
	// ErrClosed is returned by operations issued after Close.
	ErrClosed = apperrors.NewDomainError(apperrors.CodeUninitialized, "store closed", http.StatusServiceUnavailable, nil)
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("store already initialized")
)

type storeState int

const (
	stateNew storeState = iota
	stateReady
	stateClosed
)

// PasswordEncoder transforms a plaintext password before it is stored.
type PasswordEncoder func(plain string) (string, error)

// Option customizes a Store.
type Option func(*Store)

// WithPasswordEncoder sets the encoder applied to seeded passwords.
func WithPasswordEncoder(enc PasswordEncoder) Option {
	return func(s *Store) {
		if enc != nil {
			s.encode = enc
		}
	}
}

// Store owns the relational database handle. It must be initialized once
// with Init before use and released with Close.
type Store struct {
	cfg    config.Config
	logger *zap.Logger
	encode PasswordEncoder

	mu       sync.RWMutex
	state    storeState
	db       *gorm.DB
	pg       *Postgres
	location string
	created  bool
}

// NewStore returns an unopened store.
func NewStore(cfg config.Config, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		cfg:    cfg,
		logger: logger,
		encode: func(plain string) (string, error) { return plain, nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init opens the backing database. When the storage location does not
// exist yet, the schema is created and the seed administrator inserted;
// an existing location is used as is.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}

	seedUsers, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("load seed users: %w", err)
	}

	db, fresh, err := s.open(ctx)
	if err != nil {
		return err
	}

	if fresh {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := createSchema(tx); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			if err := s.seed(tx, seedUsers); err != nil {
				return fmt.Errorf("seed store: %w", err)
			}
			return nil
		})
		if err != nil {
			s.discard(db)
			return err
		}
	}

	s.db = db
	s.created = fresh
	s.state = stateReady
	s.logger.Info("store ready",
		zap.String("driver", s.driver()),
		zap.String("location", s.location),
		zap.Bool("created", fresh))
	return nil
}

// DB returns a context-bound handle, or ErrUninitialized / ErrClosed.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	if s == nil {
		return nil, ErrUninitialized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case stateNew:
		return nil, ErrUninitialized
	case stateClosed:
		return nil, ErrClosed
	}
	return s.db.WithContext(ctx), nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database. Calling Close more than once is a no-op.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateReady {
		s.state = stateClosed
		return nil
	}
	s.state = stateClosed
	return s.release(s.db)
}

// Location describes where the data lives (file path or driver name).
func (s *Store) Location() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// Created reports whether Init created the schema on this run.
func (s *Store) Created() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created
}

func (s *Store) driver() string {
	if s.cfg.Store.Driver == "" {
		return DriverSQLite
	}
	return s.cfg.Store.Driver
}

func (s *Store) open(ctx context.Context) (*gorm.DB, bool, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(observability.StdLogger(s.logger, "gorm"), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	switch s.driver() {
	case DriverSQLite:
		return s.openSQLite(gormCfg)
	case DriverPostgres:
		return s.openPostgres(ctx, gormCfg)
	case DriverMySQL:
		return s.openMySQL(ctx, gormCfg)
	default:
		return nil, false, fmt.Errorf("unsupported store driver %q", s.cfg.Store.Driver)
	}
}

func (s *Store) openSQLite(gormCfg *gorm.Config) (*gorm.DB, bool, error) {
	dir := s.cfg.Store.DataDir
	if dir == "" {
		dir = "data"
	}
	name := s.cfg.Store.FileName
	if name == "" {
		name = "tickets.db"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dir, name)
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, fs.ErrNotExist)
	if statErr != nil && !fresh {
		return nil, false, fmt.Errorf("stat store file: %w", statErr)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), gormCfg)
	if err != nil {
		return nil, false, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, false, err
	}
	// a single connection lets SQLite serialize every statement
	sqlDB.SetMaxOpenConns(1)

	s.location = path
	return db, fresh, nil
}

func (s *Store) openPostgres(ctx context.Context, gormCfg *gorm.Config) (*gorm.DB, bool, error) {
	pg, err := NewPostgres(ctx, s.cfg.Postgres, s.logger)
	if err != nil {
		return nil, false, fmt.Errorf("connect postgres: %w", err)
	}

	db, err := gorm.Open(pg.Dialector(), gormCfg)
	if err != nil {
		pg.Close()
		return nil, false, fmt.Errorf("open postgres: %w", err)
	}

	s.pg = pg
	s.location = DriverPostgres
	return db, !db.Migrator().HasTable(&UserRow{}), nil
}

func (s *Store) openMySQL(ctx context.Context, gormCfg *gorm.Config) (*gorm.DB, bool, error) {
	if s.cfg.MySQL.DSN == "" {
		return nil, false, errors.New("MYSQL_DSN is required for the mysql driver")
	}
	db, err := gorm.Open(mysql.Open(s.cfg.MySQL.DSN), gormCfg)
	if err != nil {
		return nil, false, fmt.Errorf("open mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, false, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, false, fmt.Errorf("ping mysql: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.location = DriverMySQL
	return db, !db.Migrator().HasTable(&UserRow{}), nil
}

// discard releases a store whose first initialization failed. A SQLite file
// created by this attempt is removed so the next Init starts fresh.
func (s *Store) discard(db *gorm.DB) {
	_ = s.release(db)
	if s.driver() == DriverSQLite && s.location != "" {
		if err := os.Remove(s.location); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("remove partial store file", zap.String("path", s.location), zap.Error(err))
		}
	}
	s.location = ""
}

func (s *Store) release(db *gorm.DB) error {
	var closeErr error
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			closeErr = sqlDB.Close()
		}
	}
	if s.pg != nil {
		s.pg.Close()
		s.pg = nil
	}
	return closeErr
}
