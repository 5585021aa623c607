// Package catalog stores reusable processes and materials in SQLite so that
// tasks can reference them by processId and materialId.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/errors"
)

const sqliteDialect = "sqlite3"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals
var gooseMu sync.Mutex

// Store is a SQLite-backed catalog
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the timestamp source for created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens a SQLite database, sets recommended pragmas, and validates connectivity.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("open sqlite database", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, errors.Storage("set sqlite pragmas", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Storage("ping sqlite database", err)
	}

	s := &Store{
		db:     db,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate runs all pending embedded migrations
func (s *Store) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{s.logger.Sugar()})

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return errors.Storage("set goose dialect", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return errors.Storage("run goose up migrations", err)
	}

	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return errors.Storage("read schema version", err)
	}
	s.logger.Info("catalog migrated", zap.Int64("version", version))
	return nil
}

// PutProcess inserts or replaces a process and returns its id. A missing
// id is assigned. The process must price cleanly under default settings.
func (s *Store) PutProcess(ctx context.Context, p *pricing.Process) (string, error) {
	if _, err := pricing.CalculateProcessCost(p, nil); err != nil {
		return "", err
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = uuid.NewString()
	}
	materials, err := json.Marshal(nonNilMaterials(p.Materials))
	if err != nil {
		return "", errors.Internal("encode process materials", err)
	}

	now := s.now().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO processes (id, name, labor_hours, skill_level, metal_type, metal_complexity_multiplier, materials, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			labor_hours = excluded.labor_hours,
			skill_level = excluded.skill_level,
			metal_type = excluded.metal_type,
			metal_complexity_multiplier = excluded.metal_complexity_multiplier,
			materials = excluded.materials,
			updated_at = excluded.updated_at`,
		id, p.Name, p.LaborHours, p.SkillLevel, p.MetalType, nullFloat(p.MetalComplexityMultiplier), string(materials), now, now)
	if err != nil {
		return "", errors.Storage("save process", err).WithContext("processId", id)
	}

	s.logger.Debug("process saved", zap.String("processId", id))
	return id, nil
}

// PutMaterial inserts or replaces a material and returns its id
func (s *Store) PutMaterial(ctx context.Context, m *pricing.Material) (string, error) {
	if _, err := pricing.CalculateMaterialCost(m, 1, nil); err != nil {
		return "", err
	}

	id := strings.TrimSpace(m.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO materials (id, name, cost_source, cost_amount, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cost_source = excluded.cost_source,
			cost_amount = excluded.cost_amount,
			quantity = excluded.quantity,
			updated_at = excluded.updated_at`,
		id, m.Name, string(m.Cost.Source), m.Cost.Amount, nullFloat(m.Quantity), now, now)
	if err != nil {
		return "", errors.Storage("save material", err).WithContext("materialId", id)
	}

	s.logger.Debug("material saved", zap.String("materialId", id))
	return id, nil
}

// GetProcess loads one process
func (s *Store) GetProcess(ctx context.Context, id string) (*pricing.Process, error) {
	row := s.db.QueryRowContext(ctx, processSelect+` WHERE id = ?`, id)
	p, err := scanProcess(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("process", id)
	}
	return p, err
}

// GetMaterial loads one material
func (s *Store) GetMaterial(ctx context.Context, id string) (*pricing.Material, error) {
	row := s.db.QueryRowContext(ctx, materialSelect+` WHERE id = ?`, id)
	m, err := scanMaterial(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("material", id)
	}
	return m, err
}

// ListProcesses returns every process ordered by name, then id
func (s *Store) ListProcesses(ctx context.Context) ([]pricing.Process, error) {
	rows, err := s.db.QueryContext(ctx, processSelect+` ORDER BY name, id`)
	if err != nil {
		return nil, errors.Storage("list processes", err)
	}
	defer rows.Close()

	var out []pricing.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("list processes", err)
	}
	return out, nil
}

// ListMaterials returns every material ordered by name, then id
func (s *Store) ListMaterials(ctx context.Context) ([]pricing.Material, error) {
	rows, err := s.db.QueryContext(ctx, materialSelect+` ORDER BY name, id`)
	if err != nil {
		return nil, errors.Storage("list materials", err)
	}
	defer rows.Close()

	var out []pricing.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("list materials", err)
	}
	return out, nil
}

// DeleteProcess removes a process
func (s *Store) DeleteProcess(ctx context.Context, id string) error {
	return s.delete(ctx, "processes", "process", id)
}

// DeleteMaterial removes a material
func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	return s.delete(ctx, "materials", "material", id)
}

func (s *Store) delete(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return errors.Storage("delete "+kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound(kind, id)
	}
	return nil
}

// Snapshot reads the whole catalog into an immutable in-memory lookup
// suitable for pricing tasks with references
func (s *Store) Snapshot(ctx context.Context) (*pricing.StaticCatalog, error) {
	processes, err := s.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	materials, err := s.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewStaticCatalog(processes, materials), nil
}

const processSelect = `SELECT id, name, labor_hours, skill_level, metal_type, metal_complexity_multiplier, materials FROM processes`

const materialSelect = `SELECT id, name, cost_source, cost_amount, quantity FROM materials`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProcess(row scanner) (*pricing.Process, error) {
	var (
		p         pricing.Process
		metal     sql.NullFloat64
		materials string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.LaborHours, &p.SkillLevel, &p.MetalType, &metal, &materials); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.Storage("scan process", err)
	}
	if metal.Valid {
		p.MetalComplexityMultiplier = pricing.Float64(metal.Float64)
	}
	if err := json.Unmarshal([]byte(materials), &p.Materials); err != nil {
		return nil, errors.Storage("decode process materials", err).WithContext("processId", p.ID)
	}
	if len(p.Materials) == 0 {
		p.Materials = nil
	}
	return &p, nil
}

func scanMaterial(row scanner) (*pricing.Material, error) {
	var (
		m        pricing.Material
		source   string
		quantity sql.NullFloat64
	)
	if err := row.Scan(&m.ID, &m.Name, &source, &m.Cost.Amount, &quantity); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.Storage("scan material", err)
	}
	m.Cost.Source = pricing.CostSource(source)
	if quantity.Valid {
		m.Quantity = pricing.Float64(quantity.Float64)
	}
	return &m, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nonNilMaterials(m []pricing.Material) []pricing.Material {
	if m == nil {
		return []pricing.Material{}
	}
	return m
}

type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(strings.TrimSuffix(format, "\n"), v...)
}
