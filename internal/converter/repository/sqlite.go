package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"floorplan/internal/converter/models"
)

// ErrNotFound is returned when no plan has the requested ID.
var ErrNotFound = errors.New("plan not found")

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the embedded migrations in name order.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Save stores a conversion result and returns its ID. A result without an
// ID gets a new one.
func (r *Repository) Save(ctx context.Context, result *models.Result) (string, error) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	names, err := json.Marshal(result.Statistics.RoomNames)
	if err != nil {
		return "", fmt.Errorf("marshal room names: %w", err)
	}

	stats := result.Statistics
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO plans (id, walls, doors, windows, rooms, room_names, perimeter, result)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, result.ID, stats.Walls, stats.Doors, stats.Windows, stats.Rooms, string(names), stats.Perimeter, string(data))
	if err != nil {
		return "", fmt.Errorf("insert plan: %w", err)
	}
	return result.ID, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Result, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT result
        FROM plans
        WHERE id = ?
    `, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var result models.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", id, err)
	}
	return &result, nil
}

// List returns the newest plans first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.PlanSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, walls, doors, windows, rooms, room_names, perimeter, created_at
        FROM plans
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []models.PlanSummary{}
	for rows.Next() {
		var p models.PlanSummary
		var names string
		if err := rows.Scan(&p.ID, &p.Walls, &p.Doors, &p.Windows, &p.Rooms, &names, &p.Perimeter, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(names), &p.RoomNames); err != nil {
			return nil, fmt.Errorf("decode room names of %s: %w", p.ID, err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	files, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	for _, f := range files {
		data, err := migrations.ReadFile("migrations/" + f.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", f.Name(), err)
		}
	}
	return nil
}

// OpenSQLite opens the database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
