// Package library persists the saved lesson collection in SQLite.
// Lessons live as a JSON array inside a key-value slot; every mutation
// rewrites the slot synchronously so a crash never loses an
// acknowledged save.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/hyperengineering/fastplan/internal/types"
)

// ErrNotFound is returned when no saved lesson has the requested id.
var ErrNotFound = errors.New("saved lesson not found")

const (
	slotSavedLessons  = "saved_lessons"
	slotLibrarySeeded = "library_seeded"

	// defaultLessonName names a save when the plan has no topic.
	defaultLessonName = "My FAST Lesson"
)

// Gateway is the SQLite-backed saved lesson library.
type Gateway struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if needed) the library database at dbPath,
// applies migrations, and seeds demo lessons on first use.
func Open(dbPath string) (*Gateway, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	g := &Gateway{db: db}
	if err := g.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed library: %w", err)
	}
	return g, nil
}

// enablePragmas sets SQLite pragmas for performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// seed installs the demo lessons exactly once. The seeded marker
// outlives the lessons themselves: a user who deletes every demo gets
// an empty library on the next start, not the demos again. A slot that
// is absent, empty, or unreadable counts as having no lessons.
func (g *Gateway) seed() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seeded, err := g.slotExists(slotLibrarySeeded)
	if err != nil {
		return err
	}
	if seeded {
		return nil
	}

	lessons, err := g.readLessons()
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		if err := g.writeLessons(types.DemoLessons()); err != nil {
			return err
		}
	}

	_, err = g.db.Exec(`INSERT INTO slots (name, value) VALUES (?, ?)`, slotLibrarySeeded, "1")
	return err
}

func (g *Gateway) slotExists(name string) (bool, error) {
	var n int
	err := g.db.QueryRow(`SELECT COUNT(*) FROM slots WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// readLessons loads the full lesson array. Caller holds the lock.
// A blob that fails to decode is treated the same as an absent slot so
// a corrupt database degrades to an empty collection instead of
// wedging every operation; the next write replaces it.
func (g *Gateway) readLessons() ([]types.SavedLesson, error) {
	var raw string
	err := g.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, slotSavedLessons).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []types.SavedLesson{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read saved lessons: %w", err)
	}

	var lessons []types.SavedLesson
	if err := json.Unmarshal([]byte(raw), &lessons); err != nil {
		slog.Warn("saved lessons slot is unreadable, treating as empty", "error", err)
		return []types.SavedLesson{}, nil
	}
	return lessons, nil
}

// writeLessons persists the full lesson array. Caller holds the lock.
func (g *Gateway) writeLessons(lessons []types.SavedLesson) error {
	raw, err := json.Marshal(lessons)
	if err != nil {
		return fmt.Errorf("encode saved lessons: %w", err)
	}

	_, err = g.db.Exec(`
		INSERT INTO slots (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, slotSavedLessons, string(raw))
	if err != nil {
		return fmt.Errorf("write saved lessons: %w", err)
	}
	return nil
}

// List returns every saved lesson, most recently saved first.
func (g *Gateway) List(ctx context.Context) ([]types.SavedLesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lessons, err := g.readLessons()
	if err != nil {
		return nil, err
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Timestamp > lessons[j].Timestamp
	})
	return lessons, nil
}

// Get returns one saved lesson by id.
func (g *Gateway) Get(ctx context.Context, id string) (types.SavedLesson, error) {
	if err := ctx.Err(); err != nil {
		return types.SavedLesson{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lessons, err := g.readLessons()
	if err != nil {
		return types.SavedLesson{}, err
	}
	for _, l := range lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return types.SavedLesson{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Save persists a lesson. An empty id creates a new entry with a fresh
// ULID; a known id updates that entry's plan in place, keeping its
// name. Either way the timestamp is bumped to now and the result is
// flushed before returning.
func (g *Gateway) Save(ctx context.Context, id, name string, plan types.LessonPlan) (types.SavedLesson, error) {
	if err := ctx.Err(); err != nil {
		return types.SavedLesson{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lessons, err := g.readLessons()
	if err != nil {
		return types.SavedLesson{}, err
	}

	now := time.Now().UnixMilli()

	if id != "" {
		for i, l := range lessons {
			if l.ID == id {
				lessons[i].Plan = plan.Clone()
				lessons[i].Timestamp = now
				if err := g.writeLessons(lessons); err != nil {
					return types.SavedLesson{}, err
				}
				return lessons[i], nil
			}
		}
		return types.SavedLesson{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if name == "" {
		name = plan.Meta.Topic
	}
	if name == "" {
		name = defaultLessonName
	}

	saved := types.SavedLesson{
		ID:        ulid.Make().String(),
		Name:      name,
		Timestamp: now,
		Plan:      plan.Clone(),
	}
	lessons = append(lessons, saved)
	if err := g.writeLessons(lessons); err != nil {
		return types.SavedLesson{}, err
	}
	return saved, nil
}

// Delete removes a lesson by id and flushes immediately. Deleting an
// absent id is a no-op.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lessons, err := g.readLessons()
	if err != nil {
		return err
	}

	kept := lessons[:0]
	for _, l := range lessons {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lessons) {
		return nil
	}
	return g.writeLessons(kept)
}
