// Package store persists species records in SQLite and answers the ranking,
// percentile and similarity queries served by the API and CLI.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/typedex/dexgraph/models"
)

// ErrNotFound reports that no stored species matches the lookup.
var ErrNotFound = errors.New("species not found")

// ErrUnknownStat reports a stat name outside the six tracked columns.
var ErrUnknownStat = errors.New("unknown stat")

// statColumns whitelists the stat identifiers that may be interpolated into
// ORDER BY and similarity expressions. Everything else is parameterized.
var statColumns = map[string]bool{
	"hp":         true,
	"attack":     true,
	"defense":    true,
	"sp_attack":  true,
	"sp_defense": true,
	"speed":      true,
}

const pokemonColumns = `id, name, type1, type2, hp, attack, defense, sp_attack, sp_defense, speed, capture_rate, height, weight, sprite_url, fetched_at`

// Store wraps a SQLite database holding one row per species.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a read-write store at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing store without write access.
func OpenReadOnly(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS pokemon (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			type1 TEXT NOT NULL,
			type2 TEXT,
			hp INTEGER NOT NULL,
			attack INTEGER NOT NULL,
			defense INTEGER NOT NULL,
			sp_attack INTEGER NOT NULL,
			sp_defense INTEGER NOT NULL,
			speed INTEGER NOT NULL,
			capture_rate INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			weight INTEGER NOT NULL DEFAULT 0,
			sprite_url TEXT,
			fetched_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create pokemon table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_pokemon_name ON pokemon(name)`,
		`CREATE INDEX IF NOT EXISTS idx_pokemon_types ON pokemon(type1, type2)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// UpsertPokemon inserts the species or refreshes the existing row.
func (s *Store) UpsertPokemon(ctx context.Context, p models.Pokemon) error {
	if len(p.Types) == 0 {
		return fmt.Errorf("species %d has no categories", p.ID)
	}
	type2 := sql.NullString{}
	if len(p.Types) > 1 {
		type2 = sql.NullString{String: p.Types[1], Valid: true}
	}
	sprite := sql.NullString{String: p.SpriteURL, Valid: p.SpriteURL != ""}

	query := `
		INSERT INTO pokemon (` + pokemonColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type1 = excluded.type1,
			type2 = excluded.type2,
			hp = excluded.hp,
			attack = excluded.attack,
			defense = excluded.defense,
			sp_attack = excluded.sp_attack,
			sp_defense = excluded.sp_defense,
			speed = excluded.speed,
			capture_rate = excluded.capture_rate,
			height = excluded.height,
			weight = excluded.weight,
			sprite_url = excluded.sprite_url,
			fetched_at = excluded.fetched_at
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Types[0], type2,
		p.Stats.HP, p.Stats.Attack, p.Stats.Defense,
		p.Stats.SpAttack, p.Stats.SpDefense, p.Stats.Speed,
		p.CaptureRate, p.Height, p.Weight, sprite, p.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert species %d: %w", p.ID, err)
	}
	return nil
}

// Pokemon retrieves a single species by id.
func (s *Store) Pokemon(ctx context.Context, id int) (models.Pokemon, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pokemonColumns+` FROM pokemon WHERE id = ?`, id)
	p, err := scanPokemon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Pokemon{}, fmt.Errorf("species %d: %w", id, ErrNotFound)
	}
	return p, err
}

// PokemonByName retrieves a single species by name, case-insensitively.
func (s *Store) PokemonByName(ctx context.Context, name string) (models.Pokemon, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pokemonColumns+` FROM pokemon WHERE name = ? COLLATE NOCASE`, name)
	p, err := scanPokemon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Pokemon{}, fmt.Errorf("species %q: %w", name, ErrNotFound)
	}
	return p, err
}

// Count returns the number of stored species.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pokemon`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count species: %w", err)
	}
	return n, nil
}

// RankByStat returns up to limit species ordered by the named stat descending,
// ties broken by id. A non-positive limit returns every row.
func (s *Store) RankByStat(ctx context.Context, stat string, limit int) ([]models.RankedPokemon, error) {
	col, err := statColumn(stat)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	query := fmt.Sprintf(`SELECT %s FROM pokemon ORDER BY %s DESC, id ASC LIMIT ?`, pokemonColumns, col)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("rank by %s: %w", stat, err)
	}
	defer rows.Close()

	var ranked []models.RankedPokemon
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, err
		}
		value, _ := p.Stats.Get(stat)
		ranked = append(ranked, models.RankedPokemon{
			Pokemon: p,
			Rank:    len(ranked) + 1,
			Value:   value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ranking: %w", err)
	}
	return ranked, nil
}

// StatPercentile returns the share of stored species whose named stat is
// strictly below the target's, in percent.
func (s *Store) StatPercentile(ctx context.Context, id int, stat string) (float64, error) {
	col, err := statColumn(stat)
	if err != nil {
		return 0, err
	}
	target, err := s.Pokemon(ctx, id)
	if err != nil {
		return 0, err
	}
	value, err := target.Stats.Get(stat)
	if err != nil {
		return 0, err
	}

	var below, total int
	query := fmt.Sprintf(`SELECT (SELECT COUNT(*) FROM pokemon WHERE %s < ?), COUNT(*) FROM pokemon`, col)
	if err := s.db.QueryRowContext(ctx, query, value).Scan(&below, &total); err != nil {
		return 0, fmt.Errorf("percentile for %s: %w", stat, err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(below) / float64(total) * 100, nil
}

// MostSimilar returns up to limit species nearest to the target by the sum of
// absolute per-stat differences, ascending, excluding the target itself.
func (s *Store) MostSimilar(ctx context.Context, id int, limit int) ([]models.SimilarPokemon, error) {
	target, err := s.Pokemon(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT ` + pokemonColumns + `,
			ABS(hp - ?) + ABS(attack - ?) + ABS(defense - ?) +
			ABS(sp_attack - ?) + ABS(sp_defense - ?) + ABS(speed - ?) AS distance
		FROM pokemon
		WHERE id != ?
		ORDER BY distance ASC, id ASC
		LIMIT ?
	`
	t := target.Stats
	rows, err := s.db.QueryContext(ctx, query,
		t.HP, t.Attack, t.Defense, t.SpAttack, t.SpDefense, t.Speed, id, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity for %d: %w", id, err)
	}
	defer rows.Close()

	var similar []models.SimilarPokemon
	for rows.Next() {
		var sp models.SimilarPokemon
		var type2, sprite sql.NullString
		var fetched sql.NullTime
		var type1 string
		err := rows.Scan(
			&sp.ID, &sp.Name, &type1, &type2,
			&sp.Stats.HP, &sp.Stats.Attack, &sp.Stats.Defense,
			&sp.Stats.SpAttack, &sp.Stats.SpDefense, &sp.Stats.Speed,
			&sp.CaptureRate, &sp.Height, &sp.Weight, &sprite, &fetched,
			&sp.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan neighbor: %w", err)
		}
		sp.Types = typesOf(type1, type2)
		if sprite.Valid {
			sp.SpriteURL = sprite.String
		}
		if fetched.Valid {
			sp.FetchedAt = fetched.Time
		}
		similar = append(similar, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating neighbors: %w", err)
	}
	return similar, nil
}

// ByIDs bulk-fetches species, returning rows in the order the ids were given.
// Ids with no stored row are skipped.
func (s *Store) ByIDs(ctx context.Context, ids []int) ([]models.Pokemon, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM pokemon WHERE id IN (%s)`, pokemonColumns, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bulk fetch: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]models.Pokemon, len(ids))
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bulk fetch: %w", err)
	}

	out := make([]models.Pokemon, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListByType returns every species carrying the category in either slot,
// ordered by id.
func (s *Store) ListByType(ctx context.Context, category string) ([]models.Pokemon, error) {
	query := `SELECT ` + pokemonColumns + ` FROM pokemon WHERE type1 = ? OR type2 = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, category, category)
	if err != nil {
		return nil, fmt.Errorf("list by category %q: %w", category, err)
	}
	defer rows.Close()

	var out []models.Pokemon
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster: %w", err)
	}
	return out, nil
}

// StatValues returns the named stat for every stored species, ordered by id.
func (s *Store) StatValues(ctx context.Context, stat string) ([]float64, error) {
	col, err := statColumn(stat)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM pokemon ORDER BY id`, col))
	if err != nil {
		return nil, fmt.Errorf("stat values for %s: %w", stat, err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan stat value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stat values: %w", err)
	}
	return values, nil
}

func statColumn(stat string) (string, error) {
	if !statColumns[stat] {
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}
	return stat, nil
}

func typesOf(type1 string, type2 sql.NullString) []string {
	types := []string{type1}
	if type2.Valid && type2.String != "" {
		types = append(types, type2.String)
	}
	return types
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPokemon(r rowScanner) (models.Pokemon, error) {
	var p models.Pokemon
	var type1 string
	var type2, sprite sql.NullString
	var fetched sql.NullTime

	err := r.Scan(
		&p.ID, &p.Name, &type1, &type2,
		&p.Stats.HP, &p.Stats.Attack, &p.Stats.Defense,
		&p.Stats.SpAttack, &p.Stats.SpDefense, &p.Stats.Speed,
		&p.CaptureRate, &p.Height, &p.Weight, &sprite, &fetched,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Pokemon{}, err
		}
		return models.Pokemon{}, fmt.Errorf("scan species: %w", err)
	}

	p.Types = typesOf(type1, type2)
	if sprite.Valid {
		p.SpriteURL = sprite.String
	}
	if fetched.Valid {
		p.FetchedAt = fetched.Time
	}
	return p, nil
}
