// Package ingest parses species records out of local JSON and CSV exports so
// a store can be seeded without touching the remote API.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/typedex/dexgraph/models"
)

// Processor parses one file format into species records.
type Processor interface {
	Process(data []byte) ([]models.Pokemon, error)
	Name() string
}

// GetProcessor returns the processor for a format identifier or file
// extension.
func GetProcessor(format string) (Processor, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return &JSONProcessor{}, nil
	case "csv":
		return &CSVProcessor{}, nil
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}
}

// File reads path and parses it with the processor matching its extension.
func File(path string) ([]models.Pokemon, error) {
	p, err := GetProcessor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := p.Process(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// JSONProcessor reads a species export, either a bare array or an object
// wrapping it under a "pokemon" key.
type JSONProcessor struct{}

func (p *JSONProcessor) Name() string {
	return "json"
}

func (p *JSONProcessor) Process(data []byte) ([]models.Pokemon, error) {
	var records []models.Pokemon
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapped struct {
			Pokemon []models.Pokemon `json:"pokemon"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("invalid species JSON: %w", err)
		}
		records = wrapped.Pokemon
	}

	for i := range records {
		if err := normalize(&records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}

// CSVProcessor reads a species export with a header row. Column order is
// free, extra columns are ignored.
type CSVProcessor struct{}

func (p *CSVProcessor) Name() string {
	return "csv"
}

func (p *CSVProcessor) Process(data []byte) ([]models.Pokemon, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("CSV must contain an id column")
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("CSV must contain a name column")
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	intField := func(row []string, name string) int {
		n, _ := strconv.Atoi(field(row, name))
		return n
	}

	var records []models.Pokemon
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row %d: %w", line, err)
		}

		rec := models.Pokemon{
			Name: field(row, "name"),
			Stats: models.StatBlock{
				HP:        intField(row, "hp"),
				Attack:    intField(row, "attack"),
				Defense:   intField(row, "defense"),
				SpAttack:  intField(row, "sp_attack"),
				SpDefense: intField(row, "sp_defense"),
				Speed:     intField(row, "speed"),
			},
			CaptureRate: intField(row, "capture_rate"),
			Height:      intField(row, "height"),
			Weight:      intField(row, "weight"),
			SpriteURL:   field(row, "sprite_url"),
		}
		rec.ID, err = strconv.Atoi(field(row, "id"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid id %q", line, field(row, "id"))
		}
		if t1 := field(row, "type1"); t1 != "" {
			rec.Types = append(rec.Types, t1)
		}
		if t2 := field(row, "type2"); t2 != "" {
			rec.Types = append(rec.Types, t2)
		}

		if err := normalize(&rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalize rejects records a store upsert would choke on and stamps missing
// fetch times.
func normalize(p *models.Pokemon) error {
	if p.ID <= 0 {
		return fmt.Errorf("species id %d is not positive", p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("species %d has no name", p.ID)
	}
	if len(p.Types) == 0 || len(p.Types) > 2 {
		return fmt.Errorf("species %s carries %d categories, want 1 or 2", p.Name, len(p.Types))
	}
	if p.FetchedAt.IsZero() {
		p.FetchedAt = time.Now().UTC()
	}
	return nil
}
