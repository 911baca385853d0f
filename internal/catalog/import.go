package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CardImport is one row of the card CSV export.
type CardImport struct {
	Name            string
	SetCode         string
	CardNumber      string
	ClassName       string
	Power           string
	Toughness       string
	StartingLoyalty string
	StartingDefense string
	ManaValue       int
	Rarity          string
	Types           string
	Subtypes        string
	Supertypes      string
	ManaCosts       string
	Rules           string
	Black           bool
	Blue            bool
	Green           bool
	Red             bool
	White           bool
	FrameColor      string
	FrameStyle      string
	VariousArt      bool
}

// TypeLine joins supertypes, types and subtypes the way printed cards do.
func (c *CardImport) TypeLine() string {
	parts := make([]string, 0, 2)
	if c.Supertypes != "" {
		parts = append(parts, c.Supertypes)
	}
	if c.Types != "" {
		parts = append(parts, c.Types)
	}
	line := strings.Join(parts, " ")
	if c.Subtypes != "" {
		line += " — " + c.Subtypes
	}
	return line
}

const importColumns = 23

// ReadImportCSV parses the export. The first row is a header. Short rows
// are skipped and counted.
func ReadImportCSV(r io.Reader) (cards []*CardImport, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, 0, fmt.Errorf("CSV has no data rows")
	}

	cards = make([]*CardImport, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < importColumns {
			skipped++
			continue
		}
		card := &CardImport{
			Name:            record[0],
			SetCode:         record[1],
			CardNumber:      record[2],
			ClassName:       record[3],
			Power:           record[4],
			Toughness:       record[5],
			StartingLoyalty: record[6],
			StartingDefense: record[7],
			Rarity:          record[9],
			Types:           record[10],
			Subtypes:        record[11],
			Supertypes:      record[12],
			ManaCosts:       record[13],
			Rules:           record[14],
			Black:           parseBool(record[15]),
			Blue:            parseBool(record[16]),
			Green:           parseBool(record[17]),
			Red:             parseBool(record[18]),
			White:           parseBool(record[19]),
			FrameColor:      record[20],
			FrameStyle:      record[21],
			VariousArt:      parseBool(record[22]),
		}
		if manaValue, err := strconv.Atoi(record[8]); err == nil {
			card.ManaValue = manaValue
		}
		cards = append(cards, card)
	}
	return cards, skipped, nil
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true") || s == "1"
}

// ImportOptions controls ImportCSV.
type ImportOptions struct {
	BatchSize int
	// Replace truncates the table before importing.
	Replace bool
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Imported int
	Failed   int
	Skipped  int
	Duration time.Duration
}

const insertCard = `
	INSERT INTO cards (
		card_number, set_code, name, card_type, mana_cost,
		power, toughness, rules_text, flavor_text, original_text,
		original_type, cn, card_name, rarity, card_class_name
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// ImportCSV loads a card export into the cards table in batched
// transactions. A failing batch is counted and the import moves on.
func (s *PostgresStore) ImportCSV(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	var result ImportResult
	cards, skipped, err := ReadImportCSV(r)
	if err != nil {
		return result, err
	}
	result.Skipped = skipped
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}

	existing, err := s.Count(ctx)
	if err != nil {
		return result, err
	}
	if existing > 0 {
		if !opts.Replace {
			return result, fmt.Errorf("cards table already holds %d rows", existing)
		}
		if _, err := s.pool.Exec(ctx, "TRUNCATE cards RESTART IDENTITY CASCADE"); err != nil {
			return result, fmt.Errorf("failed to clear cards: %w", err)
		}
		s.logger.Info("existing cards cleared", zap.Int64("count", existing))
	}

	start := time.Now()
	for i := 0; i < len(cards); i += opts.BatchSize {
		end := min(i+opts.BatchSize, len(cards))
		imported, err := s.importBatch(ctx, cards[i:end])
		if err != nil {
			s.logger.Warn("batch failed", zap.Int("offset", i), zap.Error(err))
			result.Failed += end - i
			continue
		}
		result.Imported += imported
		s.logger.Debug("import progress", zap.Int("imported", result.Imported), zap.Int("total", len(cards)))
	}
	result.Duration = time.Since(start)

	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()

	s.logger.Info("card import complete",
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *PostgresStore) importBatch(ctx context.Context, batch []*CardImport) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	imported := 0
	for _, card := range batch {
		_, err := tx.Exec(ctx, insertCard,
			card.CardNumber,
			card.SetCode,
			card.Name,
			card.TypeLine(),
			card.ManaCosts,
			card.Power,
			card.Toughness,
			card.Rules,
			"", // flavor_text
			"", // original_text
			"", // original_type
			0,  // cn
			card.Name,
			card.Rarity,
			card.ClassName,
		)
		if err != nil {
			// an aborted transaction rejects the rest of the batch
			return 0, fmt.Errorf("failed to insert card %s: %w", card.Name, err)
		}
		imported++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return imported, nil
}
