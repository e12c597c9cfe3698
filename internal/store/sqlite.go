package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based trade store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trades table: one row per journaled trade
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		time TEXT NOT NULL DEFAULT '',
		pair TEXT NOT NULL,
		pnl REAL NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		rating INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		photos TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date, time);
	CREATE INDEX IF NOT EXISTS idx_trades_pair ON trades(pair);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTrade saves a single trade.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	tags, photos, err := encodeOpaque(trade)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trades (id, date, time, pair, pnl, type, tags, rating, notes, photos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.Date, trade.Time, trade.Pair, trade.PnL, string(trade.Type),
		tags, trade.Rating, trade.Notes, photos)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// SaveTrades saves a batch of trades in one transaction. Used by the
// importers, where partial success would leave the journal inconsistent.
func (s *SQLiteStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (id, date, time, pair, pnl, type, tags, rating, notes, photos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range trades {
		t := &trades[i]
		tags, photos, err := encodeOpaque(t)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Date, t.Time, t.Pair, t.PnL,
			string(t.Type), tags, t.Rating, t.Notes, photos); err != nil {
			return fmt.Errorf("failed to insert trade %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrades retrieves trades matching the filter, oldest first by the
// composite date+time key.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := `
		SELECT id, date, time, pair, pnl, type, tags, rating, notes, photos
		FROM trades WHERE 1=1
	`
	var args []interface{}

	if filter.Pair != "" {
		query += " AND pair = ?"
		args = append(args, models.NormalizePair(filter.Pair))
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date ASC, time ASC"
	// The tag filter runs in-memory over the JSON column, so the limit can
	// only be pushed into SQL when no tag filter will discard rows afterward.
	if filter.Limit > 0 && filter.Tag == "" {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		if filter.Tag != "" && !hasTag(trade, filter.Tag) {
			continue
		}
		trades = append(trades, *trade)
		if filter.Tag != "" && filter.Limit > 0 && len(trades) == filter.Limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return trades, nil
}

// GetTradeByID retrieves a single trade by its ID.
func (s *SQLiteStore) GetTradeByID(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, time, pair, pnl, type, tags, rating, notes, photos
		FROM trades WHERE id = ?
	`, id)

	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTradeNotFound
	}
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// UpdateTrade replaces the stored record wholesale.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	tags, photos, err := encodeOpaque(trade)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET date = ?, time = ?, pair = ?, pnl = ?, type = ?, tags = ?, rating = ?, notes = ?, photos = ?
		WHERE id = ?
	`, trade.Date, trade.Time, trade.Pair, trade.PnL, string(trade.Type),
		tags, trade.Rating, trade.Notes, photos, trade.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return errors.ErrTradeNotFound
	}
	return nil
}

// DeleteTrade removes a trade by ID.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return errors.ErrTradeNotFound
	}
	return nil
}

// CountTrades returns the total number of journaled trades.
func (s *SQLiteStore) CountTrades(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(sc scanner) (*models.Trade, error) {
	var t models.Trade
	var tradeType, tags, photos string

	if err := sc.Scan(&t.ID, &t.Date, &t.Time, &t.Pair, &t.PnL, &tradeType,
		&tags, &t.Rating, &t.Notes, &photos); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}
	t.Type = models.TradeType(tradeType)

	var err error
	if t.Tags, err = decodeTags(tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for trade %s: %w", t.ID, err)
	}
	if t.Photos, err = decodePhotos(photos); err != nil {
		return nil, fmt.Errorf("failed to decode photos for trade %s: %w", t.ID, err)
	}
	return &t, nil
}

// Tags cross the storage boundary as category-qualified strings; photos as
// base64. Both stay structured/binary in memory.

func encodeOpaque(t *models.Trade) (tags, photos string, err error) {
	tagKeys := t.Tags.Flatten()
	if tagKeys == nil {
		tagKeys = []string{}
	}
	tagJSON, err := json.Marshal(tagKeys)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tags: %w", err)
	}

	encoded := make([]string, len(t.Photos))
	for i, p := range t.Photos {
		encoded[i] = base64.StdEncoding.EncodeToString(p)
	}
	photoJSON, err := json.Marshal(encoded)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode photos: %w", err)
	}

	return string(tagJSON), string(photoJSON), nil
}

func decodeTags(raw string) (models.TagSet, error) {
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, err
	}
	tags := models.TagSet{}
	for _, key := range keys {
		category, value := models.ParseTagKey(key)
		tags.Set(category, value)
	}
	return tags, nil
}

func decodePhotos(raw string) ([][]byte, error) {
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		return nil, err
	}
	if len(encoded) == 0 {
		return nil, nil
	}
	photos := make([][]byte, len(encoded))
	for i, e := range encoded {
		data, err := base64.StdEncoding.DecodeString(e)
		if err != nil {
			return nil, err
		}
		photos[i] = data
	}
	return photos, nil
}

// hasTag reports whether the trade carries the category-qualified tag key.
func hasTag(t *models.Trade, key string) bool {
	for _, k := range t.Tags.Flatten() {
		if k == key {
			return true
		}
	}
	return false
}
