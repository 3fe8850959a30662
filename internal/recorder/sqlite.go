package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"TradeScout/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scanner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			items_scanned     INTEGER,
			items_found       INTEGER,
			duration_ms       INTEGER,
			alerts_sent       INTEGER,
			combos_found      INTEGER,
			total_value       INTEGER,
			average_rap       REAL,
			market_volatility REAL,
			risk_index        REAL,
			errors            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(timestamp)`,

		`CREATE TABLE IF NOT EXISTS combos (
			id              TEXT PRIMARY KEY,
			created         INTEGER NOT NULL,
			projected_gain  INTEGER,
			confidence      REAL,
			risk_level      TEXT,
			strategy        TEXT,
			total_offered   INTEGER,
			total_requested INTEGER,
			roi_percentage  REAL,
			volume_score    REAL,
			demand_score    REAL,
			offered_names   TEXT,
			requested_names TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_combos_created ON combos(created)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(result *model.ScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var totalValue int
	var averageRAP, marketVolatility, riskIndex float64
	if result.Metrics != nil {
		totalValue = result.Metrics.TotalValue
		averageRAP = result.Metrics.AverageRAP
		marketVolatility = result.Metrics.MarketVolatility
		riskIndex = result.Metrics.RiskIndex
	}

	_, err := r.db.Exec(`INSERT INTO scans
		(timestamp, items_scanned, items_found, duration_ms, alerts_sent,
		 combos_found, total_value, average_rap, market_volatility, risk_index, errors)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		result.Timestamp.Unix(), result.ItemsScanned, result.ItemsFound,
		result.Duration.Milliseconds(), result.AlertsSent,
		len(result.BestCombos), totalValue, averageRAP, marketVolatility, riskIndex,
		strings.Join(result.Errors, "; "),
	)
	return err
}

func (r *SQLiteRecorder) RecordCombos(combos []model.TradeCombo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO combos
		(id, created, projected_gain, confidence, risk_level, strategy,
		 total_offered, total_requested, roi_percentage, volume_score, demand_score,
		 offered_names, requested_names)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range combos {
		created := c.Created
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.Exec(
			c.ID, created.Unix(), c.ProjectedGain, c.Confidence,
			c.RiskLevel.String(), string(c.StrategyUsed),
			c.TotalValueOffered, c.TotalValueRequested,
			c.ROIPercentage, c.VolumeScore, c.DemandScore,
			itemNames(c.ItemsOffered), itemNames(c.ItemsRequested),
		); err != nil {
			return fmt.Errorf("insert combo %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// RecentScans returns the last n scan rows, newest first.
func (r *SQLiteRecorder) RecentScans(n int) ([]ScanRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, items_scanned, items_found,
		duration_ms, alerts_sent, combos_found, risk_index
		FROM scans ORDER BY timestamp DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var out []ScanRow
	for rows.Next() {
		var row ScanRow
		var ts, durMs int64
		if err := rows.Scan(&ts, &row.ItemsScanned, &row.ItemsFound, &durMs,
			&row.AlertsSent, &row.CombosFound, &row.RiskIndex); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row.Timestamp = time.Unix(ts, 0)
		row.Duration = time.Duration(durMs) * time.Millisecond
		out = append(out, row)
	}
	return out, rows.Err()
}

// ScanRow is a summarized historical scan record.
type ScanRow struct {
	Timestamp    time.Time     `json:"timestamp"`
	ItemsScanned int           `json:"items_scanned"`
	ItemsFound   int           `json:"items_found"`
	Duration     time.Duration `json:"duration"`
	AlertsSent   int           `json:"alerts_sent"`
	CombosFound  int           `json:"combos_found"`
	RiskIndex    float64       `json:"risk_index"`
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func itemNames(items []*model.Item) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, " + ")
}
