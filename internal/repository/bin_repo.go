package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartbin"
)

type BinSQLite struct {
	db *sql.DB
}

func NewBinSQLite(db *sql.DB) *BinSQLite {
	return &BinSQLite{db: db}
}

// Ensure implementation of BinRepo at compile time.
var _ BinRepo = (*BinSQLite)(nil)

const (
	binColumns = `bin_id, location, fill_level, battery_level, temperature, sensor_status, capacity, last_emptied, last_updated`

	selectAllBinsSQL = `SELECT ` + binColumns + ` FROM bins ORDER BY bin_id`
	selectBinSQL     = `SELECT ` + binColumns + ` FROM bins WHERE bin_id = ?`
	insertBinSQL     = `INSERT INTO bins (` + binColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	deleteBinSQL     = `DELETE FROM bins WHERE bin_id = ?`
	countBinsSQL     = `SELECT COUNT(*) FROM bins`
)

// toUTC normalizes non-zero times to UTC, defaulting zero values to now.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func scanBin(row interface{ Scan(...any) error }) (smartbin.Bin, error) {
	var b smartbin.Bin
	err := row.Scan(
		&b.BinID,
		&b.Location,
		&b.FillLevel,
		&b.BatteryLevel,
		&b.Temperature,
		&b.SensorStatus,
		&b.Capacity,
		&b.LastEmptied,
		&b.LastUpdated,
	)
	if err != nil {
		return smartbin.Bin{}, err
	}
	b.LastEmptied = b.LastEmptied.UTC()
	b.LastUpdated = b.LastUpdated.UTC()
	return b, nil
}

// ListAll returns every bin ordered by bin_id.
func (r *BinSQLite) ListAll(ctx context.Context) ([]smartbin.Bin, error) {
	rows, err := r.db.QueryContext(ctx, selectAllBinsSQL)
	if err != nil {
		return nil, fmt.Errorf("select bins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bins := make([]smartbin.Bin, 0)
	for rows.Next() {
		b, err := scanBin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		bins = append(bins, b)
	}
	return bins, rows.Err()
}

// GetByID fetches one bin. Returns ErrNotFound if absent.
func (r *BinSQLite) GetByID(ctx context.Context, binID int) (smartbin.Bin, error) {
	b, err := scanBin(r.db.QueryRowContext(ctx, selectBinSQL, binID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return smartbin.Bin{}, ErrNotFound
		}
		return smartbin.Bin{}, fmt.Errorf("select bin %d: %w", binID, err)
	}
	return b, nil
}

// Insert stores a new bin. A duplicate bin_id surfaces as a UNIQUE constraint error.
func (r *BinSQLite) Insert(ctx context.Context, b smartbin.Bin) error {
	_, err := r.db.ExecContext(ctx, insertBinSQL,
		b.BinID,
		b.Location,
		b.FillLevel,
		b.BatteryLevel,
		b.Temperature,
		b.SensorStatus,
		b.Capacity,
		toUTC(b.LastEmptied),
		toUTC(b.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("insert bin %d: %w", b.BinID, err)
	}
	return nil
}

// UpdateByID applies the non-nil fields of u, always bumps last_updated,
// and returns the updated record. Returns ErrNotFound if absent.
func (r *BinSQLite) UpdateByID(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error) {
	set := []string{"last_updated = ?"}
	args := []any{time.Now().UTC()}

	if u.Location != nil {
		set = append(set, "location = ?")
		args = append(args, *u.Location)
	}
	if u.FillLevel != nil {
		set = append(set, "fill_level = ?")
		args = append(args, *u.FillLevel)
	}
	if u.BatteryLevel != nil {
		set = append(set, "battery_level = ?")
		args = append(args, *u.BatteryLevel)
	}
	if u.Temperature != nil {
		set = append(set, "temperature = ?")
		args = append(args, *u.Temperature)
	}
	if u.SensorStatus != nil {
		set = append(set, "sensor_status = ?")
		args = append(args, *u.SensorStatus)
	}
	if u.Capacity != nil {
		set = append(set, "capacity = ?")
		args = append(args, *u.Capacity)
	}
	if u.LastEmptied != nil {
		set = append(set, "last_emptied = ?")
		args = append(args, u.LastEmptied.UTC())
	}

	query := "UPDATE bins SET " + strings.Join(set, ", ") + " WHERE bin_id = ?"
	args = append(args, binID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return smartbin.Bin{}, fmt.Errorf("update bin %d: %w", binID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return smartbin.Bin{}, fmt.Errorf("rows affected for bin %d: %w", binID, err)
	}
	if affected == 0 {
		return smartbin.Bin{}, ErrNotFound
	}

	return r.GetByID(ctx, binID)
}

// DeleteByID removes one bin. Returns ErrNotFound if absent.
func (r *BinSQLite) DeleteByID(ctx context.Context, binID int) error {
	res, err := r.db.ExecContext(ctx, deleteBinSQL, binID)
	if err != nil {
		return fmt.Errorf("delete bin %d: %w", binID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for bin %d: %w", binID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports how many bins exist.
func (r *BinSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countBinsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bins: %w", err)
	}
	return n, nil
}
