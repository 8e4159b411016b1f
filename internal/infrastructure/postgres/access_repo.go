package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccessRepository struct {
	pool *pgxpool.Pool
}

func NewAccessRepository(pool *pgxpool.Pool) *AccessRepository {
	return &AccessRepository{pool: pool}
}

func (r *AccessRepository) FindWindow(ctx context.Context, userID int64, day domain.Weekday) (*domain.AccessWindow, error) {
	// (user_id, day_of_week) is unique, so at most one row matches.
	query := `SELECT user_id, day_of_week, start_time, end_time
	          FROM access_windows WHERE user_id = $1 AND day_of_week = $2`

	return scanWindow(r.pool.QueryRow(ctx, query, userID, int(day)))
}

func (r *AccessRepository) ListByUser(ctx context.Context, userID int64) ([]domain.AccessWindow, error) {
	query := `SELECT user_id, day_of_week, start_time, end_time
	          FROM access_windows WHERE user_id = $1 ORDER BY day_of_week`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list access windows: %w", err)
	}
	defer rows.Close()

	var windows []domain.AccessWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}

func (r *AccessRepository) Create(ctx context.Context, window domain.AccessWindow) error {
	query := `INSERT INTO access_windows (user_id, day_of_week, start_time, end_time)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query,
		window.UserID, int(window.Day), timeParam(window.Start), timeParam(window.End))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateWindow
		}
		return fmt.Errorf("create access window: %w", err)
	}
	return nil
}

func (r *AccessRepository) Update(ctx context.Context, window domain.AccessWindow) error {
	query := `UPDATE access_windows SET start_time = $3, end_time = $4
	          WHERE user_id = $1 AND day_of_week = $2`

	tag, err := r.pool.Exec(ctx, query,
		window.UserID, int(window.Day), timeParam(window.Start), timeParam(window.End))
	if err != nil {
		return fmt.Errorf("update access window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWindowNotFound
	}
	return nil
}

func (r *AccessRepository) Delete(ctx context.Context, userID int64, day domain.Weekday) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM access_windows WHERE user_id = $1 AND day_of_week = $2`,
		userID, int(day))
	if err != nil {
		return fmt.Errorf("delete access window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWindowNotFound
	}
	return nil
}

func timeParam(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Microseconds(), Valid: true}
}

func scanWindow(row pgx.Row) (*domain.AccessWindow, error) {
	var (
		w          domain.AccessWindow
		day        int
		start, end pgtype.Time
	)
	err := row.Scan(&w.UserID, &day, &start, &end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWindowNotFound
		}
		return nil, fmt.Errorf("scan access window: %w", err)
	}
	w.Day = domain.Weekday(day)
	w.Start = domain.TimeOfDayFromMicroseconds(start.Microseconds)
	w.End = domain.TimeOfDayFromMicroseconds(end.Microseconds)
	return &w, nil
}
