package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharik/internal/models"
)

const bookingSelect = `SELECT b.id, b.item_id, i.name, i.owner_id, b.booker_id,
                              b.start_time, b.end_time, b.status,
                              b.created_at, b.updated_at, b.version
                       FROM bookings b JOIN items i ON i.id = b.item_id`

// HasConflict проверяет пересечение [start, end) с активными бронированиями
// вещи. excludeID исключает само бронирование при повторной проверке.
func (db *DB) HasConflict(ctx context.Context, itemID int64, start, end time.Time, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND id != ?
              AND status IN (?, ?)
              AND start_time < ? AND end_time > ?`
	var count int
	err := db.QueryRowContext(ctx, query, itemID, excludeID,
		models.StatusWaiting, models.StatusApproved, end, start).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	return count > 0, nil
}

// CreateBookingWithLock выполняет проверку конфликта и вставку в одной
// транзакции: две конкурирующие заявки на один слот не пройдут обе.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	queryCount := `SELECT COUNT(*) FROM bookings
                   WHERE item_id = ? AND status IN (?, ?)
                   AND start_time < ? AND end_time > ?`
	err = tx.QueryRowContext(ctx, queryCount, booking.ItemID,
		models.StatusWaiting, models.StatusApproved,
		booking.End, booking.Start).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check conflict in tx: %w", err)
	}
	if count > 0 {
		return ErrSlotUnavailable
	}

	queryInsert := `INSERT INTO bookings (item_id, booker_id, start_time, end_time, status, created_at, updated_at, version)
                    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.ItemID,
		booking.BookerID,
		booking.Start,
		booking.End,
		booking.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := bookingSelect + ` WHERE b.id = ?`
	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// UpdateBookingStatusWithVersion меняет статус с оптимистической проверкой
// версии; проигравший конкурент получает ErrConcurrentModification.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status models.Status) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// ListBookingsByBooker возвращает бронирования пользователя в срезе state.
func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, state models.QueryState, now time.Time) ([]*models.Booking, error) {
	where, args := stateClause(state, now)
	args = append([]interface{}{bookerID}, args...)
	query := bookingSelect + ` WHERE b.booker_id = ?` + where + orderClause(state)
	return db.queryBookings(ctx, query, args...)
}

// ListBookingsByOwner возвращает бронирования на вещи владельца в срезе state.
func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64, state models.QueryState, now time.Time) ([]*models.Booking, error) {
	where, args := stateClause(state, now)
	args = append([]interface{}{ownerID}, args...)
	query := bookingSelect + ` WHERE i.owner_id = ?` + where + orderClause(state)
	return db.queryBookings(ctx, query, args...)
}

// GetBookingsByDateRange возвращает бронирования, пересекающие период.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.start_time < ? AND b.end_time > ? ORDER BY b.start_time ASC`
	return db.queryBookings(ctx, query, end, start)
}

// HasFinishedApprovedBooking проверяет, завершил ли пользователь
// подтверждённую аренду вещи (право на комментарий).
func (db *DB) HasFinishedApprovedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND booker_id = ? AND status = ? AND end_time <= ?`
	var count int
	err := db.QueryRowContext(ctx, query, itemID, bookerID, models.StatusApproved, now).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

func stateClause(state models.QueryState, now time.Time) (string, []interface{}) {
	switch state {
	case models.QueryCurrent:
		return ` AND b.start_time <= ? AND b.end_time > ?`, []interface{}{now, now}
	case models.QueryPast:
		return ` AND b.end_time <= ?`, []interface{}{now}
	case models.QueryFuture:
		return ` AND b.start_time > ?`, []interface{}{now}
	case models.QueryWaiting:
		return ` AND b.status = ?`, []interface{}{models.StatusWaiting}
	case models.QueryRejected:
		return ` AND b.status = ?`, []interface{}{models.StatusRejected}
	default:
		return ``, nil
	}
}

func orderClause(state models.QueryState) string {
	if state.Ascending() {
		return ` ORDER BY b.start_time ASC`
	}
	return ` ORDER BY b.start_time DESC`
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID,
			&b.Start, &b.End, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &b.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func scanBooking(row *sql.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID,
		&b.Start, &b.End, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
