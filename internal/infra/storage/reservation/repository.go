package reservation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/pkg/dbmetrics"
	"github.com/nextsteppro/NSP-BookingService/pkg/psqlbuilder"
)

var reservationColumns = []string{
	"id",
	"user_id",
	"time_slot_id",
	"status",
	"participants",
	"comment",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает экземпляр репозитория броней
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую подтверждённую бронь
// Уникальность пары (user_id, time_slot_id) обеспечивается constraint'ом
// в БД: повторное бронирование после отмены должно идти через Reactivate.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"time_slot_id",
			"status",
			"participants",
			"comment",
		).
		Values(
			res.UserID,
			res.TimeSlotID,
			res.Status,
			res.Participants,
			res.Comment,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByUserAndSlot получает бронь пары (user, slot) независимо от статуса
func (r *Repository) GetByUserAndSlot(ctx context.Context, userID, slotID int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID, "time_slot_id": slotID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserAndSlot - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserAndSlot - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ExistsConfirmed возвращает true, если у пользователя есть подтверждённая
// бронь на слот
func (r *Repository) ExistsConfirmed(ctx context.Context, userID, slotID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{
			"user_id":      userID,
			"time_slot_id": slotID,
			"status":       domain.StatusConfirmed,
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsConfirmed - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsConfirmed - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// SumConfirmedBySlotID возвращает число занятых мест слота: сумму
// participants по подтверждённым броням (не число строк - одна бронь
// может занимать несколько мест)
func (r *Repository) SumConfirmedBySlotID(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(participants), 0)").
		From("reservations").
		Where(squirrel.Eq{
			"time_slot_id": slotID,
			"status":       domain.StatusConfirmed,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumConfirmedBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumConfirmedBySlotID - scan: %v", ErrScanRow, err)
	}

	return sum, nil
}

// SumConfirmedBySlotIDs возвращает занятые места для набора слотов одним
// запросом. Слоты без подтверждённых броней в результат не попадают.
func (r *Repository) SumConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(slotIDs) == 0 {
		return counts, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time_slot_id", "COALESCE(SUM(participants), 0)").
		From("reservations").
		Where(squirrel.Eq{
			"time_slot_id": slotIDs,
			"status":       domain.StatusConfirmed,
		}).
		GroupBy("time_slot_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SumConfirmedBySlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SumConfirmedBySlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var count domain.SlotParticipantCount
		if err := rows.Scan(&count.SlotID, &count.Participants); err != nil {
			return nil, fmt.Errorf("%w: SumConfirmedBySlotIDs - scan: %v", ErrScanRow, err)
		}
		counts[count.SlotID] = count.Participants
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SumConfirmedBySlotIDs - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// ListConfirmedBySlotID получает подтверждённые брони слота
func (r *Repository) ListConfirmedBySlotID(ctx context.Context, slotID int64) ([]*domain.Reservation, error) {
	return r.listConfirmed(ctx, squirrel.Eq{"time_slot_id": slotID, "status": domain.StatusConfirmed})
}

// ListConfirmedBySlotIDs получает подтверждённые брони набора слотов
func (r *Repository) ListConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Reservation, error) {
	if len(slotIDs) == 0 {
		return []*domain.Reservation{}, nil
	}
	return r.listConfirmed(ctx, squirrel.Eq{"time_slot_id": slotIDs, "status": domain.StatusConfirmed})
}

func (r *Repository) listConfirmed(ctx context.Context, where squirrel.Eq) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(where).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listConfirmed - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listConfirmed - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByUserID получает все брони пользователя
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// Reactivate реактивирует отменённую бронь: возвращает её в confirmed
// с новыми participants и комментарием, сбрасывая отметки отмены
func (r *Repository) Reactivate(ctx context.Context, id int64, participants int, comment *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusConfirmed).
		Set("participants", participants).
		Set("comment", comment).
		Set("cancelled_by", nil).
		Set("cancelled_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reactivate - execute update: %v", ErrExecQuery, err)
	}

	return requireRowsAffected(result, "Reactivate")
}

// Cancel отменяет бронь
// cancelledBy - идентификатор администратора для админской отмены,
// nil - пользователь отменяет свою бронь.
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledBy *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return requireRowsAffected(result, "Cancel")
}

func requireRowsAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservationRow(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var cancelledAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.TimeSlotID,
		&res.Status,
		&res.Participants,
		&res.Comment,
		&res.CancelledBy,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
