package waitlist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/pkg/dbmetrics"
	"github.com/nextsteppro/NSP-BookingService/pkg/psqlbuilder"
)

var entryColumns = []string{
	"id",
	"user_id",
	"time_slot_id",
	"position",
	"notified_at",
	"created_at",
}

// Repository репозиторий для работы с листом ожидания
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает экземпляр репозитория листа ожидания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в лист ожидания
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns("user_id", "time_slot_id", "position").
		Values(entry.UserID, entry.TimeSlotID, entry.Position).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// GetByID получает запись листа ожидания по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntryRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// GetByUserAndSlot получает запись листа ожидания пары (user, slot)
func (r *Repository) GetByUserAndSlot(ctx context.Context, userID, slotID int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"user_id": userID, "time_slot_id": slotID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserAndSlot - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntryRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserAndSlot - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// Exists возвращает true, если пользователь уже стоит в листе ожидания слота
func (r *Repository) Exists(ctx context.Context, userID, slotID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("waitlist_entries").
		Where(squirrel.Eq{"user_id": userID, "time_slot_id": slotID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// MaxPositionBySlotID возвращает максимальную позицию в листе ожидания
// слота, 0 - если лист пуст
func (r *Repository) MaxPositionBySlotID(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(MAX(position), 0)").
		From("waitlist_entries").
		Where(squirrel.Eq{"time_slot_id": slotID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxPositionBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	var maxPosition int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("%w: MaxPositionBySlotID - scan: %v", ErrScanRow, err)
	}

	return maxPosition, nil
}

// ListBySlotID получает лист ожидания слота в порядке позиций
func (r *Repository) ListBySlotID(ctx context.Context, slotID int64) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"time_slot_id": slotID}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlotID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBySlotID - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySlotID - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// FirstUnnotifiedBySlotID возвращает первую ещё не уведомлённую запись
// листа ожидания слота
func (r *Repository) FirstUnnotifiedBySlotID(ctx context.Context, slotID int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"time_slot_id": slotID}).
		Where("notified_at IS NULL").
		OrderBy("position ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FirstUnnotifiedBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntryRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FirstUnnotifiedBySlotID - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// MarkNotified отмечает запись листа ожидания как уведомлённую
func (r *Repository) MarkNotified(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("notified_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkNotified - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkNotified - execute update: %v", ErrExecQuery, err)
	}

	return requireRowsAffected(result, "MarkNotified")
}

// Delete удаляет запись листа ожидания
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("waitlist_entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return requireRowsAffected(result, "Delete")
}

// DecrementPositionsAfter сдвигает позиции записей после удалённой,
// чтобы очередь оставалась непрерывной (1..N без дыр)
func (r *Repository) DecrementPositionsAfter(ctx context.Context, slotID int64, position int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("position", squirrel.Expr("position - 1")).
		Where(squirrel.Eq{"time_slot_id": slotID}).
		Where(squirrel.Gt{"position": position}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementPositionsAfter - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DecrementPositionsAfter - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func requireRowsAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntryRow(row rowScanner) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	var notifiedAt sql.NullTime
	var createdAt sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.TimeSlotID,
		&entry.Position,
		&notifiedAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if notifiedAt.Valid {
		t := notifiedAt.Time
		entry.NotifiedAt = &t
	}
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
