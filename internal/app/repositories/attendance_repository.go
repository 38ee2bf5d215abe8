package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert writes one attendance mark. Re-marking the same (enrollment, slot,
// date) updates the existing row; the unique constraint carries the
// find-or-create decision so concurrent sheet submissions cannot duplicate.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO attendance (enrollment_id, class_slot_id, date, is_present, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT uq_attendance
		DO UPDATE SET is_present = EXCLUDED.is_present, note = EXCLUDED.note`,
		record.EnrollmentID, record.ClassSlotID, record.Date, record.IsPresent, record.Note)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", record.EnrollmentID).Int64("slotID", record.ClassSlotID).
			Msg("Error executing upsert attendance query")
		return fmt.Errorf("error saving attendance: %w", err)
	}

	return nil
}

// ListBySlotAndDate retrieves the marked sheet of one dated slot occurrence,
// joined with the students the marks belong to.
func (r *AttendanceRepository) ListBySlotAndDate(ctx context.Context, classSlotID int64, date time.Time) ([]*models.AttendanceEntry, error) {
	sql, args, err := r.sb.Select(
		"a.id", "u.id", "u.first_name", "u.last_name", "a.is_present", "a.note").
		From("attendance a").
		Join("enrollments e ON e.id = a.enrollment_id").
		Join("users u ON u.id = e.student_id").
		Where(squirrel.Eq{"a.class_slot_id": classSlotID, "a.date": date}).
		OrderBy("u.last_name ASC", "u.first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("slotID", classSlotID).Msg("Error executing list attendance query")
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	entries := []*models.AttendanceEntry{}
	for rows.Next() {
		entry := &models.AttendanceEntry{}
		err := rows.Scan(
			&entry.AttendanceID,
			&entry.StudentID,
			&entry.FirstName,
			&entry.LastName,
			&entry.IsPresent,
			&entry.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
