package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

var classSlotColumns = []string{"id", "course_id", "day_of_week", "start_time", "end_time", "is_recurring"}

// ClassSlotRepository handles weekly class slot database operations
type ClassSlotRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassSlotRepository creates a new ClassSlotRepository
func NewClassSlotRepository(db *pgxpool.Pool) *ClassSlotRepository {
	return &ClassSlotRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanClassSlot(row pgx.Row) (*models.ClassSlot, error) {
	slot := &models.ClassSlot{}
	err := row.Scan(
		&slot.ID,
		&slot.CourseID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsRecurring,
	)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// Create inserts a new class slot and returns the generated ID
func (r *ClassSlotRepository) Create(ctx context.Context, slot *models.ClassSlot) (int64, error) {
	sql, args, err := r.sb.Insert("class_slots").
		Columns("course_id", "day_of_week", "start_time", "end_time", "is_recurring").
		Values(slot.CourseID, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.IsRecurring).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create class slot query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", slot.CourseID).Msg("Error executing create class slot query")
		return 0, fmt.Errorf("error creating class slot: %w", err)
	}

	return id, nil
}

// GetByID retrieves a class slot by ID
func (r *ClassSlotRepository) GetByID(ctx context.Context, id int64) (*models.ClassSlot, error) {
	sql, args, err := r.sb.Select(classSlotColumns...).
		From("class_slots").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get class slot query: %w", err)
	}

	slot, err := scanClassSlot(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSlotNotFound
		}
		logger.Error().Err(err).Int64("slotID", id).Msg("Error scanning class slot row")
		return nil, fmt.Errorf("error getting class slot by ID: %w", err)
	}

	return slot, nil
}

// GetByCourseID retrieves the weekly slots of a course in week order
func (r *ClassSlotRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.ClassSlot, error) {
	sql, args, err := r.sb.Select(classSlotColumns...).
		From("class_slots").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get slots by course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing slots query")
		return nil, fmt.Errorf("error querying class slots: %w", err)
	}
	defer rows.Close()

	slots := []*models.ClassSlot{}
	for rows.Next() {
		slot, err := scanClassSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning class slot row: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// Delete deletes a class slot. Attendance rows of the slot are removed with
// it.
func (r *ClassSlotRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM class_slots WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("slotID", id).Msg("Error deleting class slot")
		return fmt.Errorf("error deleting class slot: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSlotNotFound
	}

	return nil
}

// GetScheduleByTeacherID retrieves the weekly schedule of the courses a
// teacher is assigned to.
func (r *ClassSlotRepository) GetScheduleByTeacherID(ctx context.Context, teacherID int64) ([]*models.ScheduleEntry, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.name", "s.day_of_week", "s.start_time", "s.end_time",
		"COALESCE(u.first_name || ' ' || u.last_name, '')").
		From("class_slots s").
		Join("courses c ON c.id = s.course_id").
		LeftJoin("users u ON u.id = c.teacher_id").
		Where(squirrel.Eq{"c.teacher_id": teacherID}).
		OrderBy("s.day_of_week ASC", "s.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build teacher schedule query: %w", err)
	}

	return r.querySchedule(ctx, sql, args)
}

// GetScheduleByStudentID retrieves the weekly schedule of the courses a
// student is enrolled in.
func (r *ClassSlotRepository) GetScheduleByStudentID(ctx context.Context, studentID int64) ([]*models.ScheduleEntry, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.name", "s.day_of_week", "s.start_time", "s.end_time",
		"COALESCE(u.first_name || ' ' || u.last_name, '')").
		From("class_slots s").
		Join("courses c ON c.id = s.course_id").
		Join("enrollments e ON e.course_id = c.id").
		LeftJoin("users u ON u.id = c.teacher_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("s.day_of_week ASC", "s.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student schedule query: %w", err)
	}

	return r.querySchedule(ctx, sql, args)
}

func (r *ClassSlotRepository) querySchedule(ctx context.Context, sql string, args []interface{}) ([]*models.ScheduleEntry, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing schedule query")
		return nil, fmt.Errorf("error querying schedule: %w", err)
	}
	defer rows.Close()

	entries := []*models.ScheduleEntry{}
	for rows.Next() {
		entry := &models.ScheduleEntry{}
		err := rows.Scan(
			&entry.CourseID,
			&entry.CourseName,
			&entry.DayOfWeek,
			&entry.StartTime,
			&entry.EndTime,
			&entry.TeacherName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning schedule row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
