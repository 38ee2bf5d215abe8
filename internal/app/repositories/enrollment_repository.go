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
	"github.com/extracenter/backend/internal/pkg/dberrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// EnrollmentRepository handles course enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an enrollment row. A duplicate (course, student) pair
// surfaces as apperrors.ErrAlreadyEnrolled via the unique constraint.
func (r *EnrollmentRepository) Create(ctx context.Context, courseID, studentID int64) (int64, error) {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("course_id", "student_id").
		Values(courseID, studentID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrAlreadyEnrolled
		}
		logger.Error().Err(err).Int64("courseID", courseID).Int64("studentID", studentID).
			Msg("Error executing create enrollment query")
		return 0, fmt.Errorf("error creating enrollment: %w", err)
	}

	return id, nil
}

// Delete removes an enrollment. Removing a non-enrolled student reports
// apperrors.ErrNotEnrolled.
func (r *EnrollmentRepository) Delete(ctx context.Context, courseID, studentID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM enrollments WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("studentID", studentID).
			Msg("Error executing delete enrollment query")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}

	return nil
}

// GetIDByCourseAndStudent resolves the enrollment row of a (course, student)
// pair. A missing pair reports apperrors.ErrNotEnrolled.
func (r *EnrollmentRepository) GetIDByCourseAndStudent(ctx context.Context, courseID, studentID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM enrollments WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotEnrolled
		}
		return 0, fmt.Errorf("error resolving enrollment: %w", err)
	}
	return id, nil
}

// Exists checks whether a student is enrolled in a course
func (r *EnrollmentRepository) Exists(ctx context.Context, courseID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`,
		courseID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// ListStudentsByCourseID retrieves the students enrolled in a course in
// enrollment order.
func (r *EnrollmentRepository) ListStudentsByCourseID(ctx context.Context, courseID int64) ([]*models.User, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.first_name", "u.last_name", "u.email", "u.personal_email", "u.password",
		"u.phone_number", "u.date_of_birth", "u.role_type", "u.is_enabled", "u.is_locked", "u.created_at").
		From("enrollments e").
		Join("users u ON u.id = e.student_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list course students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list course students query")
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	defer rows.Close()

	students := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		students = append(students, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// CountByStudentID counts the courses a student is enrolled in
func (r *EnrollmentRepository) CountByStudentID(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE student_id = $1`, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}
