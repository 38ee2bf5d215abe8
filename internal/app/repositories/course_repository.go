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

var courseColumns = []string{
	"id", "center_id", "name", "subject", "grade", "description",
	"start_date", "end_date", "status", "teacher_id", "pending_teacher_id", "invitation_status",
}

// CourseRepository handles course database operations, including the
// invitation columns that drive teacher assignment.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.CenterID,
		&course.Name,
		&course.Subject,
		&course.Grade,
		&course.Description,
		&course.StartDate,
		&course.EndDate,
		&course.Status,
		&course.TeacherID,
		&course.PendingTeacherID,
		&course.InvitationStatus,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Create inserts a new course and returns the generated ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("center_id", "name", "subject", "grade", "description",
			"start_date", "end_date", "status", "teacher_id", "pending_teacher_id", "invitation_status").
		Values(course.CenterID, course.Name, course.Subject, course.Grade, course.Description,
			course.StartDate, course.EndDate, course.Status, course.TeacherID, course.PendingTeacherID, course.InvitationStatus).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// GetByCenterID retrieves the courses of a center
func (r *CourseRepository) GetByCenterID(ctx context.Context, centerID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"center_id": centerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get courses by center query: %w", err)
	}

	return r.queryCourses(ctx, sql, args)
}

// GetByTeacherID retrieves the courses taught by a teacher
func (r *CourseRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get courses by teacher query: %w", err)
	}

	return r.queryCourses(ctx, sql, args)
}

// CountByTeacherID counts the courses taught by a teacher
func (r *CourseRepository) CountByTeacherID(ctx context.Context, teacherID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM courses WHERE teacher_id = $1`, teacherID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting courses by teacher: %w", err)
	}
	return count, nil
}

// Update updates the descriptive fields of a course. Invitation columns are
// only changed through SetPendingInvitation and the respond operations.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", course.Name).
		Set("subject", course.Subject).
		Set("grade", course.Grade).
		Set("description", course.Description).
		Set("start_date", course.StartDate).
		Set("end_date", course.EndDate).
		Set("status", course.Status).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete deletes a course. The delete is rejected while enrollments still
// reference the course.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	var hasEnrollments bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1)`, id).Scan(&hasEnrollments)
	if err != nil {
		return fmt.Errorf("error checking course enrollments: %w", err)
	}
	if hasEnrollments {
		return apperrors.ErrCourseHasEnrollments
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		// An enrollment created between the check and the delete still
		// trips the RESTRICT reference.
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseHasEnrollments
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// SetPendingInvitation records an invitation for a teacher. Any previous
// invitation state is overwritten; the assigned teacher is untouched until
// the invitee responds.
func (r *CourseRepository) SetPendingInvitation(ctx context.Context, courseID, teacherID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET pending_teacher_id = $1, invitation_status = $2
		WHERE id = $3`,
		teacherID, models.InvitationPending, courseID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("teacherID", teacherID).
			Msg("Error executing set pending invitation query")
		return fmt.Errorf("error setting pending invitation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// AcceptInvitation atomically accepts a pending invitation. The update is
// keyed on the PENDING state and the invited teacher, so a stale or foreign
// respond matches zero rows and reports false.
func (r *CourseRepository) AcceptInvitation(ctx context.Context, courseID, teacherID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET teacher_id = $1, pending_teacher_id = NULL, invitation_status = $2
		WHERE id = $3 AND invitation_status = $4 AND pending_teacher_id = $1`,
		teacherID, models.InvitationAccepted, courseID, models.InvitationPending)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("teacherID", teacherID).
			Msg("Error executing accept invitation query")
		return false, fmt.Errorf("error accepting invitation: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// RejectInvitation atomically rejects a pending invitation, leaving the
// course without a teacher.
func (r *CourseRepository) RejectInvitation(ctx context.Context, courseID, teacherID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET teacher_id = NULL, pending_teacher_id = NULL, invitation_status = $1
		WHERE id = $2 AND invitation_status = $3 AND pending_teacher_id = $4`,
		models.InvitationRejected, courseID, models.InvitationPending, teacherID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("teacherID", teacherID).
			Msg("Error executing reject invitation query")
		return false, fmt.Errorf("error rejecting invitation: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// TeacherTeachesAtCenter checks whether a teacher runs at least one course
// at the given center.
func (r *CourseRepository) TeacherTeachesAtCenter(ctx context.Context, centerID, teacherID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE center_id = $1 AND teacher_id = $2)`,
		centerID, teacherID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teaching relation: %w", err)
	}
	return exists, nil
}

// GetPendingInvitationsByTeacherID retrieves the courses currently inviting a teacher
func (r *CourseRepository) GetPendingInvitationsByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"pending_teacher_id": teacherID}).
		Where(squirrel.Eq{"invitation_status": models.InvitationPending}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get pending invitations query: %w", err)
	}

	return r.queryCourses(ctx, sql, args)
}

func (r *CourseRepository) queryCourses(ctx context.Context, sql string, args []interface{}) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}
