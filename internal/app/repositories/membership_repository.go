package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/dberrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// MembershipRepository handles the student-center membership ledger.
// Uniqueness of (center_id, student_id) is enforced by the database, so
// concurrent assigns of the same pair cannot both succeed.
type MembershipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Assign inserts a membership row. A duplicate pair surfaces as
// apperrors.ErrAlreadyMember via the unique constraint, without a prior
// existence check.
func (r *MembershipRepository) Assign(ctx context.Context, centerID, studentID int64) error {
	sql, args, err := r.sb.Insert("center_memberships").
		Columns("center_id", "student_id").
		Values(centerID, studentID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign membership query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyMember
		}
		logger.Error().Err(err).Int64("centerID", centerID).Int64("studentID", studentID).
			Msg("Error executing assign membership query")
		return fmt.Errorf("error assigning student to center: %w", err)
	}

	return nil
}

// Remove deletes a membership row. Removing a non-member reports
// apperrors.ErrNotMember. Enrollments are never touched.
func (r *MembershipRepository) Remove(ctx context.Context, centerID, studentID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM center_memberships WHERE center_id = $1 AND student_id = $2`,
		centerID, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("centerID", centerID).Int64("studentID", studentID).
			Msg("Error executing remove membership query")
		return fmt.Errorf("error removing student from center: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}

	return nil
}

// Exists checks whether a student is a member of a center
func (r *MembershipRepository) Exists(ctx context.Context, centerID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM center_memberships WHERE center_id = $1 AND student_id = $2)`,
		centerID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// ListStudentsByCenterID retrieves the students of a center in the order the
// memberships were created.
func (r *MembershipRepository) ListStudentsByCenterID(ctx context.Context, centerID int64) ([]*models.User, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.first_name", "u.last_name", "u.email", "u.personal_email", "u.password",
		"u.phone_number", "u.date_of_birth", "u.role_type", "u.is_enabled", "u.is_locked", "u.created_at").
		From("center_memberships m").
		Join("users u ON u.id = m.student_id").
		Where(squirrel.Eq{"m.center_id": centerID}).
		OrderBy("m.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list center students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("centerID", centerID).Msg("Error executing list center students query")
		return nil, fmt.Errorf("error listing center students: %w", err)
	}
	defer rows.Close()

	students := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		students = append(students, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// CountByStudentID counts the centers a student belongs to
func (r *MembershipRepository) CountByStudentID(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM center_memberships WHERE student_id = $1`, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting memberships: %w", err)
	}
	return count, nil
}
