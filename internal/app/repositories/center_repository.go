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

var centerColumns = []string{"id", "name", "manager_id", "phone_number", "description", "created_at"}

// CenterRepository handles center database operations
type CenterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCenterRepository creates a new CenterRepository
func NewCenterRepository(db *pgxpool.Pool) *CenterRepository {
	return &CenterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCenter(row pgx.Row) (*models.Center, error) {
	center := &models.Center{}
	err := row.Scan(
		&center.ID,
		&center.Name,
		&center.ManagerID,
		&center.PhoneNumber,
		&center.Description,
		&center.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return center, nil
}

// Create inserts a new center and returns the generated ID
func (r *CenterRepository) Create(ctx context.Context, center *models.Center) (int64, error) {
	sql, args, err := r.sb.Insert("centers").
		Columns("name", "manager_id", "phone_number", "description").
		Values(center.Name, center.ManagerID, center.PhoneNumber, center.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create center query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create center query")
		return 0, fmt.Errorf("error creating center: %w", err)
	}

	return id, nil
}

// GetByID retrieves a center by ID
func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*models.Center, error) {
	sql, args, err := r.sb.Select(centerColumns...).
		From("centers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get center query: %w", err)
	}

	center, err := scanCenter(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCenterNotFound
		}
		logger.Error().Err(err).Int64("centerID", id).Msg("Error scanning center row")
		return nil, fmt.Errorf("error getting center by ID: %w", err)
	}

	return center, nil
}

// GetAll retrieves all centers
func (r *CenterRepository) GetAll(ctx context.Context) ([]*models.Center, error) {
	sql, args, err := r.sb.Select(centerColumns...).
		From("centers").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all centers query: %w", err)
	}

	return r.queryCenters(ctx, sql, args)
}

// GetByManagerID retrieves the centers managed by a teacher
func (r *CenterRepository) GetByManagerID(ctx context.Context, managerID int64) ([]*models.Center, error) {
	sql, args, err := r.sb.Select(centerColumns...).
		From("centers").
		Where(squirrel.Eq{"manager_id": managerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get centers by manager query: %w", err)
	}

	return r.queryCenters(ctx, sql, args)
}

// GetTeachingByTeacherID retrieves the distinct centers where a teacher runs
// at least one course without being the center manager.
func (r *CenterRepository) GetTeachingByTeacherID(ctx context.Context, teacherID int64) ([]*models.Center, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.name", "c.manager_id", "c.phone_number", "c.description", "c.created_at").
		Distinct().
		From("centers c").
		Join("courses co ON co.center_id = c.id").
		Where(squirrel.Eq{"co.teacher_id": teacherID}).
		Where(squirrel.NotEq{"c.manager_id": teacherID}).
		OrderBy("c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teaching centers query: %w", err)
	}

	return r.queryCenters(ctx, sql, args)
}

// GetTeachersByCenterID retrieves the distinct teachers of a center's courses
func (r *CenterRepository) GetTeachersByCenterID(ctx context.Context, centerID int64) ([]*models.User, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.first_name", "u.last_name", "u.email", "u.personal_email", "u.password",
		"u.phone_number", "u.date_of_birth", "u.role_type", "u.is_enabled", "u.is_locked", "u.created_at").
		Distinct().
		From("users u").
		Join("courses co ON co.teacher_id = u.id").
		Where(squirrel.Eq{"co.center_id": centerID}).
		OrderBy("u.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get center teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("centerID", centerID).Msg("Error executing get center teachers query")
		return nil, fmt.Errorf("error querying center teachers: %w", err)
	}
	defer rows.Close()

	teachers := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning teacher row: %w", err)
		}
		teachers = append(teachers, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teachers, nil
}

// CountByManagerID counts the centers managed by a teacher
func (r *CenterRepository) CountByManagerID(ctx context.Context, managerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM centers WHERE manager_id = $1`, managerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting centers by manager: %w", err)
	}
	return count, nil
}

// Update updates an existing center
func (r *CenterRepository) Update(ctx context.Context, center *models.Center) error {
	sql, args, err := r.sb.Update("centers").
		Set("name", center.Name).
		Set("phone_number", center.PhoneNumber).
		Set("description", center.Description).
		Where(squirrel.Eq{"id": center.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update center query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("centerID", center.ID).Msg("Error executing update center query")
		return fmt.Errorf("error updating center: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCenterNotFound
	}

	return nil
}

// Delete deletes a center. The delete is rejected while courses still
// reference the center.
func (r *CenterRepository) Delete(ctx context.Context, id int64) error {
	var hasCourses bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE center_id = $1)`, id).Scan(&hasCourses)
	if err != nil {
		return fmt.Errorf("error checking center courses: %w", err)
	}
	if hasCourses {
		return apperrors.ErrCenterHasCourses
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM centers WHERE id = $1`, id)
	if err != nil {
		// A course created between the check and the delete still trips
		// the RESTRICT reference.
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCenterHasCourses
		}
		logger.Error().Err(err).Int64("centerID", id).Msg("Error deleting center")
		return fmt.Errorf("error deleting center: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCenterNotFound
	}

	return nil
}

func (r *CenterRepository) queryCenters(ctx context.Context, sql string, args []interface{}) ([]*models.Center, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing centers query")
		return nil, fmt.Errorf("error querying centers: %w", err)
	}
	defer rows.Close()

	centers := []*models.Center{}
	for rows.Next() {
		center, err := scanCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning center row: %w", err)
		}
		centers = append(centers, center)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return centers, nil
}
