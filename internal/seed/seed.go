package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/extracenter/backend/internal/app/models"
	appRepos "github.com/extracenter/backend/internal/app/repositories"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

// Default admin credentials. The password must be changed after first login.
const (
	defaultAdminEmail    = "admin@ecm.edu.vn"
	defaultAdminPassword = "ChangeMe123!"
)

// CreateDefaultData creates the default admin account if it doesn't exist.
// Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default admin account...")

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking default admin account")
		return err
	}
	if exists {
		lgr.Debug().Msg("Default admin account already present")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}

	admin := &appModels.User{
		FirstName:     "System",
		LastName:      "Administrator",
		Email:         defaultAdminEmail,
		PersonalEmail: defaultAdminEmail,
		Password:      string(hash),
		RoleType:      appModels.RoleAdmin,
		IsEnabled:     true,
		IsLocked:      false,
	}

	id, err := userRepo.Create(ctx, admin)
	if err != nil {
		// Concurrent startup may have created it meanwhile
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}

	lgr.Info().Int64("adminID", id).Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}
