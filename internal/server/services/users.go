// Package services contains server-side business logic. UserService owns
// the credential store and the session token registry. TaskService scopes
// every task operation to its owner. AvatarService processes and stores
// profile pictures.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/dbx"
	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/auth"
	"github.com/dmitrijs2005/taskmanager/internal/server/config"
	"github.com/dmitrijs2005/taskmanager/internal/server/mailer"
	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/avatars"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Password = strings.TrimSpace(in.Password)
}

func (in *RegisterInput) validate() error {
	return fromValidation(validation.ValidateStruct(in,
		validation.Field(&in.Name, nameRules()...),
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.Password, passwordRules()...),
		validation.Field(&in.Age, ageRules()...),
	))
}

// UserService handles accounts and their session tokens:
//   - Register / Login issue a fresh token
//   - Logout / LogoutAll revoke one or every token
//   - Authenticate resolves a token back to its user
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	avatars               avatars.Repository
	mailer                mailer.Mailer
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	notify                *notifier
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, av avatars.Repository, ml mailer.Mailer, cfg *config.Config, l logging.Logger) *UserService {
	l = l.With("module", "users")
	return &UserService{
		db:                    db,
		repomanager:           m,
		avatars:               av,
		mailer:                ml,
		logger:                l,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		notify:                &notifier{logger: l},
	}
}

// Register validates the input, stores the user with a hashed password and
// issues the first session token. The welcome email is sent in the background.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	var (
		user  *models.User
		token string
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			Age:          in.Age,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.NewFieldError("email", "is already taken")
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		user = u
		token, err = s.issueToken(ctx, tx, u.ID)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	s.notify.Go(ctx, "welcome email", func(ctx context.Context) error {
		return s.mailer.SendWelcome(ctx, user.Email, user.Name)
	})
	return user, token, nil
}

// Login verifies the credentials and issues a new token. Every failure is
// reported as common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login failed", "reason", "user not found")
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := auth.ComparePassword(strings.TrimSpace(password), user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			s.logger.Info(ctx, "login failed", "reason", "password mismatch", "user_id", user.ID)
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, s.db, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken mints a token for userID and adds it to the user's token set.
func (s *UserService) IssueToken(ctx context.Context, userID string) (string, error) {
	return s.issueToken(ctx, s.db, userID)
}

func (s *UserService) issueToken(ctx context.Context, db dbx.DBTX, userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	if err := s.repomanager.Tokens(db).Create(ctx, userID, token); err != nil {
		return "", fmt.Errorf("error saving token: %w", err)
	}
	return token, nil
}

// Logout revokes exactly token. Revoking an unknown token is a no-op.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, userID, token); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	return nil
}

// LogoutAll revokes every token of userID.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	n, err := s.repomanager.Tokens(s.db).DeleteAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("error deleting tokens: %w", err)
	}
	s.logger.Info(ctx, "all sessions revoked", "user_id", userID, "count", n)
	return nil
}

// Authenticate resolves token to its user. The signature must verify, the
// token must still be in the user's token set and the user must exist.
// Any failure yields common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}

	ok, err := s.repomanager.Tokens(s.db).Exists(ctx, userID, token)
	if err != nil {
		s.logger.Error(ctx, "token lookup failed", "user_id", userID, "error", err)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		s.logger.Debug(ctx, "token revoked", "user_id", userID)
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "user lookup failed", "user_id", userID, "error", err)
		}
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Profile returns the user.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// UpdateProfile applies patch to the user. Only name, email, password and
// age may be changed; values are checked with the signup rules and a new
// password is hashed.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*models.User, error) {
	if err := checkPatchKeys(patch, "name", "email", "password", "age"); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}

	if v, ok, err := patchString(patch, "name"); err != nil {
		return nil, err
	} else if ok {
		user.Name = strings.TrimSpace(v)
		errs["name"] = validation.Validate(user.Name, nameRules()...)
	}

	if v, ok, err := patchString(patch, "email"); err != nil {
		return nil, err
	} else if ok {
		user.Email = strings.ToLower(strings.TrimSpace(v))
		errs["email"] = validation.Validate(user.Email, emailRules()...)
	}

	if v, ok, err := patchInt(patch, "age"); err != nil {
		return nil, err
	} else if ok {
		user.Age = v
		errs["age"] = validation.Validate(user.Age, ageRules()...)
	}

	password, passwordSet, err := patchString(patch, "password")
	if err != nil {
		return nil, err
	}
	if passwordSet {
		password = strings.TrimSpace(password)
		errs["password"] = validation.Validate(password, passwordRules()...)
	}

	if err := fromValidation(errs.Filter()); err != nil {
		return nil, err
	}

	if passwordSet {
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewFieldError("email", "is already taken")
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's tasks, tokens and the user in a single
// transaction. Afterwards the avatar is removed and a cancellation email is
// sent in the background.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := s.repomanager.Tasks(tx).DeleteByOwner(ctx, userID); err != nil {
			return fmt.Errorf("error deleting tasks: %w", err)
		}
		if _, err := s.repomanager.Tokens(tx).DeleteAll(ctx, userID); err != nil {
			return fmt.Errorf("error deleting tokens: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user deleted", "user_id", user.ID)
	s.notify.Go(ctx, "avatar cleanup", func(ctx context.Context) error {
		return s.avatars.Delete(ctx, user.ID)
	})
	s.notify.Go(ctx, "cancellation email", func(ctx context.Context) error {
		return s.mailer.SendCancellation(ctx, user.Email, user.Name)
	})
	return user, nil
}

// Wait blocks until background emails and cleanups have finished.
func (s *UserService) Wait() {
	s.notify.Wait()
}
