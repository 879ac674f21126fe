package services

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	datadb "github.com/yungbote/contentflow-backend/internal/data/db"
	"github.com/yungbote/contentflow-backend/internal/data/repos"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainuser "github.com/yungbote/contentflow-backend/internal/domain/user"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/apierr"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type CreateUserInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
}

type UserService interface {
	CreateUser(dbc dbctx.Context, in CreateUserInput) (*types.User, error)
	GetUser(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	ListUsers(dbc dbctx.Context) ([]*types.User, error)
	UpdateUser(dbc dbctx.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error)
	DeleteUser(dbc dbctx.Context, id uuid.UUID) error
	AddKeciTime(dbc dbctx.Context, id uuid.UUID, keciTime string) error
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	accessRepo  repos.UserSeriesAccessRepo
	progression ProgressionService
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	accessRepo repos.UserSeriesAccessRepo,
	progression ProgressionService,
) UserService {
	return &userService{
		db:          db,
		log:         baseLog.With("service", "UserService"),
		userRepo:    userRepo,
		accessRepo:  accessRepo,
		progression: progression,
	}
}

func normalizeRole(role string) (string, error) {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case "":
		return domainuser.RoleUser, nil
	case domainuser.RoleUser, domainuser.RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", role, pkgerrors.ErrInvalidArgument)
	}
}

// CreateUser stores the user and grants every series plus the article track.
func (s *userService) CreateUser(dbc dbctx.Context, in CreateUserInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("invalid email: %w", pkgerrors.ErrInvalidArgument)
	}
	role, err := normalizeRole(in.Role)
	if err != nil {
		return nil, err
	}
	u := &types.User{
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      role,
	}

	err = withTx(dbc, s.db, func(inner dbctx.Context) error {
		exists, err := s.userRepo.EmailExists(inner, email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("email already registered: %w", pkgerrors.ErrConflict)
		}
		if _, err := s.userRepo.Create(inner, []*types.User{u}); err != nil {
			if datadb.IsUniqueViolation(err, "") {
				return fmt.Errorf("email already registered: %w", pkgerrors.ErrConflict)
			}
			return fmt.Errorf("create user: %w", err)
		}
		sum, err := s.progression.GrantAccessForUser(inner, u.ID)
		if err != nil {
			return fmt.Errorf("grant user access: %w", err)
		}
		s.log.Info("user created", "user_id", u.ID, "granted", sum.GrantedCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) GetUser(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	found, err := s.userRepo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user %s: %w", id, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (s *userService) ListUsers(dbc dbctx.Context) ([]*types.User, error) {
	return s.userRepo.ListAll(dbc)
}

func (s *userService) UpdateUser(dbc dbctx.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error) {
	var out *types.User
	err := withTx(dbc, s.db, func(inner dbctx.Context) error {
		u, err := s.GetUser(inner, id)
		if err != nil {
			return err
		}
		if in.FirstName != nil || in.LastName != nil {
			first, last := u.FirstName, u.LastName
			if in.FirstName != nil {
				first = strings.TrimSpace(*in.FirstName)
			}
			if in.LastName != nil {
				last = strings.TrimSpace(*in.LastName)
			}
			if err := s.userRepo.UpdateName(inner, id, first, last); err != nil {
				return err
			}
		}
		if in.Role != nil {
			role, err := normalizeRole(*in.Role)
			if err != nil {
				return err
			}
			if err := s.userRepo.UpdateRole(inner, id, role); err != nil {
				return err
			}
		}
		out, err = s.GetUser(inner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *userService) DeleteUser(dbc dbctx.Context, id uuid.UUID) error {
	return withTx(dbc, s.db, func(inner dbctx.Context) error {
		if _, err := s.GetUser(inner, id); err != nil {
			return err
		}
		if err := s.accessRepo.DeleteByUser(inner, id); err != nil {
			return fmt.Errorf("delete user access: %w", err)
		}
		return s.userRepo.Delete(inner, id)
	})
}

// AddKeciTime rejects users that exist and writes for users that do not,
// which updates nothing.
// TODO(product): the found-check looks inverted; confirm the intended rule
// before changing it.
func (s *userService) AddKeciTime(dbc dbctx.Context, id uuid.UUID, keciTime string) error {
	keciTime = strings.TrimSpace(keciTime)
	if _, err := time.Parse("15:04", keciTime); err != nil {
		return fmt.Errorf("keci_time must be HH:MM: %w", pkgerrors.ErrInvalidArgument)
	}
	found, err := s.userRepo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if len(found) > 0 && found[0] != nil {
		return apierr.Conflict("keci_time_rejected", fmt.Errorf("keci time rejected for user %s", id))
	}
	n, err := s.userRepo.UpdateKeciTime(dbc, id, keciTime)
	if err != nil {
		return err
	}
	s.log.Warn("keci time written for unknown user", "user_id", id, "rows", n)
	return nil
}
