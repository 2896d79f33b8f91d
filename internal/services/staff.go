package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/db"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/views"
)

const (
	minPasswordLen   = 8
	msgUsernameTaken = "a user with that username already exists"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// StaffInput creates a staff account. Accounts are always staff; the flag
// only chooses whether they also manage other accounts.
type StaffInput struct {
	Username    *string `json:"username" form:"username"`
	Email       *string `json:"email" form:"email"`
	Password    *string `json:"password" form:"password"`
	IsSuperuser *bool   `json:"is_superuser" form:"is_superuser"`
}

type StaffService interface {
	Create(ctx context.Context, in *StaffInput) (*views.Staff, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type staffService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewStaffService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) StaffService {
	return &staffService{db: db, log: baseLog.With("service", "StaffService"), userRepo: userRepo}
}

func (s *staffService) validate(in *StaffInput) (*types.User, error) {
	errs := fieldErrs{}
	username := errs.text("username", in.Username, 150, true, false)
	if username != nil {
		*username = normalization.ParseInputString(*username)
		if !usernamePattern.MatchString(*username) {
			errs.set("username", "enter a valid username: letters, digits and @/./+/-/_ only")
		}
	}
	email := errs.text("email", in.Email, 254, false, false)
	if email != nil && *email != "" {
		*email = normalization.ParseInputString(*email)
		if at := strings.Index(*email, "@"); at <= 0 || at == len(*email)-1 {
			errs.set("email", "enter a valid email address")
		}
	}
	switch {
	case in.Password == nil || *in.Password == "":
		errs.set("password", msgRequired)
	case utf8.RuneCountInString(*in.Password) < minPasswordLen:
		errs.set("password", fmt.Sprintf("ensure this field has at least %d characters", minPasswordLen))
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &types.User{
		Username:    *username,
		Email:       deref(email, ""),
		Password:    string(hash),
		IsStaff:     true,
		IsSuperuser: deref(in.IsSuperuser, false),
		IsActive:    true,
	}, nil
}

func (s *staffService) Create(ctx context.Context, in *StaffInput) (*views.Staff, error) {
	u, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.userRepo.UsernameExists(dbc, u.Username)
		if err != nil {
			return err
		}
		if exists {
			return apierr.Validation("username", msgUsernameTaken)
		}
		if _, err := s.userRepo.Create(dbc, []*types.User{u}); err != nil {
			if db.IsUniqueViolation(err) {
				return apierr.Validation("username", msgUsernameTaken)
			}
			return fmt.Errorf("create staff account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Staff account created", "user_id", u.ID, "is_superuser", u.IsSuperuser)
	out := views.NewStaff(u)
	return &out, nil
}

// Delete removes the account and its sessions. Self-deletion is refused by
// the access policy before this runs.
func (s *staffService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.userRepo.FullDeleteByID(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apierr.NotFound("user")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("Staff account deleted", "user_id", id)
	return nil
}
