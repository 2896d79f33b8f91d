package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/ctxutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/views"
)

const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// Tokens is the pair handed out at login and refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	// Logout revokes the session of the bearer token on ctx.
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*views.Staff, error)
	// SetContextFromToken verifies a bearer token and attaches the caller's
	// request data. The token must be signed, unexpired and still on record.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func invalidCredentials() error {
	return apierr.New(http.StatusUnauthorized, CodeInvalidCredentials, errors.New("unable to log in with provided credentials"))
}

func invalidToken(err error) error {
	if err == nil {
		err = errors.New("invalid or expired token")
	}
	return apierr.New(http.StatusUnauthorized, CodeInvalidToken, err)
}

func (as *authService) Login(ctx context.Context, username, password string) (*Tokens, error) {
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		errs := fieldErrs{}
		if username == "" {
			errs.set("username", msgRequired)
		}
		if password == "" {
			errs.set("password", msgRequired)
		}
		return nil, errs.err()
	}

	u, err := as.userRepo.GetByUsername(dbctx.New(ctx), username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !u.IsActive {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	var out *Tokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.userTokenRepo.GetByUserIDs(dbc, []uuid.UUID{u.ID})
		if err != nil {
			return fmt.Errorf("check user tokens: %w", err)
		}
		var expired []*types.UserToken
		now := time.Now()
		for _, t := range existing {
			if t.ExpiresAt.Before(now) {
				expired = append(expired, t)
			}
		}
		if len(expired) > 0 {
			if err := as.userTokenRepo.FullDeleteByTokens(dbc, expired); err != nil {
				return fmt.Errorf("delete expired user tokens: %w", err)
			}
		}
		out, err = as.issue(dbc, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User logged in", "user_id", u.ID)
	return out, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Validation("refresh_token", msgRequired)
	}
	var out *Tokens
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("fetch refresh token: %w", err)
		}
		if len(found) == 0 {
			return invalidToken(errors.New("unknown refresh token"))
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.FullDeleteByTokens(dbc, []*types.UserToken{existing}); err != nil {
				return fmt.Errorf("delete expired refresh token: %w", err)
			}
			return invalidToken(errors.New("refresh token expired"))
		}
		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 || !users[0].IsActive {
			return invalidToken(errors.New("no active user for refresh token"))
		}
		if err := as.userTokenRepo.FullDeleteByTokens(dbc, []*types.UserToken{existing}); err != nil {
			return fmt.Errorf("remove old refresh token: %w", err)
		}
		out, err = as.issue(dbc, users[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthenticated()
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("find user token: %w", err)
		}
		if len(found) == 0 {
			return nil
		}
		if err := as.userTokenRepo.FullDeleteByTokens(dbc, found); err != nil {
			return fmt.Errorf("delete user token: %w", err)
		}
		return nil
	})
}

func (as *authService) Me(ctx context.Context) (*views.Staff, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	users, err := as.userRepo.GetByIDs(dbctx.New(ctx), []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user")
	}
	out := views.NewStaff(users[0])
	return &out, nil
}

// issue creates a token row for u. The jti keeps two tokens minted in the
// same second distinct.
func (as *authService) issue(dbc dbctx.Context, u *types.User) (*Tokens, error) {
	access, err := as.generateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		as.log.Warn("Create User Token Error", "error", err)
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int64(as.accessTTL / time.Second),
	}, nil
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, invalidToken(fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, invalidToken(nil)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, invalidToken(fmt.Errorf("invalid user id in token: %w", err))
	}

	dbc := dbctx.New(ctx)
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("fetch user token: %w", err)
	}
	if len(found) == 0 || found[0].UserID != userID {
		return ctx, invalidToken(errors.New("session revoked"))
	}
	users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load token user: %w", err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return ctx, invalidToken(errors.New("user inactive or deleted"))
	}
	u := users[0]
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      u.ID,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
