package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/dmitrijs2005/gophticket/internal/client/storage"
	"github.com/dmitrijs2005/gophticket/internal/client/store"
	"github.com/dmitrijs2005/gophticket/internal/common"
	"github.com/dmitrijs2005/gophticket/internal/cryptox"
	"github.com/dmitrijs2005/gophticket/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrFieldsRequired   = fmt.Errorf("%w: all fields are required", common.ErrValidation)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", common.ErrValidation)
)

// SignupRequest carries the signup form. ProfileImage is an already stored
// image reference and may be empty.
type SignupRequest struct {
	Name            string `validate:"required"`
	Email           string `validate:"required"`
	Phone           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=Password"`
	ProfileImage    string
}

// AuthService manages local accounts and the single session.
//
// Contract:
//   - Signup: validate, reject duplicate emails, create the account and log it in.
//   - Login: match email and password exactly against stored accounts.
//   - Logout: drop the session; safe to call when logged out.
//   - Current: return the session account or common.ErrNoSession.
//   - UpdateProfileImage: change the image of the logged-in account.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*models.Account, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.Account, error)
	UpdateProfileImage(ctx context.Context, accountID, imageRef string) (*models.Account, error)
}

type authService struct {
	mu       sync.Mutex
	store    *store.Store
	logger   logging.Logger
	validate *validator.Validate
}

func NewAuthService(st storage.Storage, logger logging.Logger) AuthService {
	return &authService{
		store:    store.New(st),
		logger:   logger,
		validate: validator.New(),
	}
}

func (a *authService) checkSignup(req SignupRequest) error {
	err := a.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrFieldsRequired
		}
	}
	return ErrPasswordMismatch
}

// Signup persists the new account and the session in one batch.
func (a *authService) Signup(ctx context.Context, req SignupRequest) (*models.Account, error) {
	if err := a.checkSignup(req); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == req.Email {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateEmail, req.Email)
		}
	}

	acc := models.Account{
		ID:           "user-" + uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     cryptox.HashPassword(req.Password),
		ProfileImage: req.ProfileImage,
	}
	users = append(users, acc)

	if err := a.store.SaveUsersAndSession(ctx, users, &acc); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	a.logger.Info(ctx, "account created", "account_id", acc.ID)
	return &acc, nil
}

// Login opens a session for the account matching email and password.
// Accounts imported with a plaintext password are upgraded to a verifier on
// their first successful login.
func (a *authService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		u := &users[i]
		if u.Email != email {
			continue
		}

		if cryptox.IsVerifier(u.Password) {
			if !cryptox.VerifyPassword(u.Password, password) {
				continue
			}
			if err := a.store.SaveCurrentUser(ctx, u); err != nil {
				return nil, fmt.Errorf("login: %w", err)
			}
		} else {
			if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
				continue
			}
			u.Password = cryptox.HashPassword(password)
			if err := a.store.SaveUsersAndSession(ctx, users, u); err != nil {
				return nil, fmt.Errorf("login: %w", err)
			}
			a.logger.Warn(ctx, "upgraded plaintext password", "account_id", u.ID)
		}

		a.logger.Info(ctx, "logged in", "account_id", u.ID)
		acc := *u
		return &acc, nil
	}

	return nil, common.ErrInvalidCredentials
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.ClearCurrentUser(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.logger.Info(ctx, "logged out")
	return nil
}

func (a *authService) Current(ctx context.Context) (*models.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return currentAccount(ctx, a.store)
}

func (a *authService) UpdateProfileImage(ctx context.Context, accountID, imageRef string) (*models.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur, err := currentAccount(ctx, a.store)
	if errors.Is(err, common.ErrNoSession) {
		return nil, fmt.Errorf("account %s: %w: %w", accountID, common.ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if cur.ID != accountID {
		return nil, fmt.Errorf("account %s: %w", accountID, common.ErrNotFound)
	}

	users, err := a.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == accountID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("account %s: %w", accountID, common.ErrNotFound)
	}

	users[idx].ProfileImage = imageRef
	cur.ProfileImage = imageRef
	if err := a.store.SaveUsersAndSession(ctx, users, cur); err != nil {
		return nil, fmt.Errorf("update profile image: %w", err)
	}

	a.logger.Info(ctx, "profile image updated", "account_id", accountID)
	return cur, nil
}

func currentAccount(ctx context.Context, st *store.Store) (*models.Account, error) {
	acc, err := st.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, common.ErrNoSession
	}
	return acc, nil
}

// AuthMessage maps an auth error to the single message shown to the user.
func AuthMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrFieldsRequired):
		return "All fields are required"
	case errors.Is(err, common.ErrDuplicateEmail):
		return "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, common.ErrNoSession):
		return "Please log in first"
	case errors.Is(err, common.ErrImageTooLarge):
		return "Image size should be less than 5MB"
	case errors.Is(err, common.ErrStorage):
		return "Saved data is corrupted; run reset to start fresh"
	default:
		return err.Error()
	}
}
