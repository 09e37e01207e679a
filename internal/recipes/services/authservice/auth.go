package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/userrepo"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrInvalidToken       = errors.New("invalid authentication token")
)

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByEmail(context.Context, string) (models.User, error)
	GetUserByID(context.Context, int64) (models.User, error)
	UpdateUser(context.Context, models.User) (models.User, error)
	GetUserByToken(context.Context, string) (models.User, error)
	GetOrCreateToken(context.Context, int64, string) (string, error)
}

type AuthService struct {
	userRepo Repository
}

func New(userRepo Repository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.User{}, validation.New("email", "enter a valid email address")
	}

	if req.Password == "" {
		return models.User{}, validation.New("password", "this field may not be blank")
	}

	if len(req.Password) < minPasswordLen {
		return models.User{}, validation.New("password",
			fmt.Sprintf("ensure this field has at least %d characters", minPasswordLen))
	}

	return as.createUser(ctx, email, req.Password, req.Name, false)
}

// CreateSuperuser is the administrative bootstrap path. It skips the
// minimum password length check, matching how superusers have always
// been minted here.
func (as *AuthService) CreateSuperuser(ctx context.Context, email, password string) (models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return models.User{}, validation.New("email", "enter a valid email address")
	}

	if password == "" {
		return models.User{}, validation.New("password", "this field may not be blank")
	}

	return as.createUser(ctx, normalized, password, "", true)
}

func (as *AuthService) createUser(ctx context.Context, email, password, name string, super bool) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Active:       true,
		Staff:        super,
		Superuser:    super,
	}

	u, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, validation.New("email", "user with this email already exists")
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	return u, nil
}

// Login verifies the credentials and returns the user's opaque token,
// minting one on first login and reusing it afterwards.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	u, err := as.userRepo.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if !u.Active {
		return "", ErrInvalidCredentials
	}

	token, err := as.userRepo.GetOrCreateToken(ctx, u.ID, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("get or create token error: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (as *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	u, err := as.userRepo.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, userrepo.ErrTokenNotFound) {
			return models.User{}, ErrInvalidToken
		}

		return models.User{}, fmt.Errorf("get user by token error: %w", err)
	}

	if !u.Active {
		return models.User{}, ErrInvalidToken
	}

	return u, nil
}

func (as *AuthService) Profile(ctx context.Context, userID int64) (models.User, error) {
	u, err := as.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

func (as *AuthService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (models.User, error) {
	u, err := as.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Email != nil {
		email, errN := normalizeEmail(*req.Email)
		if errN != nil {
			return models.User{}, validation.New("email", "enter a valid email address")
		}

		u.Email = email
	}

	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return models.User{}, validation.New("password",
				fmt.Sprintf("ensure this field has at least %d characters", minPasswordLen))
		}

		hash, errH := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if errH != nil {
			return models.User{}, fmt.Errorf("generate from password error: %w", errH)
		}

		u.PasswordHash = string(hash)
	}

	u, err = as.userRepo.UpdateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, validation.New("email", "user with this email already exists")
		}

		return models.User{}, fmt.Errorf("update user error: %w", err)
	}

	return u, nil
}

// normalizeEmail lowercases the domain part, leaving the local part as
// given. An email must have a non-empty local part and domain.
func normalizeEmail(email string) (string, error) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("malformed email %q", email)
	}

	local, domain := email[:at], email[at+1:]
	if strings.ContainsAny(domain, " \t") || strings.ContainsAny(local, " \t") {
		return "", fmt.Errorf("malformed email %q", email)
	}

	return local + "@" + strings.ToLower(domain), nil
}
