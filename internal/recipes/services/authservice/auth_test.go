package authservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/userrepo"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/validation"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[int64]models.User
	tokens map[string]int64
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[int64]models.User),
		tokens: make(map[string]int64),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u models.User) (models.User, error) {
	for _, other := range f.users {
		if other.Email == u.Email {
			return models.User{}, userrepo.ErrAlreadyExists
		}
	}

	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u

	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return models.User{}, userrepo.ErrNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, u models.User) (models.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	for id, other := range f.users {
		if id != u.ID && other.Email == u.Email {
			return models.User{}, userrepo.ErrAlreadyExists
		}
	}

	f.users[u.ID] = u

	return u, nil
}

func (f *fakeUserRepo) GetUserByToken(_ context.Context, token string) (models.User, error) {
	id, ok := f.tokens[token]
	if !ok {
		return models.User{}, userrepo.ErrTokenNotFound
	}

	return f.users[id], nil
}

func (f *fakeUserRepo) GetOrCreateToken(_ context.Context, userID int64, fresh string) (string, error) {
	for token, id := range f.tokens {
		if id == userID {
			return token, nil
		}
	}

	f.tokens[fresh] = userID

	return fresh, nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name      string
		req       authservice.RegisterRequest
		wantField string
	}{
		{
			name: "ok",
			req:  authservice.RegisterRequest{Email: "test@x.me", Password: "password12345", Name: "Test"},
		},
		{
			name:      "short password",
			req:       authservice.RegisterRequest{Email: "test@x.me", Password: "short", Name: "Test"},
			wantField: "password",
		},
		{
			name:      "blank password",
			req:       authservice.RegisterRequest{Email: "test@x.me", Password: "", Name: "Test"},
			wantField: "password",
		},
		{
			name:      "malformed email",
			req:       authservice.RegisterRequest{Email: "not-an-email", Password: "password12345", Name: "Test"},
			wantField: "email",
		},
		{
			name:      "missing local part",
			req:       authservice.RegisterRequest{Email: "@x.me", Password: "password12345", Name: "Test"},
			wantField: "email",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			as := authservice.New(newFakeUserRepo())

			u, err := as.Register(context.Background(), tc.req)
			if tc.wantField != "" {
				vErr := new(validation.Error)
				require.ErrorAs(t, err, &vErr)
				require.Contains(t, vErr.Fields, tc.wantField)

				return
			}

			require.NoError(t, err)
			require.NotZero(t, u.ID)
			require.True(t, u.Active)
			require.False(t, u.Staff)
			require.False(t, u.Superuser)
			require.NotEqual(t, tc.req.Password, u.PasswordHash)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tc.req.Password)))
		})
	}
}

func TestRegisterNormalizesEmailDomain(t *testing.T) {
	as := authservice.New(newFakeUserRepo())

	u, err := as.Register(context.Background(),
		authservice.RegisterRequest{Email: "Test@EXAMPLE.Com", Password: "password12345", Name: "Test"})
	require.NoError(t, err)
	require.Equal(t, "Test@example.com", u.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	as := authservice.New(newFakeUserRepo())

	req := authservice.RegisterRequest{Email: "test@x.me", Password: "password12345", Name: "Test"}

	_, err := as.Register(context.Background(), req)
	require.NoError(t, err)

	req.Email = "test@X.ME" // same address after domain normalization

	_, err = as.Register(context.Background(), req)

	vErr := new(validation.Error)
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "email")
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo)

	_, err := as.Register(context.Background(),
		authservice.RegisterRequest{Email: "test@x.me", Password: "password12345", Name: "Test"})
	require.NoError(t, err)

	token, err := as.Login(context.Background(), "test@x.me", "password12345")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := as.Login(context.Background(), "test@x.me", "password12345")
	require.NoError(t, err)
	require.Equal(t, token, again, "token must be reused, not rotated")

	u, err := as.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "test@x.me", u.Email)
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo)

	_, err := as.Register(context.Background(),
		authservice.RegisterRequest{Email: "test@x.me", Password: "password12345", Name: "Test"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "test@x.me", "wrongpassword"},
		{"unknown email", "nobody@x.me", "password12345"},
		{"blank email", "", "password12345"},
		{"blank password", "test@x.me", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := as.Login(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
		})
	}
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo)

	u, err := as.Register(context.Background(),
		authservice.RegisterRequest{Email: "test@x.me", Password: "password12345", Name: "Test"})
	require.NoError(t, err)

	u.Active = false
	_, err = repo.UpdateUser(context.Background(), u)
	require.NoError(t, err)

	_, err = as.Login(context.Background(), "test@x.me", "password12345")
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	as := authservice.New(newFakeUserRepo())

	_, err := as.Authenticate(context.Background(), "no-such-token")
	require.ErrorIs(t, err, authservice.ErrInvalidToken)
}

func TestCreateSuperuser(t *testing.T) {
	as := authservice.New(newFakeUserRepo())

	// the bootstrap path has no minimum length check
	u, err := as.CreateSuperuser(context.Background(), "admin@x.me", "abc")
	require.NoError(t, err)
	require.True(t, u.Staff)
	require.True(t, u.Superuser)
	require.True(t, u.Active)

	_, err = as.CreateSuperuser(context.Background(), "admin@x.me", "")
	vErr := new(validation.Error)
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "password")
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo)

	u, err := as.Register(context.Background(),
		authservice.RegisterRequest{Email: "test@x.me", Password: "password12345", Name: "Old Name"})
	require.NoError(t, err)

	name := "New Name"
	password := "newpassword99"

	updated, err := as.UpdateProfile(context.Background(), u.ID,
		authservice.UpdateProfileRequest{Name: &name, Password: &password})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "test@x.me", updated.Email, "email untouched on partial update")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(password)))

	short := "short"
	_, err = as.UpdateProfile(context.Background(), u.ID,
		authservice.UpdateProfileRequest{Password: &short})

	vErr := new(validation.Error)
	require.True(t, errors.As(err, &vErr))
	require.Contains(t, vErr.Fields, "password")
}
