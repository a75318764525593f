package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cargo_quotes/internal/domain/entities"
	mock_interfaces "cargo_quotes/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

type authMocks struct {
	users    *mock_interfaces.MockIUserRepository
	sessions *mock_interfaces.MockISessionStore
	tokens   *mock_interfaces.MockITokenManager
}

func newAuth(t *testing.T) (*AuthUseCase, authMocks) {
	ctrl := gomock.NewController(t)
	m := authMocks{
		users:    mock_interfaces.NewMockIUserRepository(ctrl),
		sessions: mock_interfaces.NewMockISessionStore(ctrl),
		tokens:   mock_interfaces.NewMockITokenManager(ctrl),
	}
	uc := NewAuthUseCase(m.users, m.sessions, m.tokens, time.Hour, nil)
	uc.clock = fixedNow
	uc.bcryptCost = bcrypt.MinCost
	return uc, m
}

func TestAuthUseCase_Login(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		uc, m := newAuth(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.User{}, nil)

		if _, err := uc.Login(context.Background(), " Ana@Example.com ", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, m := newAuth(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(entities.User{ID: "u1", PasswordHash: hashed(t, "secret123")}, nil)

		if _, err := uc.Login(context.Background(), "ana@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("issues token", func(t *testing.T) {
		uc, m := newAuth(t)
		user := entities.User{ID: "u1", Role: entities.RoleManager, PasswordHash: hashed(t, "secret123")}
		m.users.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(user, nil)
		m.tokens.EXPECT().Issue(gomock.Any()).DoAndReturn(func(s entities.Session) (string, error) {
			if s.UserID != "u1" || s.Role != entities.RoleManager || s.SessionID == "" || !s.ExpiresAt.Equal(testNow.Add(time.Hour)) {
				t.Fatalf("unexpected session: %+v", s)
			}
			return "jwt", nil
		})

		res, err := uc.Login(context.Background(), "ana@example.com", "secret123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Token != "jwt" || res.User.ID != "u1" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	sess := entities.Session{UserID: "u1", Role: entities.RoleClient, SessionID: "sid"}

	t.Run("empty token", func(t *testing.T) {
		uc, _ := newAuth(t)
		if _, err := uc.Authenticate(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		uc, m := newAuth(t)
		m.tokens.EXPECT().Parse("bad").Return(entities.Session{}, errors.New("signature"))
		if _, err := uc.Authenticate(context.Background(), "bad"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		uc, m := newAuth(t)
		m.tokens.EXPECT().Parse("tok").Return(sess, nil)
		m.sessions.EXPECT().IsRevoked(gomock.Any(), "sid").Return(true, nil)
		if _, err := uc.Authenticate(context.Background(), "tok"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("valid session", func(t *testing.T) {
		uc, m := newAuth(t)
		m.tokens.EXPECT().Parse("tok").Return(sess, nil)
		m.sessions.EXPECT().IsRevoked(gomock.Any(), "sid").Return(false, nil)
		got, err := uc.Authenticate(context.Background(), "tok")
		if err != nil || got != sess {
			t.Fatalf("unexpected result %+v %v", got, err)
		}
	})
}

func TestAuthUseCase_Logout(t *testing.T) {
	t.Run("revokes for remaining lifetime", func(t *testing.T) {
		uc, m := newAuth(t)
		m.sessions.EXPECT().Revoke(gomock.Any(), "sid", 30*time.Minute).Return(nil)
		err := uc.Logout(context.Background(), entities.Session{SessionID: "sid", ExpiresAt: testNow.Add(30 * time.Minute)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("expired session is a no-op", func(t *testing.T) {
		uc, _ := newAuth(t)
		if err := uc.Logout(context.Background(), entities.Session{SessionID: "sid", ExpiresAt: testNow.Add(-time.Minute)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAuthUseCase_CreateUser(t *testing.T) {
	in := CreateUserInput{Email: "Bo@Example.com", Name: "Bo", Password: "longenough", Role: entities.RoleClient}

	t.Run("admin only", func(t *testing.T) {
		uc, _ := newAuth(t)
		if _, err := uc.CreateUser(context.Background(), manager, in); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		uc, _ := newAuth(t)
		_, err := uc.CreateUser(context.Background(), admin, CreateUserInput{Email: "nope", Password: "x", Role: "root"})
		var ve *ValidationError
		if !errors.As(err, &ve) || len(ve.Fields) != 3 {
			t.Fatalf("expected three field errors, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc, m := newAuth(t)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.User{}, &DuplicateKeyError{Field: "email", Value: "bo@example.com"})
		_, err := uc.CreateUser(context.Background(), admin, in)
		if !errors.Is(err, ErrDuplicateUser) || !errors.Is(err, ErrDuplicateKey) {
			t.Fatalf("expected duplicate errors, got %v", err)
		}
	})

	t.Run("hashes password", func(t *testing.T) {
		uc, m := newAuth(t)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u entities.User) (entities.User, error) {
			if u.Email != "bo@example.com" || u.ID == "" {
				t.Fatalf("unexpected user %+v", u)
			}
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")) != nil {
				t.Fatalf("password hash does not match")
			}
			return u, nil
		})
		if _, err := uc.CreateUser(context.Background(), admin, in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAuthUseCase_EnsureBootstrapAdmin(t *testing.T) {
	t.Run("existing admin", func(t *testing.T) {
		uc, m := newAuth(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), "root@example.com").Return(entities.User{ID: "u0"}, nil)
		if err := uc.EnsureBootstrapAdmin(context.Background(), "root@example.com", "changeme1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("creates admin", func(t *testing.T) {
		uc, m := newAuth(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), "root@example.com").Return(entities.User{}, nil)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u entities.User) (entities.User, error) {
			if u.Role != entities.RoleAdmin {
				t.Fatalf("expected admin role, got %s", u.Role)
			}
			return u, nil
		})
		if err := uc.EnsureBootstrapAdmin(context.Background(), "root@example.com", "changeme1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		uc, _ := newAuth(t)
		if err := uc.EnsureBootstrapAdmin(context.Background(), "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
