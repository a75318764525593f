package usecase

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     entities.Role
}

type LoginResult struct {
	Token   string
	User    entities.User
	Session entities.Session
}

// IAuthUseCase manages users and session tokens.
type IAuthUseCase interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Logout(ctx context.Context, sess entities.Session) error
	Authenticate(ctx context.Context, token string) (entities.Session, error)
	Me(ctx context.Context, sess entities.Session) (entities.User, error)
	CreateUser(ctx context.Context, sess entities.Session, in CreateUserInput) (entities.User, error)
}

type AuthUseCase struct {
	users      interfaces.IUserRepository
	sessions   interfaces.ISessionStore
	tokens     interfaces.ITokenManager
	sessionTTL time.Duration
	bcryptCost int
	log        *zap.Logger
	clock      func() time.Time
}

var _ IAuthUseCase = (*AuthUseCase)(nil)

func NewAuthUseCase(users interfaces.IUserRepository, sessions interfaces.ISessionStore, tokens interfaces.ITokenManager, sessionTTL time.Duration, log *zap.Logger) *AuthUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthUseCase{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
		clock:      time.Now,
	}
}

func (u *AuthUseCase) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = entities.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if user.ID == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	sess := entities.Session{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: uuid.NewString(),
		ExpiresAt: u.clock().UTC().Add(u.sessionTTL),
	}
	token, err := u.tokens.Issue(sess)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	u.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("session_id", sess.SessionID))
	return LoginResult{Token: token, User: user, Session: sess}, nil
}

// Logout revokes the session until its token would have expired.
func (u *AuthUseCase) Logout(ctx context.Context, sess entities.Session) error {
	ttl := sess.ExpiresAt.Sub(u.clock())
	if ttl <= 0 {
		return nil
	}
	return u.sessions.Revoke(ctx, sess.SessionID, ttl)
}

func (u *AuthUseCase) Authenticate(ctx context.Context, token string) (entities.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.Session{}, ErrUnauthorized
	}
	sess, err := u.tokens.Parse(token)
	if err != nil {
		return entities.Session{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	revoked, err := u.sessions.IsRevoked(ctx, sess.SessionID)
	if err != nil {
		return entities.Session{}, err
	}
	if revoked {
		return entities.Session{}, ErrUnauthorized
	}
	return sess, nil
}

func (u *AuthUseCase) Me(ctx context.Context, sess entities.Session) (entities.User, error) {
	user, err := u.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if user.ID == "" {
		return entities.User{}, ErrUserNotFound
	}
	return user, nil
}

func (u *AuthUseCase) CreateUser(ctx context.Context, sess entities.Session, in CreateUserInput) (entities.User, error) {
	if sess.Role != entities.RoleAdmin {
		return entities.User{}, ErrForbidden
	}
	return u.createUser(ctx, in)
}

// EnsureBootstrapAdmin creates the first admin account when it does not exist yet.
func (u *AuthUseCase) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = entities.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	existing, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing.ID != "" {
		return nil
	}
	_, err = u.createUser(ctx, CreateUserInput{Email: email, Name: "Administrator", Password: password, Role: entities.RoleAdmin})
	if errors.Is(err, ErrDuplicateUser) {
		return nil
	}
	if err == nil {
		u.log.Info("bootstrap admin created", zap.String("email", email))
	}
	return err
}

func (u *AuthUseCase) createUser(ctx context.Context, in CreateUserInput) (entities.User, error) {
	fe := fieldErrors{}
	email := entities.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		fe.add("email", "is not a valid address")
	}
	if len(in.Password) < minPasswordLength {
		fe.add("password", fmt.Sprintf("must have at least %d characters", minPasswordLength))
	}
	if !in.Role.Valid() {
		fe.add("role", "must be admin, manager or client")
	}
	if err := fe.err(); err != nil {
		return entities.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return entities.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    u.clock().UTC(),
	}
	created, err := u.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return entities.User{}, fmt.Errorf("%w: %w", ErrDuplicateUser, err)
		}
		return entities.User{}, err
	}
	return created, nil
}
