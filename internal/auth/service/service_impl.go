package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/auth/domain"
	"github.com/introaqua/waterworks/internal/auth/password"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour

	minPasswordLength = 6
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)
	phoneRe    = regexp.MustCompile(`^[0-9]{10,11}$`)
)

type Params struct {
	fx.In

	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	SessionRepo domain.SessionRepository
}

type Service struct {
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	sessionRepo domain.SessionRepository
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("auth.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		sessionRepo: p.SessionRepo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(username) {
		return nil, domain.ErrInvalidUsername
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.ErrInvalidPassword
	}
	fullName := strings.TrimSpace(req.FullName)
	if n := utf8.RuneCountInString(fullName); n < 2 || n > 100 {
		return nil, domain.ErrInvalidFullName
	}
	phone := strings.TrimSpace(req.Phone)
	if !phoneRe.MatchString(phone) {
		return nil, domain.ErrInvalidPhone
	}

	for _, probe := range []domain.User{{Username: username}, {Email: email}} {
		if _, err := s.repo.FindOne(ctx, probe); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	code := newCustomerCode(now)
	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Phone:        phone,
		Address:      req.Address,
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CustomerCode: &code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("customer registered",
		zap.String("user_id", user.ID.String()),
		zap.String("customer_code", code),
	)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindOne(ctx, domain.User{Username: username})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, user.ID, map[string]any{
		"last_login": now,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessionRepo.RevokeSession(ctx, session.ID, time.Now().UTC())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, *domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.ErrInvalidSession
		}
		return nil, nil, err
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrUserInactive
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

func (s *Service) UserByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return domain.ErrInvalidPassword
	}

	user, err := s.repo.FindByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.repo.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash": hashed,
		"updated_at":    time.Now().UTC(),
	})
}

func (s *Service) CustomerLookup(ctx context.Context, code, phone string) (*domain.User, error) {
	code = strings.TrimSpace(code)
	phone = strings.TrimSpace(phone)

	var (
		user *domain.User
		err  error
	)
	switch {
	case code != "":
		user, err = s.repo.FindByCustomerCode(ctx, code)
	case phone != "":
		user, err = s.repo.FindByPhone(ctx, phone)
	default:
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleCustomer {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// newCustomerCode derives a customer code from the account creation
// instant: CUST plus the last 8 digits of the unix-millisecond clock.
func newCustomerCode(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	return "CUST" + ms[len(ms)-8:]
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
