package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"scheduleandpay/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// LoginResult carries the signed session for a verified identity.
type LoginResult struct {
	User    domain.Identity
	Token   string
	IsAdmin bool
}

type Service struct {
	gate         *Gate
	provider     IdentityProvider
	tokens       TokenIssuer
	passwordHash []byte
}

// NewService builds the login flows. provider may be nil when Google login
// is not configured; an empty passwordHash disables password login.
func NewService(gate *Gate, provider IdentityProvider, tokens TokenIssuer, passwordHash string) *Service {
	s := &Service{
		gate:     gate,
		provider: provider,
		tokens:   tokens,
	}
	if passwordHash != "" {
		s.passwordHash = []byte(passwordHash)
	}
	return s
}

func (s *Service) ProviderEnabled() bool { return s.provider != nil }

func (s *Service) PasswordEnabled() bool { return len(s.passwordHash) > 0 }

// BeginLogin returns a fresh state value and the provider URL to send the browser to.
func (s *Service) BeginLogin() (state, redirectURL string, err error) {
	if s.provider == nil {
		return "", "", ErrLoginDisabled
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	state = hex.EncodeToString(b)
	return state, s.provider.AuthCodeURL(state), nil
}

// CompleteLogin checks the returned state against the one issued by
// BeginLogin and exchanges the code for an identity.
func (s *Service) CompleteLogin(ctx context.Context, expectedState, gotState, code string) (*LoginResult, error) {
	if s.provider == nil {
		return nil, ErrLoginDisabled
	}
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(expectedState), []byte(gotState)) != 1 {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, ErrInvalidState
	}

	user, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.issue(*user)
}

// PasswordLogin admits only the administrator.
func (s *Service) PasswordLogin(email, password string) (*LoginResult, error) {
	if !s.PasswordEnabled() {
		return nil, ErrLoginDisabled
	}

	user := domain.Identity{Email: strings.TrimSpace(email), Name: "Administrator"}
	// compare even for a wrong email so both failures take the same time
	hashErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !s.gate.IsAdmin(&user) || hashErr != nil {
		return nil, ErrInvalidCredentials
	}
	user.Email = s.gate.AdminEmail()
	return s.issue(user)
}

func (s *Service) issue(user domain.Identity) (*LoginResult, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:    user,
		Token:   token,
		IsAdmin: s.gate.IsAdmin(&user),
	}, nil
}
