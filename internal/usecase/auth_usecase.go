package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/auth"
	"jobspace-backend/pkg/logger"
	"jobspace-backend/pkg/security"
)

// Account is a staff login configured outside the record store.
type Account struct {
	Email        string
	PasswordHash string
	Role         domain.Role
}

// ParseAccounts reads "email:bcryptHash" entries.
func ParseAccounts(entries []string, role domain.Role) ([]Account, error) {
	accounts := make([]Account, 0, len(entries))
	for _, entry := range entries {
		email, hash, ok := strings.Cut(entry, ":")
		email = strings.TrimSpace(email)
		if !ok || email == "" {
			return nil, fmt.Errorf("account %q: expected email:bcryptHash", entry)
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("account %s: %w", email, err)
		}
		accounts = append(accounts, Account{Email: email, PasswordHash: hash, Role: role})
	}
	return accounts, nil
}

type authUsecase struct {
	accounts      []Account
	candidateRepo domain.CandidateRepository
	issuer        *auth.Issuer
}

func NewAuthUsecase(accounts []Account, candidateRepo domain.CandidateRepository, issuer *auth.Issuer) domain.AuthUsecase {
	return &authUsecase{
		accounts:      accounts,
		candidateRepo: candidateRepo,
		issuer:        issuer,
	}
}

const msgBadCredentials = "Email ou mot de passe incorrect"

// Login checks staff accounts first, then candidacies, and issues a
// session token for the first match.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)

	user, err := u.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		audit.Default().LoginFailed(ctx, email, "bad_credentials")
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	token, err := u.issuer.Issue(user.ID, auth.Claims{
		Email:     user.Email,
		Role:      string(user.Role),
		LastName:  user.LastName,
		FirstName: user.FirstName,
	})
	if err != nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Connexion indisponible", err)
	}

	audit.Default().Log(ctx, audit.Event{
		Event:   audit.EventLoginSuccess,
		Actor:   audit.MaskEmail(user.Email),
		Details: map[string]interface{}{"role": string(user.Role)},
	})
	return &domain.Session{Token: token, User: *user}, nil
}

func (u *authUsecase) authenticate(ctx context.Context, email, password string) (*domain.SessionUser, error) {
	for _, a := range u.accounts {
		if strings.EqualFold(a.Email, email) && security.CheckPassword(a.PasswordHash, password) {
			return &domain.SessionUser{ID: a.Email, Email: a.Email, Role: a.Role}, nil
		}
	}

	candidates, err := u.candidateRepo.Fetch(ctx)
	if err != nil {
		logger.Log.ErrorContext(ctx, "login: candidates unavailable", "error", err)
		return nil, apperror.Internal(msgReadFailed, err)
	}
	for _, c := range candidates {
		if c.Email != "" && strings.EqualFold(c.Email, email) && security.CheckPassword(c.Password, password) {
			return &domain.SessionUser{
				ID:        c.ID.String(),
				Email:     c.Email,
				Role:      domain.RoleCandidate,
				LastName:  c.LastName,
				FirstName: c.FirstName,
			}, nil
		}
	}
	return nil, nil
}

func (u *authUsecase) Verify(_ context.Context, token string) (*domain.SessionUser, error) {
	claims, err := u.issuer.Parse(token)
	if err != nil {
		return nil, apperror.Unauthorized("Session invalide ou expirée")
	}
	return &domain.SessionUser{
		ID:        claims.Subject,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		LastName:  claims.LastName,
		FirstName: claims.FirstName,
	}, nil
}
