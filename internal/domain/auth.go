package domain

import "context"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidat"
	RoleRecruiter Role = "recruteur"
)

// SessionUser is what the client keeps in local storage after login.
type SessionUser struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	LastName  string `json:"nom,omitempty"`
	FirstName string `json:"prenom,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) (*SessionUser, error)
}
