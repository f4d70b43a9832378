package domain

import (
	"context"
	"encoding/json"
)

type CandidateStatus string

const (
	StatusPending  CandidateStatus = "en_attente"
	StatusAccepted CandidateStatus = "accepte"
	StatusRejected CandidateStatus = "refuse"
)

func (s CandidateStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// CandidateFiles holds the stored-file references of a candidacy. Each one is
// either a data URI captured by the registration form or an /uploads path.
type CandidateFiles struct {
	CV      *string `json:"cv,omitempty"`
	Diploma *string `json:"diplome,omitempty"`
	Letter  *string `json:"lettre,omitempty"`
	Raw     Members `json:"-"`
}

type candidateFilesFields CandidateFiles

func (f CandidateFiles) MarshalJSON() ([]byte, error) {
	return encodeMembers(candidateFilesFields(f), f.Raw)
}

func (f *CandidateFiles) UnmarshalJSON(data []byte) error {
	var fields candidateFilesFields
	raw, err := decodeMembers(data, &fields)
	if err != nil {
		return err
	}
	fields.Raw = raw
	*f = CandidateFiles(fields)
	return nil
}

type Candidate struct {
	ID         RecordID        `json:"id"`
	FirstName  string          `json:"prenom,omitempty" validate:"omitempty,valid_name,no_emoji"`
	LastName   string          `json:"nom,omitempty" validate:"omitempty,valid_name,no_emoji"`
	BirthDate  string          `json:"dateNaissance,omitempty"`
	BirthPlace string          `json:"lieuNaissance,omitempty"`
	Email      string          `json:"email,omitempty" validate:"omitempty,email"`
	NationalID string          `json:"cin,omitempty"`
	Phone      string          `json:"tel,omitempty"`
	Address    string          `json:"adresse,omitempty"`
	Password   string          `json:"password,omitempty"`
	Level      string          `json:"niveau,omitempty"`
	Specialty  string          `json:"specialite,omitempty"`
	Experience json.RawMessage `json:"experience,omitempty"`
	Status     CandidateStatus `json:"statut,omitempty" validate:"omitempty,candidate_status"`
	Files      *CandidateFiles `json:"fichiers,omitempty"`
	Raw        Members         `json:"-"`
}

type candidateFields Candidate

func (c Candidate) MarshalJSON() ([]byte, error) {
	return encodeMembers(candidateFields(c), c.Raw)
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var fields candidateFields
	raw, err := decodeMembers(data, &fields)
	if err != nil {
		return err
	}
	fields.Raw = raw
	*c = Candidate(fields)
	return nil
}

// EffectiveStatus treats a missing status as pending.
func (c Candidate) EffectiveStatus() CandidateStatus {
	if c.Status == "" {
		return StatusPending
	}
	return c.Status
}

// CandidateFilter mirrors the admin dashboard filters.
type CandidateFilter struct {
	Status    CandidateStatus
	Specialty string
	Level     string
}

func (f CandidateFilter) Match(c Candidate) bool {
	if f.Status != "" && c.EffectiveStatus() != f.Status {
		return false
	}
	if f.Specialty != "" && c.Specialty != f.Specialty {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	return true
}

type CandidateRepository interface {
	Fetch(ctx context.Context) ([]Candidate, error)
	GetByID(ctx context.Context, id string) (*Candidate, error)
	Create(ctx context.Context, candidate *Candidate) error
	Patch(ctx context.Context, id string, patch Patch) (*Candidate, error)
	Delete(ctx context.Context, id string) error
}

type CandidateUsecase interface {
	ListCandidates(ctx context.Context) ([]Candidate, error)
	FilterCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error)
	GetCandidate(ctx context.Context, id string) (*Candidate, error)
	RegisterCandidate(ctx context.Context, candidate *Candidate) error
	UpdateCandidate(ctx context.Context, id string, patch Patch) (*Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error
}

// StatusNotifier is told when an administrator decides on a candidacy.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, candidate Candidate) error
}
