package domain

import "context"

type Recruiter struct {
	ID        RecordID `json:"id"`
	LastName  string   `json:"nom,omitempty"`
	FirstName string   `json:"prenom,omitempty"`
	Email     string   `json:"email,omitempty" validate:"omitempty,email"`
	Company   string   `json:"entreprise,omitempty"`
	Phone     string   `json:"tel,omitempty"`
	Password  string   `json:"password,omitempty"`
	Raw       Members  `json:"-"`
}

type recruiterFields Recruiter

func (r Recruiter) MarshalJSON() ([]byte, error) {
	return encodeMembers(recruiterFields(r), r.Raw)
}

func (r *Recruiter) UnmarshalJSON(data []byte) error {
	var fields recruiterFields
	raw, err := decodeMembers(data, &fields)
	if err != nil {
		return err
	}
	fields.Raw = raw
	*r = Recruiter(fields)
	return nil
}

type RecruiterRepository interface {
	Fetch(ctx context.Context) ([]Recruiter, error)
	Create(ctx context.Context, recruiter *Recruiter) error
}

type RecruiterUsecase interface {
	ListRecruiters(ctx context.Context) ([]Recruiter, error)
	RegisterRecruiter(ctx context.Context, recruiter *Recruiter) error
}
