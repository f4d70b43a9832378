package domain

import "context"

type OfferType string

const (
	OfferInternship OfferType = "Stage"
	OfferCDI        OfferType = "CDI"
	OfferCDD        OfferType = "CDD"
	OfferFreelance  OfferType = "Freelance"
	OfferJob        OfferType = "Emploi"
)

// Offer is a job posting. The client writes some fields in English
// (seeded catalogue) and others in French (recruiter dashboard); both
// spellings are kept as they were sent.
type Offer struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title,omitempty"`
	Titre            string    `json:"titre,omitempty"`
	Type             OfferType `json:"type,omitempty" validate:"omitempty,offer_type"`
	Location         string    `json:"location,omitempty"`
	Localisation     string    `json:"localisation,omitempty"`
	Domain           string    `json:"domain,omitempty"`
	Domaine          string    `json:"domaine,omitempty"`
	Description      string    `json:"description,omitempty"`
	FullDescription  string    `json:"fullDescription,omitempty"`
	Responsibilities []string  `json:"responsibilities,omitempty"`
	Prerequisites    []string  `json:"prerequisites,omitempty"`
	Skills           []string  `json:"skills,omitempty"`
	RequiredSkills   []string  `json:"competencesRequises,omitempty"`
	Benefits         []string  `json:"benefits,omitempty"`
	Company          string    `json:"company,omitempty"`
	Entreprise       string    `json:"entreprise,omitempty"`
	Salary           *string   `json:"salary,omitempty"`
	ContractType     string    `json:"contractType,omitempty"`
	Experience       string    `json:"experience,omitempty"`
	Education        string    `json:"education,omitempty"`
	PublishedDate    string    `json:"publishedDate,omitempty"`
	DatePublication  string    `json:"datePublication,omitempty"`
	Deadline         string    `json:"deadline,omitempty"`
	RecruiterEmail   string    `json:"recruteurEmail,omitempty" validate:"omitempty,email"`
	RecruiterName    string    `json:"recruteurNom,omitempty"`
	Status           string    `json:"statut,omitempty"`
	Raw              Members   `json:"-"`
}

type offerFields Offer

func (o Offer) MarshalJSON() ([]byte, error) {
	return encodeMembers(offerFields(o), o.Raw)
}

func (o *Offer) UnmarshalJSON(data []byte) error {
	var fields offerFields
	raw, err := decodeMembers(data, &fields)
	if err != nil {
		return err
	}
	fields.Raw = raw
	*o = Offer(fields)
	return nil
}

type OfferRepository interface {
	Fetch(ctx context.Context) ([]Offer, error)
	GetByID(ctx context.Context, id int64) (*Offer, error)
	// Create assigns offer.ID before storing it.
	Create(ctx context.Context, offer *Offer) error
	Patch(ctx context.Context, id int64, patch Patch) (*Offer, error)
	Delete(ctx context.Context, id int64) error
}

type OfferUsecase interface {
	ListOffers(ctx context.Context) ([]Offer, error)
	GetOffer(ctx context.Context, id int64) (*Offer, error)
	PublishOffer(ctx context.Context, offer *Offer) error
	UpdateOffer(ctx context.Context, id int64, patch Patch) (*Offer, error)
	DeleteOffer(ctx context.Context, id int64) error
}
