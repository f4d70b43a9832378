package validation

import (
	"regexp"
	"unicode"

	"jobspace-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Allow letters, numbers, spaces, and common punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// E164-like phone: optional +, digits 7-15 length, spaces ignored
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ]{7,20}$`)
)

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("candidate_status", CandidateStatus)
	_ = v.RegisterValidation("offer_type", OfferType)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// CandidateStatus accepts en_attente, accepte and refuse.
func CandidateStatus(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return domain.CandidateStatus(val).Valid()
}

// OfferType accepts the contract kinds offered by the recruiter form.
func OfferType(fl validator.FieldLevel) bool {
	switch domain.OfferType(fl.Field().String()) {
	case "", domain.OfferInternship, domain.OfferCDI, domain.OfferCDD, domain.OfferFreelance, domain.OfferJob:
		return true
	}
	return false
}
