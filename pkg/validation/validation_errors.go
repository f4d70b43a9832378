package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to French labels shown to users
var FieldLabels = map[string]string{
	"ID":             "Identifiant",
	"FirstName":      "Prénom",
	"LastName":       "Nom",
	"BirthDate":      "Date de naissance",
	"BirthPlace":     "Lieu de naissance",
	"Email":          "Email",
	"NationalID":     "CIN",
	"Phone":          "Téléphone",
	"Address":        "Adresse",
	"Password":       "Mot de passe",
	"Level":          "Niveau",
	"Specialty":      "Spécialité",
	"Experience":     "Expérience",
	"Status":         "Statut",
	"Type":           "Type d'offre",
	"RecruiterEmail": "Email du recruteur",
	"Company":        "Entreprise",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into a single line.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s : champ obligatoire", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s : au moins %s caractères", label, param)
		}
		return fmt.Sprintf("%s : minimum %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s : au plus %s caractères", label, param)
		}
		return fmt.Sprintf("%s : maximum %s", label, param)
	case "email":
		return fmt.Sprintf("%s : format d'email invalide", label)
	case "valid_name":
		return fmt.Sprintf("%s : uniquement des lettres, espaces et ponctuation courante", label)
	case "valid_phone":
		return fmt.Sprintf("%s : numéro de téléphone invalide", label)
	case "no_emoji":
		return fmt.Sprintf("%s : les emojis ne sont pas autorisés", label)
	case "candidate_status":
		return fmt.Sprintf("%s : doit être en_attente, accepte ou refuse", label)
	case "offer_type":
		return fmt.Sprintf("%s : doit être Stage, CDI, CDD, Freelance ou Emploi", label)
	default:
		return fmt.Sprintf("%s : validation échouée (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
