package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

// maxTextLength is exclusive: strings must be strictly shorter.
const maxTextLength = 256

// validate is shared by all checks in this package. Custom rules are registered
// once in init.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("alnumpresent", hasLetterOrDigit)
}

// hasLetterOrDigit rejects strings made only of punctuation and spaces.
func hasLetterOrDigit(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// parseField runs the type, size, content and semantic checks for one field, in
// that order, and returns the decoded value.
func parseField(name string, raw json.RawMessage, now time.Time) (any, error) {
	value, err := decodeRaw(raw)
	if err != nil {
		return nil, invalidType(name, "valid JSON")
	}
	if value == nil {
		return nil, fieldError("%s must be specified", name)
	}

	switch name {
	case models.FieldCitizenID, models.FieldApartment:
		return parseNonNegativeInt(name, value)
	case models.FieldTown, models.FieldStreet, models.FieldBuilding:
		return parseAddressPart(name, value)
	case models.FieldName:
		return parseText(name, value)
	case models.FieldBirthDate:
		return parseBirthDate(value, now)
	case models.FieldGender:
		return parseGender(value)
	case models.FieldRelatives:
		return parseRelatives(value)
	}
	return nil, fieldError("unknown field %s", name)
}

func decodeRaw(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func parseInt(value any) (int64, bool) {
	number, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := number.Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseNonNegativeInt(name string, value any) (int64, error) {
	n, ok := parseInt(value)
	if !ok {
		return 0, invalidType(name, "int")
	}
	if validate.Var(n, "gte=0") != nil {
		return 0, fieldError("%s cannot be negative", name)
	}
	return n, nil
}

func parseText(name string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", invalidType(name, "string")
	}
	if validate.Var(s, "required") != nil {
		return "", fieldError("%s must not be empty", name)
	}
	if validate.Var(s, fmt.Sprintf("lt=%d", maxTextLength)) != nil {
		return "", fieldError("%s must be shorter than %d characters", name, maxTextLength)
	}
	return s, nil
}

func parseAddressPart(name string, value any) (string, error) {
	s, err := parseText(name, value)
	if err != nil {
		return "", err
	}
	if validate.Var(s, "alnumpresent") != nil {
		return "", fieldError("%s must contain at least one letter or one digit", name)
	}
	return s, nil
}

func parseBirthDate(value any, now time.Time) (models.BirthDate, error) {
	s, ok := value.(string)
	if !ok {
		return models.BirthDate{}, invalidType(models.FieldBirthDate, "string")
	}
	date, err := models.ParseBirthDate(s)
	if err != nil {
		return models.BirthDate{}, fieldError("birth_date is not valid")
	}
	today := models.NewBirthDate(now.Date())
	if date.After(today.Time) {
		return models.BirthDate{}, fieldError("birth_date must be in the past")
	}
	return date, nil
}

func parseGender(value any) (models.Gender, error) {
	s, ok := value.(string)
	if !ok {
		return "", invalidType(models.FieldGender, "string")
	}
	if validate.Var(s, "oneof=male female") != nil {
		return "", fieldError("gender must be male or female")
	}
	return models.Gender(s), nil
}

func parseRelatives(value any) ([]id.CitizenID, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, invalidType(models.FieldRelatives, "list of int")
	}
	relatives := make([]id.CitizenID, 0, len(items))
	for _, item := range items {
		n, ok := parseInt(item)
		if !ok {
			return nil, invalidType(models.FieldRelatives, "list of int")
		}
		relatives = append(relatives, id.CitizenID(n))
	}
	if validate.Var(relatives, "unique,dive,gte=0") != nil {
		return nil, invalidRelatives()
	}
	return relatives, nil
}

func invalidType(name, kind string) error {
	return fieldError("%s must be %s", name, kind)
}

func fieldError(format string, args ...any) error {
	return dErrors.New(dErrors.CodeValidation, fmt.Sprintf(format, args...))
}

func invalidRelatives() error {
	return dErrors.New(dErrors.CodeRelativesConsistency, "invalid relatives")
}
