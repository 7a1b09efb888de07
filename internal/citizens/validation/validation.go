// Package validation checks import batches and partial updates before anything
// is written. Every check stops at the first violation and returns a single
// domain error carrying the client-facing message.
package validation

import (
	"slices"
	"time"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

// ParseCitizens validates a whole batch in full-field mode and returns the
// decoded citizens in request order. After per-field checks it enforces unique
// citizen ids and symmetric relatives across the batch.
func ParseCitizens(raw []models.RawCitizen, now time.Time) ([]models.Citizen, error) {
	citizens := make([]models.Citizen, 0, len(raw))
	for _, rc := range raw {
		c, err := ParseCitizen(rc, now)
		if err != nil {
			return nil, err
		}
		citizens = append(citizens, c)
	}
	if err := CheckUniqueIDs(citizens); err != nil {
		return nil, err
	}
	if err := CheckRelatives(models.NewRoster(citizens)); err != nil {
		return nil, err
	}
	return citizens, nil
}

// ParseCitizen validates one citizen in full-field mode: all nine fields must be
// present and non-null, and no other field is allowed.
func ParseCitizen(raw models.RawCitizen, now time.Time) (models.Citizen, error) {
	if raw == nil {
		return models.Citizen{}, fieldError("citizen must be an object")
	}
	if err := rejectUnknownFields(raw); err != nil {
		return models.Citizen{}, err
	}
	for _, name := range models.CitizenFields {
		if _, ok := raw[name]; !ok {
			return models.Citizen{}, fieldError("%s must be specified", name)
		}
	}

	var c models.Citizen
	for _, name := range models.CitizenFields {
		value, err := parseField(name, raw[name], now)
		if err != nil {
			return models.Citizen{}, err
		}
		assignCitizen(&c, name, value)
	}
	return c, nil
}

// ParsePatch validates only the fields present in a partial update. The
// citizen_id field is immutable and an empty patch is rejected.
func ParsePatch(raw models.RawCitizen, now time.Time) (models.CitizenPatch, error) {
	var patch models.CitizenPatch
	if len(raw) == 0 {
		return patch, dErrors.New(dErrors.CodeMalformedRequest, "no fields to update")
	}
	if _, ok := raw[models.FieldCitizenID]; ok {
		return patch, dErrors.New(dErrors.CodeImmutableField, "citizen_id cannot be changed")
	}
	if err := rejectUnknownFields(raw); err != nil {
		return patch, err
	}

	for _, name := range models.CitizenFields {
		rawValue, ok := raw[name]
		if !ok {
			continue
		}
		value, err := parseField(name, rawValue, now)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		assignPatch(&patch, name, value)
	}
	return patch, nil
}

// CheckUniqueIDs rejects a batch in which two citizens share an id.
func CheckUniqueIDs(citizens []models.Citizen) error {
	seen := make(map[id.CitizenID]struct{}, len(citizens))
	for _, c := range citizens {
		if _, dup := seen[c.CitizenID]; dup {
			return dErrors.New(dErrors.CodeIdentifierConflict, "citizen_id values must be unique")
		}
		seen[c.CitizenID] = struct{}{}
	}
	return nil
}

// CheckRelatives verifies that every relative exists in the roster, lists the
// citizen back, and appears only once.
func CheckRelatives(roster *models.Roster) error {
	for _, c := range roster.Citizens() {
		seen := make(map[id.CitizenID]struct{}, len(c.Relatives))
		for _, relativeID := range c.Relatives {
			if _, dup := seen[relativeID]; dup {
				return invalidRelatives()
			}
			seen[relativeID] = struct{}{}

			relative, ok := roster.Get(relativeID)
			if !ok || !relative.HasRelative(c.CitizenID) {
				return invalidRelatives()
			}
		}
	}
	return nil
}

func rejectUnknownFields(raw models.RawCitizen) error {
	unknown := make([]string, 0)
	for name := range raw {
		if !slices.Contains(models.CitizenFields, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fieldError("unknown field %s", unknown[0])
}

func assignCitizen(c *models.Citizen, name string, value any) {
	switch name {
	case models.FieldCitizenID:
		c.CitizenID = id.CitizenID(value.(int64))
	case models.FieldTown:
		c.Town = value.(string)
	case models.FieldStreet:
		c.Street = value.(string)
	case models.FieldBuilding:
		c.Building = value.(string)
	case models.FieldApartment:
		c.Apartment = value.(int64)
	case models.FieldName:
		c.Name = value.(string)
	case models.FieldBirthDate:
		c.BirthDate = value.(models.BirthDate)
	case models.FieldGender:
		c.Gender = value.(models.Gender)
	case models.FieldRelatives:
		c.Relatives = value.([]id.CitizenID)
	}
}

func assignPatch(p *models.CitizenPatch, name string, value any) {
	switch name {
	case models.FieldTown:
		s := value.(string)
		p.Town = &s
	case models.FieldStreet:
		s := value.(string)
		p.Street = &s
	case models.FieldBuilding:
		s := value.(string)
		p.Building = &s
	case models.FieldApartment:
		n := value.(int64)
		p.Apartment = &n
	case models.FieldName:
		s := value.(string)
		p.Name = &s
	case models.FieldBirthDate:
		d := value.(models.BirthDate)
		p.BirthDate = &d
	case models.FieldGender:
		g := value.(models.Gender)
		p.Gender = &g
	case models.FieldRelatives:
		r := value.([]id.CitizenID)
		p.Relatives = &r
	}
}
