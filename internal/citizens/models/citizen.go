package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	id "census/pkg/domain"
)

// Gender is one of the two values accepted for a citizen.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Field names as they appear on the wire, in validation order.
const (
	FieldCitizenID = "citizen_id"
	FieldTown      = "town"
	FieldStreet    = "street"
	FieldBuilding  = "building"
	FieldApartment = "apartment"
	FieldName      = "name"
	FieldBirthDate = "birth_date"
	FieldGender    = "gender"
	FieldRelatives = "relatives"
)

// CitizenFields lists every citizen field in the order validation visits them.
var CitizenFields = []string{
	FieldCitizenID,
	FieldTown,
	FieldStreet,
	FieldBuilding,
	FieldApartment,
	FieldName,
	FieldBirthDate,
	FieldGender,
	FieldRelatives,
}

// Citizen is one person record within an import.
//
// Invariants (enforced by the validation package, not by construction):
//   - CitizenID is non-negative and unique within its import
//   - Town, Street and Building are non-empty, shorter than 256 characters and
//     contain at least one letter or digit
//   - BirthDate lies strictly in the past
//   - Relatives holds no duplicates and is symmetric across the import
type Citizen struct {
	CitizenID id.CitizenID   `json:"citizen_id"`
	Town      string         `json:"town"`
	Street    string         `json:"street"`
	Building  string         `json:"building"`
	Apartment int64          `json:"apartment"`
	Name      string         `json:"name"`
	BirthDate BirthDate      `json:"birth_date"`
	Gender    Gender         `json:"gender"`
	Relatives []id.CitizenID `json:"relatives"`
}

// Clone returns a copy that shares no memory with c.
func (c Citizen) Clone() Citizen {
	out := c
	out.Relatives = make([]id.CitizenID, len(c.Relatives))
	copy(out.Relatives, c.Relatives)
	return out
}

// HasRelative reports whether other is listed among c's relatives.
func (c Citizen) HasRelative(other id.CitizenID) bool {
	return slices.Contains(c.Relatives, other)
}

// CloneCitizens deep-copies a citizen list.
func CloneCitizens(citizens []Citizen) []Citizen {
	out := make([]Citizen, len(citizens))
	for i := range citizens {
		out[i] = citizens[i].Clone()
	}
	return out
}

// Import is one stored batch of citizens.
type Import struct {
	ImportID id.ImportID `json:"import_id"`
	Citizens []Citizen   `json:"citizens"`
}

// RawCitizen is an undecoded citizen object keyed by field name. The validation
// package type-checks each value before decoding it.
type RawCitizen map[string]json.RawMessage

// CitizenPatch carries the fields present in a partial update. Nil pointers are
// fields the caller did not send.
type CitizenPatch struct {
	Town      *string
	Street    *string
	Building  *string
	Apartment *int64
	Name      *string
	BirthDate *BirthDate
	Gender    *Gender
	Relatives *[]id.CitizenID
}

// Apply copies every present field onto c.
func (p CitizenPatch) Apply(c *Citizen) {
	if p.Town != nil {
		c.Town = *p.Town
	}
	if p.Street != nil {
		c.Street = *p.Street
	}
	if p.Building != nil {
		c.Building = *p.Building
	}
	if p.Apartment != nil {
		c.Apartment = *p.Apartment
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.BirthDate != nil {
		c.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
	if p.Relatives != nil {
		c.Relatives = slices.Clone(*p.Relatives)
	}
}

// BirthDateLayout is the canonical wire format for dates.
const BirthDateLayout = "02.01.2006"

// birthDateParseLayout also accepts single-digit day and month.
const birthDateParseLayout = "2.1.2006"

// BirthDate is a calendar date without a time of day, held at UTC midnight.
type BirthDate struct {
	time.Time
}

// ParseBirthDate parses a DD.MM.YYYY date. Impossible dates such as 31.02 fail.
func ParseBirthDate(s string) (BirthDate, error) {
	t, err := time.Parse(birthDateParseLayout, s)
	if err != nil {
		return BirthDate{}, err
	}
	return BirthDate{Time: t}, nil
}

// NewBirthDate builds a date from its parts.
func NewBirthDate(year int, month time.Month, day int) BirthDate {
	return BirthDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d BirthDate) String() string {
	return d.Format(BirthDateLayout)
}

func (d BirthDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *BirthDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("birth_date must be a string: %w", err)
	}
	parsed, err := ParseBirthDate(s)
	if err != nil {
		return fmt.Errorf("parse birth_date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// AgeAt returns the age in whole years on the calendar day of now.
func (d BirthDate) AgeAt(now time.Time) int {
	age := now.Year() - d.Year()
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		age--
	}
	return age
}
