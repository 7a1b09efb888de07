package validation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func rawCitizen(t *testing.T, overrides map[string]any) models.RawCitizen {
	t.Helper()
	fields := map[string]any{
		"citizen_id": 1,
		"town":       "Moscow",
		"street":     "Lenina",
		"building":   "16k7",
		"apartment":  7,
		"name":       "Ivanov Ivan",
		"birth_date": "26.12.1986",
		"gender":     "male",
		"relatives":  []int{},
	}
	for k, v := range overrides {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	return toRaw(t, fields)
}

func toRaw(t *testing.T, fields map[string]any) models.RawCitizen {
	t.Helper()
	body, err := json.Marshal(fields)
	require.NoError(t, err)
	var raw models.RawCitizen
	require.NoError(t, json.Unmarshal(body, &raw))
	return raw
}

type nullValue struct{}

func (nullValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

type ParseCitizenSuite struct {
	suite.Suite
}

func TestParseCitizenSuite(t *testing.T) {
	suite.Run(t, new(ParseCitizenSuite))
}

func (s *ParseCitizenSuite) assertRejected(overrides map[string]any, code dErrors.Code, message string) {
	_, err := ParseCitizen(rawCitizen(s.T(), overrides), fixedNow)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "unexpected error %v", err)
	de, ok := dErrors.As(err)
	s.Require().True(ok)
	s.Equal(message, de.Message)
}

func (s *ParseCitizenSuite) TestAcceptsValidCitizen() {
	c, err := ParseCitizen(rawCitizen(s.T(), map[string]any{"relatives": []int{2, 3}}), fixedNow)
	s.Require().NoError(err)
	s.Equal(id.CitizenID(1), c.CitizenID)
	s.Equal("Moscow", c.Town)
	s.Equal(int64(7), c.Apartment)
	s.Equal(models.NewBirthDate(1986, time.December, 26), c.BirthDate)
	s.Equal(models.GenderMale, c.Gender)
	s.Equal([]id.CitizenID{2, 3}, c.Relatives)
}

func (s *ParseCitizenSuite) TestPresence() {
	s.Run("missing field", func() {
		s.assertRejected(map[string]any{"gender": nil}, dErrors.CodeValidation, "gender must be specified")
	})
	s.Run("null field", func() {
		s.assertRejected(map[string]any{"name": nullValue{}}, dErrors.CodeValidation, "name must be specified")
	})
	s.Run("unknown field", func() {
		s.assertRejected(map[string]any{"nickname": "Vanya"}, dErrors.CodeValidation, "unknown field nickname")
	})
}

func (s *ParseCitizenSuite) TestTypeChecks() {
	s.Run("citizen_id must be int", func() {
		s.assertRejected(map[string]any{"citizen_id": "WRONG_CITIZEN_ID"}, dErrors.CodeValidation, "citizen_id must be int")
	})
	s.Run("fractional apartment", func() {
		s.assertRejected(map[string]any{"apartment": 1.5}, dErrors.CodeValidation, "apartment must be int")
	})
	s.Run("town must be string", func() {
		s.assertRejected(map[string]any{"town": 12}, dErrors.CodeValidation, "town must be string")
	})
	s.Run("relatives must be list", func() {
		s.assertRejected(map[string]any{"relatives": "2,3"}, dErrors.CodeValidation, "relatives must be list of int")
	})
	s.Run("relatives items must be ints", func() {
		s.assertRejected(map[string]any{"relatives": []any{1, "2"}}, dErrors.CodeValidation, "relatives must be list of int")
	})
}

func (s *ParseCitizenSuite) TestSizeChecks() {
	s.Run("negative citizen_id", func() {
		s.assertRejected(map[string]any{"citizen_id": -1}, dErrors.CodeValidation, "citizen_id cannot be negative")
	})
	s.Run("negative apartment", func() {
		s.assertRejected(map[string]any{"apartment": -7}, dErrors.CodeValidation, "apartment cannot be negative")
	})
	s.Run("empty name", func() {
		s.assertRejected(map[string]any{"name": ""}, dErrors.CodeValidation, "name must not be empty")
	})
	s.Run("255 characters is accepted", func() {
		_, err := ParseCitizen(rawCitizen(s.T(), map[string]any{"town": strings.Repeat("я", 255)}), fixedNow)
		s.NoError(err)
	})
	s.Run("256 characters is rejected", func() {
		s.assertRejected(map[string]any{"town": strings.Repeat("a", 256)}, dErrors.CodeValidation, "town must be shorter than 256 characters")
	})
}

func (s *ParseCitizenSuite) TestContentChecks() {
	s.Run("street of punctuation only", func() {
		s.assertRejected(map[string]any{"street": "---"}, dErrors.CodeValidation, "street must contain at least one letter or one digit")
	})
	s.Run("building with a single digit", func() {
		_, err := ParseCitizen(rawCitizen(s.T(), map[string]any{"building": "-1-"}), fixedNow)
		s.NoError(err)
	})
	s.Run("name is not content checked", func() {
		_, err := ParseCitizen(rawCitizen(s.T(), map[string]any{"name": "..."}), fixedNow)
		s.NoError(err)
	})
}

func (s *ParseCitizenSuite) TestSemanticChecks() {
	s.Run("unknown gender", func() {
		s.assertRejected(map[string]any{"gender": "other"}, dErrors.CodeValidation, "gender must be male or female")
	})
	s.Run("impossible calendar date", func() {
		s.assertRejected(map[string]any{"birth_date": "31.02.1998"}, dErrors.CodeValidation, "birth_date is not valid")
	})
	s.Run("wrong date format", func() {
		s.assertRejected(map[string]any{"birth_date": "1998-02-01"}, dErrors.CodeValidation, "birth_date is not valid")
	})
	s.Run("future date", func() {
		s.assertRejected(map[string]any{"birth_date": "16.06.2024"}, dErrors.CodeValidation, "birth_date must be in the past")
	})
	s.Run("born today is accepted", func() {
		_, err := ParseCitizen(rawCitizen(s.T(), map[string]any{"birth_date": "15.06.2024"}), fixedNow)
		s.NoError(err)
	})
	s.Run("duplicate relatives", func() {
		s.assertRejected(map[string]any{"relatives": []int{2, 2}}, dErrors.CodeRelativesConsistency, "invalid relatives")
	})
}

func (s *ParseCitizenSuite) TestStopsAtFirstViolationInFieldOrder() {
	// citizen_id is checked before street, so its error wins.
	s.assertRejected(map[string]any{"citizen_id": -1, "street": "---"}, dErrors.CodeValidation, "citizen_id cannot be negative")
}

func TestParseCitizens(t *testing.T) {
	t.Run("accepts symmetric batch in order", func(t *testing.T) {
		batch := []models.RawCitizen{
			rawCitizen(t, map[string]any{"citizen_id": 3, "relatives": []int{1}}),
			rawCitizen(t, map[string]any{"citizen_id": 1, "relatives": []int{3}}),
			rawCitizen(t, map[string]any{"citizen_id": 2}),
		}
		citizens, err := ParseCitizens(batch, fixedNow)
		require.NoError(t, err)
		require.Len(t, citizens, 3)
		assert.Equal(t, id.CitizenID(3), citizens[0].CitizenID)
		assert.Equal(t, id.CitizenID(1), citizens[1].CitizenID)
	})

	t.Run("accepts self relative", func(t *testing.T) {
		batch := []models.RawCitizen{rawCitizen(t, map[string]any{"citizen_id": 5, "relatives": []int{5}})}
		_, err := ParseCitizens(batch, fixedNow)
		assert.NoError(t, err)
	})

	t.Run("accepts empty batch", func(t *testing.T) {
		citizens, err := ParseCitizens(nil, fixedNow)
		require.NoError(t, err)
		assert.Empty(t, citizens)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		batch := []models.RawCitizen{
			rawCitizen(t, map[string]any{"citizen_id": 1}),
			rawCitizen(t, map[string]any{"citizen_id": 1}),
		}
		_, err := ParseCitizens(batch, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIdentifierConflict))
	})

	t.Run("rejects asymmetric relatives", func(t *testing.T) {
		batch := []models.RawCitizen{
			rawCitizen(t, map[string]any{"citizen_id": 1, "relatives": []int{2}}),
			rawCitizen(t, map[string]any{"citizen_id": 2}),
		}
		_, err := ParseCitizens(batch, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRelativesConsistency))
	})

	t.Run("rejects dangling relative", func(t *testing.T) {
		batch := []models.RawCitizen{
			rawCitizen(t, map[string]any{"citizen_id": 1, "relatives": []int{9}}),
		}
		_, err := ParseCitizens(batch, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRelativesConsistency))
	})

	t.Run("everyone listing citizen 1 without reciprocation", func(t *testing.T) {
		batch := []models.RawCitizen{
			rawCitizen(t, map[string]any{"citizen_id": 1, "relatives": []int{1}}),
			rawCitizen(t, map[string]any{"citizen_id": 2, "relatives": []int{1}}),
			rawCitizen(t, map[string]any{"citizen_id": 3, "relatives": []int{1}}),
		}
		_, err := ParseCitizens(batch, fixedNow)
		require.Error(t, err)
		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "invalid relatives", de.Message)
	})
}

func TestParsePatch(t *testing.T) {
	t.Run("decodes only present fields", func(t *testing.T) {
		patch, err := ParsePatch(toRaw(t, map[string]any{"name": "Petrov", "relatives": []int{4}}), fixedNow)
		require.NoError(t, err)
		require.NotNil(t, patch.Name)
		assert.Equal(t, "Petrov", *patch.Name)
		require.NotNil(t, patch.Relatives)
		assert.Equal(t, []id.CitizenID{4}, *patch.Relatives)
		assert.Nil(t, patch.Town)
		assert.Nil(t, patch.BirthDate)
	})

	t.Run("rejects citizen_id", func(t *testing.T) {
		_, err := ParsePatch(toRaw(t, map[string]any{"citizen_id": 3, "name": "Petrov"}), fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeImmutableField))
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		_, err := ParsePatch(models.RawCitizen{}, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedRequest))
	})

	t.Run("rejects invalid calendar date", func(t *testing.T) {
		_, err := ParsePatch(toRaw(t, map[string]any{"birth_date": "31.02.1998"}), fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects null value", func(t *testing.T) {
		_, err := ParsePatch(toRaw(t, map[string]any{"town": nullValue{}}), fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("accepts empty relatives", func(t *testing.T) {
		patch, err := ParsePatch(toRaw(t, map[string]any{"relatives": []int{}}), fixedNow)
		require.NoError(t, err)
		require.NotNil(t, patch.Relatives)
		assert.Empty(t, *patch.Relatives)
	})
}
