package reports

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/internal/citizens/models"
	id "census/pkg/domain"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func citizen(cid id.CitizenID, town string, born models.BirthDate, relatives ...id.CitizenID) models.Citizen {
	return models.Citizen{
		CitizenID: cid,
		Town:      town,
		Street:    "Lenina",
		Building:  "1",
		Apartment: 1,
		Name:      "Citizen",
		BirthDate: born,
		Gender:    models.GenderFemale,
		Relatives: relatives,
	}
}

func TestBirthdays(t *testing.T) {
	t.Run("may scenario", func(t *testing.T) {
		may := models.NewBirthDate(1990, time.May, 10)
		roster := models.NewRoster([]models.Citizen{
			citizen(1, "Moscow", may, 2, 3, 4),
			citizen(2, "Moscow", may, 1),
			citizen(3, "Moscow", may, 1),
			citizen(4, "Moscow", may, 1),
			citizen(5, "Moscow", may),
		})

		report := Birthdays(roster)

		require.Len(t, report, 12)
		assert.Equal(t, []models.GiftCount{
			{CitizenID: 1, Presents: 3},
			{CitizenID: 2, Presents: 1},
			{CitizenID: 3, Presents: 1},
			{CitizenID: 4, Presents: 1},
		}, report[5])
		for month := 1; month <= 12; month++ {
			if month == 5 {
				continue
			}
			assert.NotNil(t, report[month], "month %d", month)
			assert.Empty(t, report[month], "month %d", month)
		}
	})

	t.Run("presents are bucketed by the relative's month", func(t *testing.T) {
		roster := models.NewRoster([]models.Citizen{
			citizen(1, "Moscow", models.NewBirthDate(1990, time.January, 1), 2, 3),
			citizen(2, "Moscow", models.NewBirthDate(1991, time.March, 1), 1),
			citizen(3, "Moscow", models.NewBirthDate(1992, time.March, 31), 1),
		})

		report := Birthdays(roster)

		assert.Equal(t, []models.GiftCount{{CitizenID: 1, Presents: 2}}, report[3])
		assert.Equal(t, []models.GiftCount{
			{CitizenID: 2, Presents: 1},
			{CitizenID: 3, Presents: 1},
		}, report[1])
	})

	t.Run("self link gives a present in own month", func(t *testing.T) {
		roster := models.NewRoster([]models.Citizen{
			citizen(5, "Moscow", models.NewBirthDate(1990, time.July, 7), 5),
		})

		report := Birthdays(roster)
		assert.Equal(t, []models.GiftCount{{CitizenID: 5, Presents: 1}}, report[7])
	})

	t.Run("empty roster still lists every month", func(t *testing.T) {
		report := Birthdays(models.NewRoster(nil))
		require.Len(t, report, 12)
		for month := 1; month <= 12; month++ {
			assert.Empty(t, report[month])
		}
	})

	t.Run("total presents equal relative edges", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))
		const n = 40
		adjacency := make(map[id.CitizenID][]id.CitizenID, n)
		for i := 1; i <= n; i++ {
			for j := i + 1; j <= n; j++ {
				if rng.IntN(6) == 0 {
					a, b := id.CitizenID(i), id.CitizenID(j)
					adjacency[a] = append(adjacency[a], b)
					adjacency[b] = append(adjacency[b], a)
				}
			}
		}
		citizens := make([]models.Citizen, 0, n)
		edges := 0
		for i := 1; i <= n; i++ {
			cid := id.CitizenID(i)
			born := models.NewBirthDate(1950+rng.IntN(60), time.Month(1+rng.IntN(12)), 1+rng.IntN(28))
			citizens = append(citizens, citizen(cid, "Moscow", born, adjacency[cid]...))
			edges += len(adjacency[cid])
		}

		report := Birthdays(models.NewRoster(citizens))

		total := 0
		for _, gifts := range report {
			for _, g := range gifts {
				assert.Positive(t, g.Presents)
				total += g.Presents
			}
		}
		assert.Equal(t, edges, total)
	})
}

func TestPercentile(t *testing.T) {
	values := []int{10, 20, 30, 40}
	assert.InDelta(t, 25.0, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 32.5, Percentile(values, 75), 1e-9)
	assert.InDelta(t, 39.7, Percentile(values, 99), 1e-9)
	assert.InDelta(t, 10.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 40.0, Percentile(values, 100), 1e-9)
	assert.InDelta(t, 42.0, Percentile([]int{42}, 99), 1e-9)
}

func TestTownAgePercentiles(t *testing.T) {
	t.Run("groups by town in order of appearance", func(t *testing.T) {
		citizens := []models.Citizen{
			citizen(1, "Moscow", models.NewBirthDate(2000, time.June, 15)),
			citizen(2, "Kazan", models.NewBirthDate(1990, time.January, 1)),
			citizen(3, "Moscow", models.NewBirthDate(2000, time.June, 16)),
			citizen(4, "Moscow", models.NewBirthDate(1980, time.December, 31)),
		}

		stats := TownAgePercentiles(citizens, fixedNow)

		require.Len(t, stats, 2)
		// Moscow ages: 24 (birthday today), 23 (birthday tomorrow), 43
		assert.Equal(t, models.TownAgeStats{Town: "Moscow", P50: 24, P75: 33.5, P99: 42.62}, stats[0])
		assert.Equal(t, models.TownAgeStats{Town: "Kazan", P50: 34, P75: 34, P99: 34}, stats[1])
	})

	t.Run("no citizens gives no towns", func(t *testing.T) {
		assert.Empty(t, TownAgePercentiles(nil, fixedNow))
	})

	t.Run("percentiles are ordered", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 5))
		towns := []string{"Moscow", "Kazan", "Tver"}
		var citizens []models.Citizen
		for i := 1; i <= 200; i++ {
			born := models.NewBirthDate(1930+rng.IntN(90), time.Month(1+rng.IntN(12)), 1+rng.IntN(28))
			citizens = append(citizens, citizen(id.CitizenID(i), towns[rng.IntN(len(towns))], born))
		}

		for _, s := range TownAgePercentiles(citizens, fixedNow) {
			assert.LessOrEqual(t, s.P50, s.P75, s.Town)
			assert.LessOrEqual(t, s.P75, s.P99, s.Town)
		}
	})
}
