package reports

import (
	"math"
	"slices"
	"time"

	"census/internal/citizens/models"
)

// Percentiles reported per town.
var townPercentiles = [...]float64{50, 75, 99}

// TownAgePercentiles groups citizens by town and returns the p50, p75 and p99
// of their ages at now, rounded to two decimals. Towns are listed in order of
// first appearance.
func TownAgePercentiles(citizens []models.Citizen, now time.Time) []models.TownAgeStats {
	var towns []string
	ages := map[string][]int{}
	for _, c := range citizens {
		if _, seen := ages[c.Town]; !seen {
			towns = append(towns, c.Town)
		}
		ages[c.Town] = append(ages[c.Town], c.BirthDate.AgeAt(now))
	}

	stats := make([]models.TownAgeStats, 0, len(towns))
	for _, town := range towns {
		values := ages[town]
		slices.Sort(values)
		var p [len(townPercentiles)]float64
		for i, pct := range townPercentiles {
			p[i] = round2(Percentile(values, pct))
		}
		stats = append(stats, models.TownAgeStats{Town: town, P50: p[0], P75: p[1], P99: p[2]})
	}
	return stats
}

// Percentile interpolates linearly between the two closest ranks of sorted.
// sorted must be ascending and non-empty.
func Percentile(sorted []int, pct float64) float64 {
	k := float64(len(sorted)-1) * pct / 100
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return float64(sorted[int(k)])
	}
	return float64(sorted[int(f)])*(c-k) + float64(sorted[int(c)])*(k-f)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
