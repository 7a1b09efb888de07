package models

import id "census/pkg/domain"

// GiftCount is how many presents one citizen gives within a month.
type GiftCount struct {
	CitizenID id.CitizenID `json:"citizen_id"`
	Presents  int          `json:"presents"`
}

// BirthdayReport maps month number (1-12) to the givers of that month. Every
// month is present; months without givers hold an empty list.
type BirthdayReport map[int][]GiftCount

// TownAgeStats holds interpolated age percentiles for one town.
type TownAgeStats struct {
	Town string  `json:"town"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P99  float64 `json:"p99"`
}
