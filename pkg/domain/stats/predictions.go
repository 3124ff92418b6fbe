package stats

import (
	"math"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// Canonical race distances in meters.
const (
	Distance5K           = 5000.0
	Distance10K          = 10000.0
	DistanceHalfMarathon = 21097.5
	DistanceMarathon     = 42195.0
)

// riegelExponent is the fatigue exponent of Riegel's endurance formula.
const riegelExponent = 1.06

type raceDistance struct {
	Name   string
	Meters float64
}

// sourceDistances are the distances scanned for personal bests; the
// marathon is predicted only, never sourced, because stored marathon
// best-effort fragments are too rare to trust as PRs.
var sourceDistances = []raceDistance{
	{"5K", Distance5K},
	{"10K", Distance10K},
	{"Half Marathon", DistanceHalfMarathon},
}

var targetDistances = []raceDistance{
	{"5K", Distance5K},
	{"10K", Distance10K},
	{"Half Marathon", DistanceHalfMarathon},
	{"Marathon", DistanceMarathon},
}

// Riegel extrapolates a race time to another distance:
// T2 = T1 * (D2/D1)^1.06.
func Riegel(t1Sec, d1Meters, d2Meters float64) float64 {
	if t1Sec <= 0 || d1Meters <= 0 || d2Meters <= 0 {
		return 0
	}
	return t1Sec * math.Pow(d2Meters/d1Meters, riegelExponent)
}

// PersonalRecords scans best-effort fragments across all activities and
// keeps the fastest time per source distance (5K, 10K, half marathon).
// Effort distances match within half a percent to absorb provider
// rounding (21095 vs 21097.5).
func PersonalRecords(activities []*types.Activity) map[string]float64 {
	prs := make(map[string]float64)
	for _, a := range activities {
		for _, be := range a.BestEfforts {
			if be.ElapsedSec <= 0 {
				continue
			}
			for _, rd := range sourceDistances {
				if math.Abs(be.DistanceMeters-rd.Meters) > rd.Meters*0.005 {
					continue
				}
				if best, ok := prs[rd.Name]; !ok || be.ElapsedSec < best {
					prs[rd.Name] = be.ElapsedSec
				}
			}
		}
	}
	return prs
}

// Predictions produces one entry per canonical distance that is either
// an actual personal record or derivable from one. A real PR is never
// replaced by an extrapolation; between competing extrapolations the
// faster one wins.
func Predictions(activities []*types.Activity) []types.RacePrediction {
	prs := PersonalRecords(activities)
	if len(prs) == 0 {
		return nil
	}

	preds := make(map[string]types.RacePrediction, len(targetDistances))
	for name, t := range prs {
		preds[name] = types.RacePrediction{Distance: name, TimeSec: t, Source: "PR"}
	}

	for _, from := range sourceDistances {
		t1, ok := prs[from.Name]
		if !ok {
			continue
		}
		for _, to := range targetDistances {
			if to.Name == from.Name {
				continue
			}
			existing, exists := preds[to.Name]
			if exists && existing.Source == "PR" {
				continue
			}
			derived := Riegel(t1, from.Meters, to.Meters)
			if exists && existing.TimeSec <= derived {
				continue
			}
			preds[to.Name] = types.RacePrediction{
				Distance: to.Name,
				TimeSec:  derived,
				Source:   "derived from " + from.Name + " PR",
			}
		}
	}

	out := make([]types.RacePrediction, 0, len(preds))
	for _, rd := range targetDistances {
		if p, ok := preds[rd.Name]; ok {
			out = append(out, p)
		}
	}
	return out
}
