package riskscores

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Per-asset-class risk weights. Bonds dampen the score, derivatives dominate
// it. Weights apply to allocation percentages in [0,100].
const (
	equityRiskWeight     = 0.50
	bondRiskWeight       = 0.10
	derivativeRiskWeight = 0.90
)

// maxConcentrationPenalty is added on top of the weighted base when the
// allocation is fully concentrated in a single asset class.
const maxConcentrationPenalty = 10.0

// Score computes the 0-100 risk grade for an allocation. The base is a
// weighted sum of the class percentages; a Herfindahl concentration penalty
// is added so that a portfolio parked entirely in one class grades worse
// than a spread one with the same weighted risk.
func Score(equity, bond, derivative float64) (int, string) {
	base := equity*equityRiskWeight + bond*bondRiskWeight + derivative*derivativeRiskWeight

	score := base + concentrationPenalty(equity, bond, derivative)
	score = math.Round(score)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score), levelFor(int(score))
}

// concentrationPenalty maps the Herfindahl index of the allocation shares
// onto [0, maxConcentrationPenalty]. An even three-way split scores zero
// penalty; a single-class allocation scores the maximum.
func concentrationPenalty(allocations ...float64) float64 {
	total := floats.Sum(allocations)
	if total <= 0 {
		return 0
	}

	shares := make([]float64, len(allocations))
	for i, a := range allocations {
		shares[i] = a / total
	}

	herfindahl := floats.Dot(shares, shares)

	// HHI ranges from 1/n (even split) to 1 (fully concentrated)
	minHHI := 1.0 / float64(len(allocations))
	normalized := (herfindahl - minHHI) / (1.0 - minHHI)
	if normalized < 0 {
		normalized = 0
	}

	return normalized * maxConcentrationPenalty
}

func levelFor(score int) string {
	switch {
	case score <= 33:
		return LevelLow
	case score <= 66:
		return LevelMedium
	default:
		return LevelHigh
	}
}
