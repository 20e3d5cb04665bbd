// Package catchrate computes capture probabilities using the classic
// shake-check formula. It is a pure calculator: malformed input falls back
// to sensible defaults instead of returning errors.
package catchrate

import "math"

// Status conditions that modify the capture rate.
const (
	StatusNone      = "none"
	StatusSleep     = "sleep"
	StatusFreeze    = "freeze"
	StatusParalysis = "paralysis"
	StatusPoison    = "poison"
	StatusBurn      = "burn"
)

// Ball kinds.
const (
	BallPoke   = "poke"
	BallGreat  = "great"
	BallUltra  = "ultra"
	BallMaster = "master"
)

// DefaultBaseRate stands in for species with no usable base catch rate.
const DefaultBaseRate = 45

var statusMultipliers = map[string]float64{
	StatusNone:      1.0,
	StatusSleep:     2.5,
	StatusFreeze:    2.5,
	StatusParalysis: 1.5,
	StatusPoison:    1.5,
	StatusBurn:      1.5,
}

var ballMultipliers = map[string]float64{
	BallPoke:  1.0,
	BallGreat: 1.5,
	BallUltra: 2.0,
}

// Attempt describes one capture attempt.
type Attempt struct {
	BaseRate   int     `json:"base_rate"`
	HPFraction float64 `json:"hp_fraction"`
	Status     string  `json:"status"`
	Ball       string  `json:"ball"`
}

// Result carries the intermediate values alongside the final probability,
// which is a percentage in (0, 100].
type Result struct {
	Modified    float64 `json:"modified_rate"`
	Shake       int     `json:"shake_value"`
	Probability float64 `json:"probability"`
	Guaranteed  bool    `json:"guaranteed"`
}

// Probability returns the capture chance for the attempt as a percentage.
func Probability(at Attempt) float64 {
	return Calculate(at).Probability
}

// Calculate runs the full formula: the modified rate a scales the base rate
// by remaining health, ball and status; a >= 255 (or a master ball) is a
// guaranteed capture, otherwise each of the four shake checks passes with
// chance b/65536 for the shake value b derived from a.
func Calculate(at Attempt) Result {
	if at.Ball == BallMaster {
		return guaranteed()
	}

	base := float64(at.BaseRate)
	if base <= 0 {
		base = DefaultBaseRate
	}
	frac := at.HPFraction
	if frac <= 0 || frac > 1 {
		frac = 1
	}

	a := (3 - 2*frac) / 3 * base * multiplier(ballMultipliers, at.Ball) * multiplier(statusMultipliers, at.Status)
	if a < 1 {
		a = 1
	}
	if a >= 255 {
		return guaranteed()
	}

	b := math.Floor(1048560 / math.Sqrt(math.Sqrt(16711680/a)))
	return Result{
		Modified:    a,
		Shake:       int(b),
		Probability: math.Pow(b/65536, 4) * 100,
	}
}

func guaranteed() Result {
	return Result{Modified: 255, Shake: 65535, Probability: 100, Guaranteed: true}
}

func multiplier(table map[string]float64, key string) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}

// Statuses lists the recognized status conditions.
func Statuses() []string {
	return []string{StatusNone, StatusSleep, StatusFreeze, StatusParalysis, StatusPoison, StatusBurn}
}

// Balls lists the recognized ball kinds.
func Balls() []string {
	return []string{BallPoke, BallGreat, BallUltra, BallMaster}
}
