// Package scoring computes the composite fitness score used to rank
// candidates for a work item. Pure functions, no side effects.
package scoring

import (
	"fmt"
	"math"
	"time"

	"workalloc/internal/model"
	"workalloc/internal/timeutil"
)

// Composite weights. The availability normalization (12h window, 0.5
// floor), the 400-case experience cap and the 5-level skill cap are
// load-bearing constants of the ranking.
const (
	weightRole         = 0.25
	weightSkill        = 0.20
	weightExperience   = 0.20
	weightAvailability = 0.20
	weightWorkload     = 0.15

	skillCap       = 5
	experienceCap  = 400
	workloadCap    = 12
	windowRefHours = 12.0
)

// Compute scores one candidate against one calendar slot for a work
// item scheduled at scheduledAt. Returns the composite score and its
// breakdown, both rounded to 4 decimal places.
func Compute(candidate model.Resource, slot model.CalendarSlot, scheduledAt time.Time, requiredSpecialty string, priority int) (float64, model.ScoreBreakdown, error) {
	availability, err := availabilityScore(slot, scheduledAt)
	if err != nil {
		return 0, model.ScoreBreakdown{}, fmt.Errorf("score availability: %w", err)
	}

	role := roleScore(candidate.Specialty, requiredSpecialty)
	skill := skillScore(candidate.SkillLevel)
	experience := experienceScore(candidate.TotalCasesHandled)
	workload := workloadScore(slot.CurrentWorkload)
	bonus := priorityBonus(priority)

	// The composite sums the unrounded sub-scores; only the reported
	// values are rounded.
	score := weightRole*role +
		weightSkill*skill +
		weightExperience*experience +
		weightAvailability*availability +
		weightWorkload*workload +
		bonus

	b := model.ScoreBreakdown{
		Role:          round4(role),
		Skill:         round4(skill),
		Experience:    round4(experience),
		Availability:  round4(availability),
		Workload:      round4(workload),
		PriorityBonus: round4(bonus),
	}

	return round4(score), b, nil
}

func roleScore(candidateSpecialty, requiredSpecialty string) float64 {
	if candidateSpecialty == "" || requiredSpecialty == "" {
		return 0
	}
	if candidateSpecialty == requiredSpecialty {
		return 1
	}
	// Partial credit for a generalist covering a specialist need.
	if requiredSpecialty != model.GeneralSpecialty && candidateSpecialty == model.GeneralSpecialty {
		return 0.5
	}
	return 0.4
}

func skillScore(level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Min(float64(level), skillCap) / skillCap
}

func experienceScore(totalCases int) float64 {
	if totalCases <= 0 {
		return 0
	}
	return math.Min(float64(totalCases), experienceCap) / experienceCap
}

// availabilityScore is 0 outside the slot window; inside, it is
// proportional to window length over 12 hours, floored at 0.5 and
// capped at 1.0.
func availabilityScore(slot model.CalendarSlot, scheduledAt time.Time) (float64, error) {
	inside, err := timeutil.WithinWindow(slot.AvailableFrom, slot.AvailableTo, scheduledAt)
	if err != nil {
		return 0, err
	}
	if !inside {
		return 0, nil
	}
	hours, err := timeutil.WindowHours(slot.AvailableFrom, slot.AvailableTo)
	if err != nil {
		return 0, err
	}
	return math.Min(1.0, math.Max(0.5, hours/windowRefHours)), nil
}

func workloadScore(workload *int) float64 {
	if workload == nil {
		return 0.8
	}
	return math.Max(0, 1.0-math.Min(float64(*workload), workloadCap)/workloadCap)
}

func priorityBonus(priority int) float64 {
	p := math.Max(1, math.Min(float64(priority), 5))
	return 0.15 * p / 5
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
