// Package srs schedules vocabulary reviews with an SM-2 style algorithm.
package srs

import (
	"math"
	"time"

	"farsiflash/internal/domain"
)

// Params holds the tunable constants of the scheduler
type Params struct {
	InitialEaseFactor float64
	MinEaseFactor     float64
	MaxEaseFactor     float64

	// EaseDelta is added to the ease factor for each assessment
	EaseDelta map[domain.Assessment]float64

	// AgainDelay is how soon a forgotten item comes back
	AgainDelay time.Duration

	FirstIntervalDays     int
	FirstEasyIntervalDays int
	SecondIntervalDays    int
	MaxIntervalDays       int

	// HardMultiplier scales the interval on "hard"; "good" uses the ease
	// factor and "easy" uses the ease factor times EasyBonus.
	HardMultiplier float64
	EasyBonus      float64

	// An item is learned after LearnedStreak correct answers in a row
	// or LearnedRepetitions successful reviews.
	LearnedStreak      int
	LearnedRepetitions int
}

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0

	DefaultAgainDelay = 10 * time.Minute

	FirstIntervalDays     = 1
	FirstEasyIntervalDays = 3
	SecondIntervalDays    = 3
	MaxIntervalDays       = 365

	HardMultiplier = 1.2
	EasyBonus      = 1.3

	LearnedStreak      = 5
	LearnedRepetitions = 8
)

// DefaultParams returns the scheduler defaults
func DefaultParams() Params {
	return Params{
		InitialEaseFactor: DefaultEaseFactor,
		MinEaseFactor:     MinEaseFactor,
		MaxEaseFactor:     MaxEaseFactor,
		EaseDelta: map[domain.Assessment]float64{
			domain.AssessmentAgain: -0.20,
			domain.AssessmentHard:  -0.15,
			domain.AssessmentGood:  0,
			domain.AssessmentEasy:  0.15,
		},
		AgainDelay:            DefaultAgainDelay,
		FirstIntervalDays:     FirstIntervalDays,
		FirstEasyIntervalDays: FirstEasyIntervalDays,
		SecondIntervalDays:    SecondIntervalDays,
		MaxIntervalDays:       MaxIntervalDays,
		HardMultiplier:        HardMultiplier,
		EasyBonus:             EasyBonus,
		LearnedStreak:         LearnedStreak,
		LearnedRepetitions:    LearnedRepetitions,
	}
}

// Scheduler computes the next review state of an item
type Scheduler struct {
	params Params
}

// NewScheduler creates a scheduler with the given parameters
func NewScheduler(params Params) *Scheduler {
	return &Scheduler{params: params}
}

// Params returns the scheduler configuration
func (s *Scheduler) Params() Params {
	return s.params
}

// Score applies one review to prior and returns the new state. prior may be
// nil for the first review of an item; it is never modified. The caller is
// expected to pass a valid assessment.
func (s *Scheduler) Score(assessment domain.Assessment, isCorrect bool, prior *domain.Progress, now time.Time) domain.Progress {
	next := s.initial()
	if prior != nil {
		next = *prior
		next.EaseFactor = s.clampEase(next.EaseFactor)
		if next.Repetitions < 0 {
			next.Repetitions = 0
		}
		if next.IntervalDays < 0 {
			next.IntervalDays = 0
		}
	}

	if isCorrect {
		next.TotalCorrect++
		next.ConsecutiveCorrect++
		next.ConsecutiveWrong = 0
	} else {
		next.TotalWrong++
		next.ConsecutiveWrong++
		next.ConsecutiveCorrect = 0
	}
	next.Accuracy = domain.Accuracy(next.TotalCorrect, next.TotalWrong)

	next.EaseFactor = s.clampEase(next.EaseFactor + s.params.EaseDelta[assessment])
	next.LastAssessment = assessment

	if assessment == domain.AssessmentAgain {
		next.Repetitions = 0
		next.IntervalDays = 0
		next.NextReviewDate = now.Add(s.params.AgainDelay)
		next.IsLearned = false
	} else {
		next.Repetitions++
		next.IntervalDays = s.interval(next.Repetitions, next.IntervalDays, next.EaseFactor, assessment)
		next.NextReviewDate = now.AddDate(0, 0, next.IntervalDays)
	}

	if next.ConsecutiveCorrect >= s.params.LearnedStreak || next.Repetitions >= s.params.LearnedRepetitions {
		next.IsLearned = true
	}

	next.LastReviewedAt = now
	next.UpdatedAt = now
	return next
}

func (s *Scheduler) initial() domain.Progress {
	return domain.Progress{EaseFactor: s.params.InitialEaseFactor}
}

// interval returns the number of days until the next review after a
// successful recall. repetitions already includes this review.
func (s *Scheduler) interval(repetitions, prev int, ease float64, assessment domain.Assessment) int {
	var days int
	switch repetitions {
	case 1:
		days = s.params.FirstIntervalDays
		if assessment == domain.AssessmentEasy {
			days = s.params.FirstEasyIntervalDays
		}
	case 2:
		days = s.params.SecondIntervalDays
		if assessment == domain.AssessmentEasy {
			days = int(math.Ceil(float64(days) * s.params.EasyBonus))
		}
	default:
		days = int(math.Ceil(float64(prev) * s.multiplier(ease, assessment)))
	}

	// intervals only grow on success
	if repetitions > 1 && days <= prev {
		days = prev + 1
	}
	if days < 1 {
		days = 1
	}
	if days > s.params.MaxIntervalDays {
		days = s.params.MaxIntervalDays
	}
	return days
}

func (s *Scheduler) multiplier(ease float64, assessment domain.Assessment) float64 {
	switch assessment {
	case domain.AssessmentHard:
		return s.params.HardMultiplier
	case domain.AssessmentEasy:
		return ease * s.params.EasyBonus
	default:
		return ease
	}
}

func (s *Scheduler) clampEase(ef float64) float64 {
	if math.IsNaN(ef) {
		return s.params.InitialEaseFactor
	}
	if ef < s.params.MinEaseFactor {
		return s.params.MinEaseFactor
	}
	if ef > s.params.MaxEaseFactor {
		return s.params.MaxEaseFactor
	}
	return ef
}
