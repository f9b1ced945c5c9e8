package srs

import (
	"math/rand"
	"testing"
	"time"

	"farsiflash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func TestScheduler_Score_FirstReviewGood(t *testing.T) {
	s := NewScheduler(DefaultParams())

	p := s.Score(domain.AssessmentGood, true, nil, testNow)

	assert.Equal(t, 1, p.Repetitions)
	assert.Equal(t, 1, p.TotalCorrect)
	assert.Equal(t, 0, p.TotalWrong)
	assert.Equal(t, 100, p.Accuracy)
	assert.Equal(t, 1, p.ConsecutiveCorrect)
	assert.Equal(t, 0, p.ConsecutiveWrong)
	assert.Equal(t, DefaultEaseFactor, p.EaseFactor)
	assert.Equal(t, FirstIntervalDays, p.IntervalDays)
	assert.Equal(t, testNow.AddDate(0, 0, 1), p.NextReviewDate)
	assert.Equal(t, domain.AssessmentGood, p.LastAssessment)
	assert.Equal(t, testNow, p.LastReviewedAt)
	assert.Equal(t, testNow, p.UpdatedAt)
	assert.False(t, p.IsLearned)
}

func TestScheduler_Score_AgainResetsFailedItem(t *testing.T) {
	s := NewScheduler(DefaultParams())
	prior := &domain.Progress{
		UserID:           7,
		ItemID:           42,
		Repetitions:      2,
		EaseFactor:       2.5,
		IntervalDays:     3,
		ConsecutiveWrong: 3,
		TotalCorrect:     2,
		TotalWrong:       3,
		LastReviewedAt:   testNow.AddDate(0, 0, -1),
		NextReviewDate:   testNow.AddDate(0, 0, -1).Add(DefaultAgainDelay),
	}

	p := s.Score(domain.AssessmentAgain, false, prior, testNow)

	assert.Equal(t, 0, p.Repetitions)
	assert.Equal(t, 4, p.ConsecutiveWrong)
	assert.Equal(t, 0, p.ConsecutiveCorrect)
	assert.Less(t, p.EaseFactor, 2.5)
	assert.GreaterOrEqual(t, p.EaseFactor, MinEaseFactor)
	assert.Equal(t, testNow.Add(DefaultAgainDelay), p.NextReviewDate)
	assert.Equal(t, 0, p.IntervalDays)
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, int64(42), p.ItemID)

	// prior must not be mutated
	assert.Equal(t, 2, prior.Repetitions)
	assert.Equal(t, 3, prior.ConsecutiveWrong)
}

func TestScheduler_Score_AssessmentTable(t *testing.T) {
	prior := &domain.Progress{
		Repetitions:        3,
		EaseFactor:         2.5,
		IntervalDays:       10,
		ConsecutiveCorrect: 1,
		TotalCorrect:       3,
	}

	tests := []struct {
		name             string
		assessment       domain.Assessment
		expectedEase     float64
		expectedInterval int
		expectedReps     int
	}{
		{name: "again", assessment: domain.AssessmentAgain, expectedEase: 2.3, expectedInterval: 0, expectedReps: 0},
		{name: "hard", assessment: domain.AssessmentHard, expectedEase: 2.35, expectedInterval: 12, expectedReps: 4},
		{name: "good", assessment: domain.AssessmentGood, expectedEase: 2.5, expectedInterval: 25, expectedReps: 4},
		{name: "easy", assessment: domain.AssessmentEasy, expectedEase: 2.65, expectedInterval: 35, expectedReps: 4},
	}

	s := NewScheduler(DefaultParams())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.Score(tt.assessment, tt.assessment != domain.AssessmentAgain, prior, testNow)

			assert.InDelta(t, tt.expectedEase, p.EaseFactor, 1e-9)
			assert.Equal(t, tt.expectedInterval, p.IntervalDays)
			assert.Equal(t, tt.expectedReps, p.Repetitions)
		})
	}
}

func TestScheduler_Score_CorrectnessIndependentOfAssessment(t *testing.T) {
	s := NewScheduler(DefaultParams())

	// a correct answer the learner still rated "hard"
	p := s.Score(domain.AssessmentHard, true, nil, testNow)
	assert.Equal(t, 1, p.Repetitions)
	assert.Equal(t, 1, p.ConsecutiveCorrect)

	// a wrong answer the learner rated "good" still counts as wrong
	p = s.Score(domain.AssessmentGood, false, &p, testNow.Add(time.Hour))
	assert.Equal(t, 2, p.Repetitions)
	assert.Equal(t, 0, p.ConsecutiveCorrect)
	assert.Equal(t, 1, p.ConsecutiveWrong)
	assert.Equal(t, 50, p.Accuracy)
}

func TestScheduler_Score_ClampsOutOfRangeEase(t *testing.T) {
	s := NewScheduler(DefaultParams())

	low := s.Score(domain.AssessmentGood, true, &domain.Progress{EaseFactor: 0.2}, testNow)
	assert.Equal(t, MinEaseFactor, low.EaseFactor)

	high := s.Score(domain.AssessmentEasy, true, &domain.Progress{EaseFactor: 9}, testNow)
	assert.Equal(t, MaxEaseFactor, high.EaseFactor)
}

func TestScheduler_Score_EaseFloorUnderRepeatedAgain(t *testing.T) {
	s := NewScheduler(DefaultParams())

	var p *domain.Progress
	now := testNow
	for i := 0; i < 50; i++ {
		next := s.Score(domain.AssessmentAgain, false, p, now)
		require.GreaterOrEqual(t, next.EaseFactor, MinEaseFactor)
		require.Equal(t, 0, next.Repetitions)
		p = &next
		now = now.Add(time.Hour)
	}
	assert.Equal(t, MinEaseFactor, p.EaseFactor)
	assert.Equal(t, 50, p.ConsecutiveWrong)
}

func TestScheduler_Score_MonotonicDueDateOnSuccess(t *testing.T) {
	s := NewScheduler(DefaultParams())
	rng := rand.New(rand.NewSource(1))

	p := s.Score(domain.AssessmentGood, true, nil, testNow)
	now := testNow
	for i := 0; i < 40; i++ {
		now = now.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
		a := domain.AssessmentGood
		if rng.Intn(2) == 0 {
			a = domain.AssessmentEasy
		}

		next := s.Score(a, true, &p, now)
		require.True(t, next.NextReviewDate.After(p.NextReviewDate),
			"review %d: %s should be after %s", i, next.NextReviewDate, p.NextReviewDate)
		p = next
	}
	assert.Equal(t, MaxIntervalDays, p.IntervalDays)
}

func TestScheduler_Score_RandomSequenceInvariants(t *testing.T) {
	s := NewScheduler(DefaultParams())
	rng := rand.New(rand.NewSource(42))

	var p *domain.Progress
	now := testNow
	for i := 0; i < 500; i++ {
		a := domain.Assessments[rng.Intn(len(domain.Assessments))]
		correct := rng.Intn(3) != 0
		prevReps := 0
		if p != nil {
			prevReps = p.Repetitions
		}

		next := s.Score(a, correct, p, now)

		require.Equal(t, domain.Accuracy(next.TotalCorrect, next.TotalWrong), next.Accuracy)
		require.False(t, next.ConsecutiveCorrect > 0 && next.ConsecutiveWrong > 0)
		require.GreaterOrEqual(t, next.EaseFactor, MinEaseFactor)
		require.LessOrEqual(t, next.EaseFactor, MaxEaseFactor)
		require.False(t, next.NextReviewDate.Before(next.LastReviewedAt))
		if a == domain.AssessmentAgain {
			require.Equal(t, 0, next.Repetitions)
		} else {
			require.Equal(t, prevReps+1, next.Repetitions)
		}

		p = &next
		now = now.Add(time.Duration(rng.Intn(72)) * time.Hour)
	}
}

func TestScheduler_Score_Learned(t *testing.T) {
	s := NewScheduler(DefaultParams())

	var p *domain.Progress
	for i := 0; i < LearnedStreak; i++ {
		next := s.Score(domain.AssessmentGood, true, p, testNow.AddDate(0, 0, i))
		assert.Equal(t, i+1 >= LearnedStreak, next.IsLearned, "review %d", i+1)
		p = &next
	}

	// a lapse clears mastery
	next := s.Score(domain.AssessmentAgain, false, p, testNow.AddDate(0, 1, 0))
	assert.False(t, next.IsLearned)
}

func TestScheduler_Score_LearnedByRepetitions(t *testing.T) {
	s := NewScheduler(DefaultParams())

	p := &domain.Progress{EaseFactor: 2.5, Repetitions: LearnedRepetitions - 1, IntervalDays: 30}
	next := s.Score(domain.AssessmentHard, false, p, testNow)

	assert.Equal(t, LearnedRepetitions, next.Repetitions)
	assert.True(t, next.IsLearned)
}

func TestScheduler_Score_FirstEasyInterval(t *testing.T) {
	s := NewScheduler(DefaultParams())

	p := s.Score(domain.AssessmentEasy, true, nil, testNow)
	assert.Equal(t, FirstEasyIntervalDays, p.IntervalDays)
	assert.InDelta(t, DefaultEaseFactor+0.15, p.EaseFactor, 1e-9)

	// second review grows past the first-easy interval
	p = s.Score(domain.AssessmentGood, true, &p, testNow.AddDate(0, 0, 3))
	assert.Equal(t, FirstEasyIntervalDays+1, p.IntervalDays)
}
