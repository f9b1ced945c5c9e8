package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Assessment is the learner's recall quality for one review
type Assessment string

const (
	AssessmentAgain Assessment = "again"
	AssessmentHard  Assessment = "hard"
	AssessmentGood  Assessment = "good"
	AssessmentEasy  Assessment = "easy"
)

// Assessments lists all assessments from worst to best recall
var Assessments = []Assessment{AssessmentAgain, AssessmentHard, AssessmentGood, AssessmentEasy}

// ParseAssessment validates raw input from a client
func ParseAssessment(s string) (Assessment, error) {
	a := Assessment(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssessment, s)
	}
	return a, nil
}

// Valid reports whether a is one of the known assessments
func (a Assessment) Valid() bool {
	switch a {
	case AssessmentAgain, AssessmentHard, AssessmentGood, AssessmentEasy:
		return true
	}
	return false
}

// Progress is a learner's scheduling state for a single item.
// There is exactly one record per (UserID, ItemID).
type Progress struct {
	UserID             int64
	ItemID             int64
	Repetitions        int
	EaseFactor         float64
	IntervalDays       int
	NextReviewDate     time.Time
	LastAssessment     Assessment
	ConsecutiveCorrect int
	ConsecutiveWrong   int
	TotalCorrect       int
	TotalWrong         int
	Accuracy           int
	IsLearned          bool
	LastReviewedAt     time.Time
	UpdatedAt          time.Time
	Version            int
}

// IsDue reports whether the item should be reviewed at now
func (p *Progress) IsDue(now time.Time) bool {
	return !now.Before(p.NextReviewDate)
}

// IsFailed reports whether the learner is on a wrong-answer streak
func (p *Progress) IsFailed() bool {
	return p.ConsecutiveWrong > 0
}

// Accuracy returns the percentage of correct answers rounded to the nearest integer
func Accuracy(correct, wrong int) int {
	total := correct + wrong
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// ProgressMutator computes the next state of a record from its prior state.
// prior is nil when the learner has never reviewed the item.
type ProgressMutator func(prior *Progress) (Progress, error)
