package learning

import (
	"math"
	"time"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

type Outcome string

const (
	OutcomeEasy Outcome = "easy"
	OutcomeHard Outcome = "hard"

	MinInterval = 1
)

// Schedule doubles the interval for an easy recall and resets it otherwise.
// Any outcome other than OutcomeEasy counts as a failed recall. The interval
// saturates at math.MaxInt and the next review day at dal.LastReviewDay.
func Schedule(interval int, outcome Outcome, today time.Time) (int, time.Time) {
	var next int
	switch {
	case outcome != OutcomeEasy:
		next = MinInterval
	case interval > math.MaxInt/2:
		next = math.MaxInt
	default:
		next = max(interval, MinInterval) * 2
	}
	return next, dal.ReviewDay(dal.Day(today), next)
}
