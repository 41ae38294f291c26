package learning

import (
	"errors"
	"math/rand/v2"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

const QuizOptions = 4

var ErrInsufficientWords = errors.New("not enough words for a quiz")

type Quiz struct {
	Word    dal.Word
	Options []string
}

// NewQuiz picks a random target word and mixes its translation with the
// translations of three other random words. Equal translations are not
// collapsed, so the same option text may appear more than once.
func NewQuiz(words []dal.Word, rnd *rand.Rand) (Quiz, error) {
	if len(words) < QuizOptions {
		return Quiz{}, ErrInsufficientWords
	}

	target := rnd.IntN(len(words))

	others := make([]string, 0, len(words)-1)
	for i, w := range words {
		if i != target {
			others = append(others, w.Translation)
		}
	}

	// partial Fisher-Yates: the first QuizOptions-1 entries become the distractors
	for i := range QuizOptions - 1 {
		j := i + rnd.IntN(len(others)-i)
		others[i], others[j] = others[j], others[i]
	}

	options := make([]string, 0, QuizOptions)
	options = append(options, others[:QuizOptions-1]...)
	options = append(options, words[target].Translation)
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Quiz{Word: words[target], Options: options}, nil
}
