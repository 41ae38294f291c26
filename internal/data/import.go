package data

import (
	"context"
	"fmt"
	"time"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
	"github.com/Roma7-7-7/vocab-trainer/internal/learning"
)

// Import stores every line from in as a new word of userID, due on today.
// It returns the number of stored words.
func Import(ctx context.Context, repo dal.WordsRepository, userID int64, today time.Time, in <-chan Line) (int, error) {
	imported := 0
	for l := range in {
		_, err := repo.AddWord(ctx, dal.Word{
			UserID:      userID,
			Text:        l.Word,
			Translation: l.Translation,
			Definition:  l.Definition,
			Category:    l.Category,
			NextReview:  today,
			Interval:    learning.MinInterval,
		})
		if err != nil {
			return imported, fmt.Errorf("add word %q: %w", l.Word, err)
		}
		imported++
	}
	return imported, nil
}
