package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

type wordRow struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	Word        string `db:"word"`
	Translation string `db:"translation"`
	Definition  string `db:"definition"`
	Category    string `db:"category"`
	ImageURL    string `db:"image_url"`
	NextReview  string `db:"next_review"`
	Interval    int    `db:"interval"`
}

//nolint:gochecknoglobals // column list
var wordColumns = []string{
	"id", "user_id", "word", "translation", "definition",
	"category", "image_url", "next_review", "interval",
}

func (r *Repository) AddWord(ctx context.Context, word dal.Word) (*dal.Word, error) {
	if word.UserID == 0 {
		return nil, errors.New("user id is required")
	}
	if word.Category == "" {
		word.Category = dal.DefaultCategory
	}
	if word.Interval < 1 {
		word.Interval = 1
	}
	if word.NextReview.IsZero() {
		word.NextReview = time.Now()
	}

	query := qb.Insert("words").
		Columns("user_id", "word", "translation", "definition", "category", "image_url", "next_review", "interval").
		Values(word.UserID, word.Text, word.Translation, word.Definition, word.Category, word.ImageURL,
			formatDay(word.NextReview), word.Interval)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	res, err := r.client.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("insert word: %w", err)
	}

	word.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get word id: %w", err)
	}
	word.NextReview = dal.CapReviewDay(dal.Day(word.NextReview))

	return &word, nil
}

func (r *Repository) FindWord(ctx context.Context, userID, id int64) (*dal.Word, error) {
	var row wordRow
	err := r.get(ctx, &row, qb.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"id": id, "user_id": userID}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find word: %w", err)
	}

	return hydrateWord(row)
}

func (r *Repository) FindWords(ctx context.Context, userID int64) ([]dal.Word, error) {
	return r.findWords(ctx, qb.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id"))
}

func (r *Repository) FindDueWords(ctx context.Context, userID int64, day time.Time) ([]dal.Word, error) {
	return r.findWords(ctx, qb.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.LtOrEq{"next_review": formatDay(day)}).
		OrderBy("next_review", "id"))
}

func (r *Repository) UpdateWordSchedule(ctx context.Context, userID, id int64, interval int, nextReview time.Time) error {
	if interval < 1 {
		return fmt.Errorf("interval must be positive: %d", interval)
	}

	affected, err := r.exec(ctx, qb.Update("words").
		Set("interval", interval).
		Set("next_review", formatDay(nextReview)).
		Where(squirrel.Eq{"id": id, "user_id": userID}))
	if err != nil {
		return fmt.Errorf("update word schedule: %w", err)
	}
	if affected == 0 {
		return dal.ErrNotFound
	}

	return nil
}

func (r *Repository) GetWordStats(ctx context.Context, userID int64, day time.Time, masteredInterval int) (*dal.WordStats, error) {
	query := qb.Select("COUNT(*) AS total").
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN next_review <= ? THEN 1 ELSE 0 END), 0) AS due", formatDay(day))).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN interval > ? THEN 1 ELSE 0 END), 0) AS mastered", masteredInterval)).
		From("words").
		Where(squirrel.Eq{"user_id": userID})

	var stats dal.WordStats
	if err := r.get(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("get word stats: %w", err)
	}
	return &stats, nil
}

func (r *Repository) findWords(ctx context.Context, query squirrel.SelectBuilder) ([]dal.Word, error) {
	var rows []wordRow
	if err := r.selectAll(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("find words: %w", err)
	}

	res := make([]dal.Word, 0, len(rows))
	for _, row := range rows {
		w, err := hydrateWord(row)
		if err != nil {
			return nil, err
		}
		res = append(res, *w)
	}
	return res, nil
}

func hydrateWord(row wordRow) (*dal.Word, error) {
	nextReview, err := time.ParseInLocation(dal.DateFormat, row.NextReview, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse next review of word %d: %w", row.ID, err)
	}

	return &dal.Word{
		ID:          row.ID,
		UserID:      row.UserID,
		Text:        row.Word,
		Translation: row.Translation,
		Definition:  row.Definition,
		Category:    row.Category,
		ImageURL:    row.ImageURL,
		NextReview:  nextReview,
		Interval:    row.Interval,
	}, nil
}

// formatDay renders t as a stored day, capped at dal.LastReviewDay.
func formatDay(t time.Time) string {
	return dal.CapReviewDay(t).Format(dal.DateFormat)
}
