package dal

import "time"

const (
	DefaultCategory = "General"

	// DateFormat is how calendar days are stored.
	DateFormat = time.DateOnly

	secondsPerDay = 24 * 60 * 60
)

type (
	User struct {
		ID       int64
		Username string
		Password string // bcrypt hash
		Score    int
	}

	Word struct {
		ID          int64
		UserID      int64
		Text        string
		Translation string
		Definition  string
		Category    string
		ImageURL    string
		NextReview  time.Time
		Interval    int
	}

	WordStats struct {
		Total    int `db:"total"`
		Due      int `db:"due"`
		Mastered int `db:"mastered"`
	}
)

func (u *User) AccountID() int64 {
	return u.ID
}

func (u *User) HashedPassword() string {
	return u.Password
}

// Day truncates t to midnight of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LastReviewDay is the latest next-review day the store can represent.
func LastReviewDay(loc *time.Location) time.Time {
	return time.Date(9999, time.December, 31, 0, 0, 0, 0, loc)
}

// CapReviewDay clamps t to LastReviewDay.
func CapReviewDay(t time.Time) time.Time {
	if last := LastReviewDay(t.Location()); t.After(last) {
		return last
	}
	return t
}

// ReviewDay returns day moved forward by days, saturating at LastReviewDay.
func ReviewDay(day time.Time, days int) time.Time {
	last := LastReviewDay(day.Location())
	if int64(days) > (last.Unix()-day.Unix())/secondsPerDay+1 {
		return last
	}
	return CapReviewDay(day.AddDate(0, 0, days))
}

// IsDue reports whether the word should be reviewed on day.
func (w *Word) IsDue(day time.Time) bool {
	return !w.NextReview.After(day)
}
