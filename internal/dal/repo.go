package dal

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type (
	UsersRepository interface {
		CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
		FindUser(ctx context.Context, id int64) (*User, error)
		FindUserByUsername(ctx context.Context, username string) (*User, error)
		AddScore(ctx context.Context, userID int64, points int) (int, error)
	}

	WordsRepository interface {
		AddWord(ctx context.Context, word Word) (*Word, error)
		FindWord(ctx context.Context, userID, id int64) (*Word, error)
		FindWords(ctx context.Context, userID int64) ([]Word, error)
		FindDueWords(ctx context.Context, userID int64, day time.Time) ([]Word, error)
		UpdateWordSchedule(ctx context.Context, userID, id int64, interval int, nextReview time.Time) error
		GetWordStats(ctx context.Context, userID int64, day time.Time, masteredInterval int) (*WordStats, error)
	}

	Repository interface {
		Transact(ctx context.Context, txFunc func(r Repository) error) error
		UsersRepository
		WordsRepository
	}
)
