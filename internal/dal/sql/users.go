package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

type userRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
	Score    int    `db:"score"`
}

var userColumns = []string{"id", "username", "password", "score"} //nolint:gochecknoglobals // column list

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (*dal.User, error) {
	query := qb.Insert("users").
		Columns("username", "password").
		Values(username, passwordHash)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	res, err := r.client.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, dal.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get user id: %w", err)
	}

	return &dal.User{ID: id, Username: username, Password: passwordHash}, nil
}

func (r *Repository) FindUser(ctx context.Context, id int64) (*dal.User, error) {
	return r.findUser(ctx, squirrel.Eq{"id": id})
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*dal.User, error) {
	return r.findUser(ctx, squirrel.Eq{"username": username})
}

func (r *Repository) AddScore(ctx context.Context, userID int64, points int) (int, error) {
	if points < 0 {
		return 0, fmt.Errorf("points must not be negative: %d", points)
	}

	var score int
	err := r.Transact(ctx, func(repo dal.Repository) error {
		tx := repo.(*Repository) //nolint:forcetypeassert // Transact always passes *Repository

		affected, err := tx.exec(ctx, qb.Update("users").
			Set("score", squirrel.Expr("score + ?", points)).
			Where(squirrel.Eq{"id": userID}))
		if err != nil {
			return fmt.Errorf("update score: %w", err)
		}
		if affected == 0 {
			return dal.ErrNotFound
		}

		if err = tx.get(ctx, &score, qb.Select("score").From("users").Where(squirrel.Eq{"id": userID})); err != nil {
			return fmt.Errorf("get score: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return score, nil
}

func (r *Repository) findUser(ctx context.Context, where squirrel.Eq) (*dal.User, error) {
	var row userRow
	err := r.get(ctx, &row, qb.Select(userColumns...).From("users").Where(where))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &dal.User{
		ID:       row.ID,
		Username: row.Username,
		Password: row.Password,
		Score:    row.Score,
	}, nil
}
