package sql

import (
	"context"
	"math"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db.DB, log))
	return NewRepository(db, log)
}

func mustCreateUser(t *testing.T, repo *Repository, username string) *dal.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	return u
}

func countUsers(t *testing.T, repo *Repository) int {
	t.Helper()
	var n int
	require.NoError(t, repo.db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM users"))
	return n
}

func TestMigrate_Idempotent(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, Migrate(context.Background(), repo.db.DB, repo.log))
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	u, err := repo.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Zero(t, u.Score)

	found, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "hash", found.Password)

	byID, err := repo.FindUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	mustCreateUser(t, repo, "alice")

	_, err := repo.CreateUser(ctx, "alice", "other")
	require.ErrorIs(t, err, dal.ErrAlreadyExists)
	assert.Equal(t, 1, countUsers(t, repo))
}

func TestFindUser_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindUser(context.Background(), 42)
	require.ErrorIs(t, err, dal.ErrNotFound)

	_, err = repo.FindUserByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, dal.ErrNotFound)
}

func TestAddScore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustCreateUser(t, repo, "alice")

	for i := 1; i <= 3; i++ {
		score, err := repo.AddScore(ctx, u.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, i*10, score)
	}

	found, err := repo.FindUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, found.Score)

	_, err = repo.AddScore(ctx, u.ID, -5)
	require.Error(t, err)

	_, err = repo.AddScore(ctx, 9999, 10)
	require.ErrorIs(t, err, dal.ErrNotFound)
}

func TestAddWord_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustCreateUser(t, repo, "alice")

	w, err := repo.AddWord(ctx, dal.Word{UserID: u.ID, Text: "apple", Translation: "sib"})
	require.NoError(t, err)
	assert.NotZero(t, w.ID)

	found, err := repo.FindWord(ctx, u.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "apple", found.Text)
	assert.Equal(t, "sib", found.Translation)
	assert.Equal(t, dal.DefaultCategory, found.Category)
	assert.Equal(t, 1, found.Interval)
	assert.Equal(t, time.Now().Format(dal.DateFormat), found.NextReview.Format(dal.DateFormat))
}

func TestAddWord_RequiresExistingOwner(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.AddWord(context.Background(), dal.Word{Text: "apple"})
	require.Error(t, err)

	_, err = repo.AddWord(context.Background(), dal.Word{UserID: 777, Text: "apple"})
	require.Error(t, err)
}

func TestFindWord_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	alice := mustCreateUser(t, repo, "alice")
	bob := mustCreateUser(t, repo, "bob")

	w, err := repo.AddWord(ctx, dal.Word{UserID: alice.ID, Text: "apple"})
	require.NoError(t, err)

	_, err = repo.FindWord(ctx, bob.ID, w.ID)
	require.ErrorIs(t, err, dal.ErrNotFound)

	err = repo.UpdateWordSchedule(ctx, bob.ID, w.ID, 4, time.Now())
	require.ErrorIs(t, err, dal.ErrNotFound)

	_, err = repo.FindWord(ctx, alice.ID, w.ID+100)
	require.ErrorIs(t, err, dal.ErrNotFound)
}

func TestUpdateWordSchedule(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustCreateUser(t, repo, "alice")
	w, err := repo.AddWord(ctx, dal.Word{UserID: u.ID, Text: "apple"})
	require.NoError(t, err)

	next := time.Date(2030, 5, 17, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.UpdateWordSchedule(ctx, u.ID, w.ID, 8, next))

	found, err := repo.FindWord(ctx, u.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, found.Interval)
	assert.True(t, next.Equal(found.NextReview))

	require.Error(t, repo.UpdateWordSchedule(ctx, u.ID, w.ID, 0, next))
}

func TestUpdateWordSchedule_FarFuture(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustCreateUser(t, repo, "alice")
	w, err := repo.AddWord(ctx, dal.Word{UserID: u.ID, Text: "apple"})
	require.NoError(t, err)

	today := dal.Day(time.Now())
	far := time.Date(13509, 10, 25, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.UpdateWordSchedule(ctx, u.ID, w.ID, math.MaxInt, far))

	found, err := repo.FindWord(ctx, u.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, found.Interval)
	assert.True(t, dal.LastReviewDay(time.Local).Equal(found.NextReview))

	due, err := repo.FindDueWords(ctx, u.ID, today)
	require.NoError(t, err)
	assert.Empty(t, due)

	stats, err := repo.GetWordStats(ctx, u.ID, today, 10)
	require.NoError(t, err)
	assert.Equal(t, dal.WordStats{Total: 1, Due: 0, Mastered: 1}, *stats)
}

func TestDueWordsAndStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	alice := mustCreateUser(t, repo, "alice")
	bob := mustCreateUser(t, repo, "bob")
	today := dal.Day(time.Now())

	words := []dal.Word{
		{UserID: alice.ID, Text: "a", Interval: 1, NextReview: today},
		{UserID: alice.ID, Text: "b", Interval: 3, NextReview: today.AddDate(0, 0, -2)},
		{UserID: alice.ID, Text: "c", Interval: 16, NextReview: today.AddDate(0, 0, 5)},
		{UserID: alice.ID, Text: "d", Interval: 11, NextReview: today.AddDate(0, 0, 1)},
		{UserID: bob.ID, Text: "e", Interval: 1, NextReview: today},
	}
	for _, w := range words {
		_, err := repo.AddWord(ctx, w)
		require.NoError(t, err)
	}

	due, err := repo.FindDueWords(ctx, alice.ID, today)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "b", due[0].Text)
	assert.Equal(t, "a", due[1].Text)

	stats, err := repo.GetWordStats(ctx, alice.ID, today, 10)
	require.NoError(t, err)
	assert.Equal(t, dal.WordStats{Total: 4, Due: 2, Mastered: 2}, *stats)

	all, err := repo.FindWords(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	empty := mustCreateUser(t, repo, "carol")
	stats, err = repo.GetWordStats(ctx, empty.ID, today, 10)
	require.NoError(t, err)
	assert.Equal(t, dal.WordStats{}, *stats)
}

func TestTransact_Rollback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	err := repo.Transact(ctx, func(r dal.Repository) error {
		if _, err := r.CreateUser(ctx, "alice", "hash"); err != nil {
			return err
		}
		return dal.ErrNotFound
	})
	require.ErrorIs(t, err, dal.ErrNotFound)
	assert.Zero(t, countUsers(t, repo))
}
