package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
	dalsql "github.com/Roma7-7-7/vocab-trainer/internal/dal/sql"
	"github.com/Roma7-7-7/vocab-trainer/internal/data"
)

const (
	exitCodeOK int = iota
	exitCodeInvalidArgs
	exitCodeDBConnect
	exitCodeUserNotFound
	exitCodeImport
)

var (
	source   string
	dbURL    string
	username string
)

func main() {
	flag.StringVar(&source, "source", "", "source file (.txt with word:translation[:definition] lines or .xlsx)")
	flag.StringVar(&dbURL, "db-url", "vocab.db", "database file")
	flag.StringVar(&username, "username", "", "owner of the imported words")
	flag.Parse()

	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := validate(); err != nil {
		log.ErrorContext(ctx, "invalid arguments", "error", err)
		flag.Usage()
		return exitCodeInvalidArgs
	}

	db, err := dalsql.Open(ctx, dbURL)
	if err != nil {
		log.ErrorContext(ctx, "failed to open database", "error", err)
		return exitCodeDBConnect
	}
	defer db.Close()
	if err = dalsql.Migrate(ctx, db.DB, log); err != nil {
		log.ErrorContext(ctx, "failed to migrate database", "error", err)
		return exitCodeDBConnect
	}
	repo := dalsql.NewRepository(db, log)

	user, err := repo.FindUserByUsername(ctx, username)
	if err != nil {
		log.ErrorContext(ctx, "failed to find user", "username", username, "error", err)
		return exitCodeUserNotFound
	}

	f, err := os.Open(source)
	if err != nil {
		log.ErrorContext(ctx, "failed to open source", "error", err)
		return exitCodeImport
	}
	defer f.Close()

	imported, err := importWords(ctx, repo, user.ID, f)
	var parsingErr *data.ParsingError
	if errors.As(err, &parsingErr) {
		log.WarnContext(ctx, "skipped invalid lines", "lines", parsingErr.InvalidLines)
	} else if err != nil {
		log.ErrorContext(ctx, "failed to import words", "error", err)
		return exitCodeImport
	}

	log.InfoContext(ctx, "done", "imported", imported, "username", username)
	return exitCodeOK
}

// importWords stores all valid lines in one transaction. Invalid lines are
// reported as *data.ParsingError and do not roll the import back.
func importWords(ctx context.Context, repo dal.Repository, userID int64, in io.Reader) (int, error) {
	parse := data.Parse
	if strings.EqualFold(filepath.Ext(source), ".xlsx") {
		parse = data.ParseXLSX
	}

	var (
		imported int
		parseErr error
	)
	err := repo.Transact(ctx, func(r dal.Repository) error {
		lines := make(chan data.Line)
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			parseErr = parse(egCtx, in, lines)
			var parsingErr *data.ParsingError
			if errors.As(parseErr, &parsingErr) {
				return nil
			}
			return parseErr
		})
		eg.Go(func() error {
			var err error
			imported, err = data.Import(egCtx, r, userID, dal.Day(time.Now()), lines)
			return err
		})
		return eg.Wait()
	})
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return imported, parseErr
}

func validate() error {
	if source == "" {
		return errors.New("source file is required")
	}
	if dbURL == "" {
		return errors.New("database URL is required")
	}
	if username == "" {
		return errors.New("username is required")
	}
	return nil
}
