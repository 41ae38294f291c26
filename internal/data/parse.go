package data

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

type (
	Line struct {
		Word        string
		Translation string
		Definition  string
		Category    string
	}

	ParsingError struct {
		InvalidLines []int
	}
)

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing error: invalidLines=%v", e.InvalidLines)
}

// Parse reads "word:translation[:definition]" lines and sends them to out.
// out is closed when Parse returns.
func Parse(ctx context.Context, in io.Reader, out chan<- Line) error {
	defer close(out)

	scanner := bufio.NewScanner(in)
	invalidLines := make([]int, 0, 10) //nolint:mnd // 10 is the expected capacity
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) < 2 || len(parts) > 3 {
			invalidLines = append(invalidLines, lineNum)
			continue
		}

		l := Line{
			Word:        normalizeWord(parts[0]),
			Translation: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 { //nolint:mnd // 3 is the expected length
			l.Definition = strings.TrimSpace(parts[2])
		}
		if l.Word == "" || l.Translation == "" {
			invalidLines = append(invalidLines, lineNum)
			continue
		}

		if !send(ctx, out, l) {
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan file: %w", err)
	}
	if len(invalidLines) > 0 {
		return &ParsingError{InvalidLines: invalidLines}
	}

	return nil
}

// ParseXLSX reads the first sheet of a workbook. Columns are word,
// translation, definition and category; a leading "word" header row is skipped.
func ParseXLSX(ctx context.Context, in io.Reader, out chan<- Line) error {
	defer close(out)

	f, err := excelize.OpenReader(in)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	invalidLines := make([]int, 0, 10) //nolint:mnd // 10 is the expected capacity
	for i, row := range rows {
		lineNum := i + 1
		if isBlank(row) {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "word") {
			continue
		}

		l := Line{
			Word:        normalizeWord(cell(row, 0)),
			Translation: cell(row, 1),
			Definition:  cell(row, 2),
			Category:    cell(row, 3), //nolint:mnd // fourth column
		}
		if l.Word == "" || l.Translation == "" {
			invalidLines = append(invalidLines, lineNum)
			continue
		}

		if !send(ctx, out, l) {
			return ctx.Err()
		}
	}

	if len(invalidLines) > 0 {
		return &ParsingError{InvalidLines: invalidLines}
	}
	return nil
}

func send(ctx context.Context, out chan<- Line, l Line) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- l:
		return true
	}
}

func normalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
