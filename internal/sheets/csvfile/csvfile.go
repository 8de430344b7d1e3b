// Package csvfile persists the expense sequence as a headerless CSV file
// with one row per expense: category, amount, date.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/sheets"
)

var (
	_ sheets.Persister = (*File)(nil)
	_ sheets.Locator   = (*File)(nil)
)

// File is a CSV backed persister. It holds no open handle between calls.
type File struct {
	path   string
	logger *log.Logger
}

func New(path string, logger *log.Logger) *File {
	if logger == nil {
		logger = log.Discard()
	}
	return &File{path: path, logger: logger.WithComponent(log.ComponentStorage)}
}

func (f *File) Location() string { return f.path }

// Load reads every row. A missing file is an empty sequence. Rows are read
// best effort: short rows are padded, extra columns dropped, and an amount
// that does not parse is kept as zero with a warning.
func (f *File) Load(ctx context.Context) ([]core.Expense, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.DebugContext(ctx, "Expenses file not found, starting empty", "file", f.path)
			return []core.Expense{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	expenses, err := Decode(file, func(line int, raw string, convErr error) {
		f.logger.WarnContext(ctx, "Malformed amount in expenses file",
			"file", f.path, "line", line, "amount", raw, log.FieldError, convErr)
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return expenses, nil
}

// Save truncates the file and writes the whole sequence. There is no
// atomic rename: a crash mid-write can leave a partial file.
func (f *File) Save(ctx context.Context, expenses []core.Expense) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}
	if err := Encode(file, expenses); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	f.logger.DebugContext(ctx, "Expenses file written", "file", f.path, log.FieldCount, len(expenses))
	return nil
}

// Encode writes expenses as CSV rows.
func Encode(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	for _, e := range expenses {
		if err := cw.Write([]string{e.Category, e.Amount.String(), e.Date}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads CSV rows into expenses. onBadAmount, if non-nil, is told
// about amounts that were replaced by zero.
func Decode(r io.Reader, onBadAmount func(line int, raw string, err error)) ([]core.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	expenses := []core.Expense{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		fields := [3]string{}
		copy(fields[:], rec)

		amount, convErr := core.ParseAmount(fields[1])
		if convErr != nil {
			amount = decimal.Zero
			if onBadAmount != nil {
				onBadAmount(line, fields[1], convErr)
			}
		}
		expenses = append(expenses, core.Expense{
			Category: fields[0],
			Amount:   amount,
			Date:     fields[2],
		})
	}
	return expenses, nil
}
