package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/sheets"

	_ "modernc.org/sqlite"
)

var (
	_ sheets.Persister       = (*SQLiteRepository)(nil)
	_ sheets.ExpenseAppender = (*SQLiteRepository)(nil)
	_ sheets.Locator         = (*SQLiteRepository)(nil)
)

// SQLiteRepository keeps the expense sequence in one table, ordered by
// position. Amounts are stored as text to keep exact decimals.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		path:   dbPath,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Location() string { return "sqlite:" + r.path }

// Load implements sheets.Persister
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, amount, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var category, amount, date string
		if err := rows.Scan(&category, &amount, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			r.logger.WarnContext(ctx, "Malformed amount in database", "amount", amount, log.FieldError, err)
			amt = decimal.Zero
		}
		expenses = append(expenses, core.Expense{Category: category, Amount: amt, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Save implements sheets.Persister. The table is rewritten inside one
// transaction.
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO expenses (position, category, amount, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range expenses {
		if _, err := stmt.ExecContext(ctx, i+1, e.Category, e.Amount.String(), e.Date); err != nil {
			return fmt.Errorf("insert expense %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.DebugContext(ctx, "Expenses saved to SQLite", log.FieldCount, len(expenses))
	return nil
}

// Append implements sheets.ExpenseAppender
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (position, category, amount, date)
		 VALUES ((SELECT COALESCE(MAX(position), 0) + 1 FROM expenses), ?, ?, ?)`,
		e.Category, e.Amount.String(), e.Date)
	if err != nil {
		return "", fmt.Errorf("append expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	r.logger.InfoContext(ctx, "Expense appended to SQLite",
		"position", id,
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount.String(),
		log.FieldDate, e.Date)

	return fmt.Sprintf("sqlite:%d", id), nil
}
