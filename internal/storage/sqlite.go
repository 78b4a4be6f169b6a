// Package storage persists the sales ledger and the staff accounts in
// SQLite. Rows are normalized on the way out so legacy data with missing
// payment methods or quantities never reaches the aggregation layer.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Adnan1921/radnja-tracker/internal/access"
	"github.com/Adnan1921/radnja-tracker/internal/auth"
	"github.com/Adnan1921/radnja-tracker/internal/core"
	"github.com/Adnan1921/radnja-tracker/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and runs
// the schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const saleColumns = `id, item_id, item_name, item_icon, unit_price_cents, quantity,
	total_cents, payment_method, sale_date, sale_time, recorded_by, is_lump_total, created_at`

func (s *SQLiteStore) Insert(ctx context.Context, sale core.Sale) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.ItemID, sale.ItemName, sale.ItemIcon,
		sale.UnitPrice.Cents, sale.Quantity, sale.Total.Cents,
		string(sale.PaymentMethod), sale.Date, sale.Time,
		sale.RecordedBy, sale.IsLumpTotal, sale.CreatedAt)
	if err != nil {
		return core.WrapStorage("insert sale", err)
	}
	return nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (core.Sale, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Sale{}, core.ErrSaleNotFound
	}
	if err != nil {
		return core.Sale{}, core.WrapStorage("get sale", err)
	}
	return sale, nil
}

func (s *SQLiteStore) FindByDate(ctx context.Context, date, owner string) ([]core.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_date = ?`
	args := []any{date}
	if owner != "" {
		query += ` AND recorded_by = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, ledger.FindByDateCap)

	return s.querySales(ctx, "find sales by date", query, args...)
}

func (s *SQLiteStore) FindByMonth(ctx context.Context, year, month int, owner string) ([]core.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_date LIKE ?`
	args := []any{fmt.Sprintf("%04d-%02d-%%", year, month)}
	if owner != "" {
		query += ` AND recorded_by = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY sale_date, created_at`

	return s.querySales(ctx, "find sales by month", query, args...)
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id, owner string) (bool, error) {
	query := `DELETE FROM sales WHERE id = ?`
	args := []any{id}
	if owner != "" {
		query += ` AND recorded_by = ?`
		args = append(args, owner)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, core.WrapStorage("delete sale", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, core.WrapStorage("delete sale", err)
	}
	return affected > 0, nil
}

// GetPendingBackup returns up to limit sales that have not been written to
// the backup journal yet, oldest first.
func (s *SQLiteStore) GetPendingBackup(ctx context.Context, limit int) ([]core.Sale, error) {
	return s.querySales(ctx, "get pending backup", `
		SELECT `+saleColumns+` FROM sales
		WHERE backed_up = 0
		ORDER BY created_at
		LIMIT ?`, limit)
}

// MarkBackedUp flags a sale as written to the backup journal.
func (s *SQLiteStore) MarkBackedUp(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sales SET backed_up = 1, backup_error = '' WHERE id = ?`, id)
	if err != nil {
		return core.WrapStorage("mark backed up", err)
	}
	return nil
}

// MarkBackupError records the last backup failure for a sale so the pending
// scan can retry it later.
func (s *SQLiteStore) MarkBackupError(ctx context.Context, id, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sales SET backup_error = ? WHERE id = ?`, message, id)
	if err != nil {
		return core.WrapStorage("mark backup error", err)
	}
	return nil
}

func (s *SQLiteStore) querySales(ctx context.Context, op, query string, args ...any) ([]core.Sale, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.WrapStorage(op, err)
	}
	defer rows.Close()

	var sales []core.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, core.WrapStorage(op, err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapStorage(op, err)
	}
	return sales, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (core.Sale, error) {
	var (
		sale   core.Sale
		method string
	)
	err := row.Scan(&sale.ID, &sale.ItemID, &sale.ItemName, &sale.ItemIcon,
		&sale.UnitPrice.Cents, &sale.Quantity, &sale.Total.Cents,
		&method, &sale.Date, &sale.Time, &sale.RecordedBy,
		&sale.IsLumpTotal, &sale.CreatedAt)
	if err != nil {
		return core.Sale{}, err
	}
	sale.PaymentMethod = core.PaymentMethod(method)
	return sale.Normalize(), nil
}

// GetUser implements auth.UserStore.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (auth.User, error) {
	var (
		user auth.User
		role string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, role FROM users WHERE username = ?`, username).
		Scan(&user.Username, &user.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, fmt.Errorf("user %s: %w", username, err)
	}
	if err != nil {
		return auth.User{}, core.WrapStorage("get user", err)
	}
	user.Role = access.Role(role)
	return user, nil
}

// CreateUser implements auth.UserStore. Existing usernames are left alone.
func (s *SQLiteStore) CreateUser(ctx context.Context, u auth.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO users (username, password_hash, role)
		VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, string(u.Role))
	if err != nil {
		return core.WrapStorage("create user", err)
	}
	return nil
}
