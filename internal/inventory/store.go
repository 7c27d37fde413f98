package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

func (s *Store) Add(ctx context.Context, name string, quantity int) (Item, error) {
	const q = `INSERT INTO inventory (name, quantity) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, q, name, quantity)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return Item{}, apierr.ErrDuplicate(fmt.Sprintf("equipment %q already exists", name))
		}
		return Item{}, fmt.Errorf("insert inventory: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, fmt.Errorf("insert inventory: %w", err)
	}
	return Item{ID: id, Name: name, Quantity: quantity}, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Item, error) {
	const q = `SELECT id, name, quantity FROM inventory WHERE id = ?`
	var it Item
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, apierr.ErrNotFound("equipment not found")
		}
		return Item{}, fmt.Errorf("select inventory: %w", err)
	}
	return it, nil
}

// Lookup: name は完全一致（大文字小文字を区別）
func (s *Store) Lookup(ctx context.Context, name string) (quantity int, ok bool, err error) {
	const q = `SELECT quantity FROM inventory WHERE name = ?`
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup inventory: %w", err)
	}
	return quantity, true, nil
}

// SetQuantity は無条件に上書きする。貸出中の数との整合は見ない。
func (s *Store) SetQuantity(ctx context.Context, id int64, quantity int) (Item, error) {
	const q = `UPDATE inventory SET quantity = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, quantity, id); err != nil {
		return Item{}, fmt.Errorf("update inventory: %w", err)
	}
	// mysql は値が変わらないと RowsAffected=0 を返すので、存在確認は取り直しで行う
	return s.Get(ctx, id)
}

// Remove は equipment_log には触れない（履歴は残る）
func (s *Store) Remove(ctx context.Context, id int64) error {
	const q = `DELETE FROM inventory WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return apierr.ErrNotFound("equipment not found")
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]Item, error) {
	const q = `SELECT id, name, quantity FROM inventory ORDER BY name ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}
