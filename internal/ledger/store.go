package ledger

import (
	"context"
	"fmt"
	"math"

	"LabCV-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

const selectEntry = `SELECT id, student_id, equipment_name, action, timestamp FROM equipment_log`

// Append: timestamp は DB の CURRENT_TIMESTAMP（秒精度）。同一秒の並びは id で決まる。
func (s *Store) Append(ctx context.Context, studentID, equipmentName string, action Action) (Entry, error) {
	const q = `INSERT INTO equipment_log (student_id, equipment_name, action) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, studentID, equipmentName, string(action))
	if err != nil {
		return Entry{}, fmt.Errorf("insert equipment_log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("insert equipment_log: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, selectEntry+` WHERE id = ?`, id)
	if err != nil {
		return Entry{}, fmt.Errorf("select equipment_log: %w", err)
	}
	list, err := scanEntries(rows)
	if err != nil {
		return Entry{}, err
	}
	if len(list) != 1 {
		return Entry{}, fmt.Errorf("select equipment_log: id %d not found after insert", id)
	}
	return list[0], nil
}

// QueryByStudent: 新しい順。未登録の学生なら空。
func (s *Store) QueryByStudent(ctx context.Context, studentID string, p Page) ([]Entry, error) {
	q, args := withPage(selectEntry+` WHERE student_id = ? ORDER BY timestamp DESC, id DESC`, p, studentID)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query equipment_log: %w", err)
	}
	return scanEntries(rows)
}

func (s *Store) QueryAll(ctx context.Context, p Page) ([]Entry, error) {
	q, args := withPage(selectEntry+` ORDER BY timestamp DESC, id DESC`, p)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query equipment_log: %w", err)
	}
	return scanEntries(rows)
}

func (s *Store) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment_log WHERE student_id = ?`, studentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count equipment_log: %w", err)
	}
	return n, nil
}

func (s *Store) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count equipment_log: %w", err)
	}
	return n, nil
}

// sqlite / mysql とも OFFSET 単独は書けないので、上限なしは最大値で代用する
func withPage(q string, p Page, args ...any) (string, []any) {
	if p.Limit <= 0 && p.Offset <= 0 {
		return q, args
	}
	limit := int64(p.Limit)
	if limit <= 0 {
		limit = math.MaxInt64
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return q + ` LIMIT ? OFFSET ?`, append(args, limit, offset)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

func scanEntries(rows rowScanner) ([]Entry, error) {
	defer rows.Close()
	list := []Entry{}
	for rows.Next() {
		var (
			e      Entry
			action string
			ts     string
		)
		if err := rows.Scan(&e.ID, &e.StudentID, &e.EquipmentName, &action, &ts); err != nil {
			return nil, fmt.Errorf("scan equipment_log: %w", err)
		}
		t, err := db.ParseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("scan equipment_log: %w", err)
		}
		e.Action = Action(action)
		e.Timestamp = t
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query equipment_log: %w", err)
	}
	return list, nil
}
