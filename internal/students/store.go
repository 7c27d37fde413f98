package students

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

const selectStudent = `SELECT student_id, name, course, year_level, number_of_equipment FROM students`

// Register: INSERT OR IGNORE 相当。既存IDなら何も変更せず created=false。
// 主キー違反を握りつぶす形にしているのは mysql / sqlite で同じSQLを使うため。
func (s *Store) Register(ctx context.Context, st Student) (created bool, err error) {
	const q = `
	INSERT INTO students (student_id, name, course, year_level, number_of_equipment)
	VALUES (?, ?, ?, ?, 0)`
	if _, err := s.db.ExecContext(ctx, q, st.StudentID, st.Name, st.Course, st.YearLevel); err != nil {
		if db.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert student: %w", err)
	}
	return true, nil
}

func (s *Store) Get(ctx context.Context, id string) (Student, error) {
	var st Student
	err := s.db.QueryRowContext(ctx, selectStudent+` WHERE student_id = ?`, id).Scan(
		&st.StudentID, &st.Name, &st.Course, &st.YearLevel, &st.EquipmentCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, apierr.ErrNotFound("student not found")
		}
		return Student{}, fmt.Errorf("select student: %w", err)
	}
	return st, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE student_id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("student exists: %w", err)
	}
	return true, nil
}

func (s *Store) GetEquipmentCount(ctx context.Context, id string) (n int, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT number_of_equipment FROM students WHERE student_id = ?`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select equipment count: %w", err)
	}
	return n, true, nil
}

// AdjustEquipmentCount: new = max(0, current + delta) を1文の UPDATE で行う。
// 読み取りと書き込みがDB側で原子的になるので、同一学生への同時更新でも取りこぼさない。
func (s *Store) AdjustEquipmentCount(ctx context.Context, id string, delta int) (int, error) {
	const q = `
	UPDATE students
	SET number_of_equipment = CASE
		WHEN number_of_equipment + ? < 0 THEN 0
		ELSE number_of_equipment + ?
	END
	WHERE student_id = ?`
	if _, err := s.db.ExecContext(ctx, q, delta, delta, id); err != nil {
		return 0, fmt.Errorf("adjust equipment count: %w", err)
	}
	n, ok, err := s.GetEquipmentCount(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apierr.ErrNotFound("student not found")
	}
	return n, nil
}

func (s *Store) List(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, selectStudent+` ORDER BY student_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	list := []Student{}
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.StudentID, &st.Name, &st.Course, &st.YearLevel, &st.EquipmentCount); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		list = append(list, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return list, nil
}
