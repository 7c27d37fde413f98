package students

import "database/sql"

// Student は students テーブルの1行。
// EquipmentCount は貸出・返却のたびに増減させる派生値で、0 未満にはならない。
type Student struct {
	StudentID      string
	Name           string
	Course         sql.NullString
	YearLevel      sql.NullInt64
	EquipmentCount int
}

func (s Student) toDTO() StudentResponse {
	resp := StudentResponse{
		StudentID:      s.StudentID,
		Name:           s.Name,
		EquipmentCount: s.EquipmentCount,
	}
	if s.Course.Valid {
		v := s.Course.String
		resp.Course = &v
	}
	if s.YearLevel.Valid {
		v := int(s.YearLevel.Int64)
		resp.YearLevel = &v
	}
	return resp
}
