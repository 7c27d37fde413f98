package ledger

import "time"

type EntryResponse struct {
	ID            int64     `json:"id"`
	StudentID     string    `json:"student_id"`
	EquipmentName string    `json:"equipment_name"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Items      []EntryResponse `json:"items"`
	Total      int64           `json:"total"`
	NextOffset int             `json:"next_offset"`
}
