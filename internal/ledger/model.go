package ledger

import (
	"strings"
	"time"

	"LabCV-backend/internal/platform/apierr"
)

type Action string

const (
	ActionBorrow Action = "borrow"
	ActionReturn Action = "return"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionBorrow:
		return ActionBorrow, nil
	case ActionReturn:
		return ActionReturn, nil
	}
	return "", apierr.ErrInvalid("action must be borrow or return")
}

// Sign: borrow は +1、return は -1
func (a Action) Sign() int {
	if a == ActionReturn {
		return -1
	}
	return 1
}

// Entry は equipment_log の1行。追記のみで更新・削除はしない。
type Entry struct {
	ID            int64
	StudentID     string
	EquipmentName string
	Action        Action
	Timestamp     time.Time
}

// Page: Limit <= 0 は上限なし
type Page struct {
	Limit  int
	Offset int
}

func (e Entry) toDTO() EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		StudentID:     e.StudentID,
		EquipmentName: e.EquipmentName,
		Action:        string(e.Action),
		Timestamp:     e.Timestamp,
	}
}
