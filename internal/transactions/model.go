package transactions

import (
	"fmt"
	"strings"

	"LabCV-backend/internal/ledger"
	"LabCV-backend/internal/platform/apierr"
)

type Item struct {
	EquipmentName string `json:"equipment_name"`
	Quantity      int    `json:"quantity"`
}

// Request: Items に加えて、Equipment にカンマ区切りの名前を渡すと各1個として扱う
type Request struct {
	StudentID string `json:"student_id" form:"student_id"`
	Action    string `json:"action" form:"action"`
	Items     []Item `json:"items" form:"-"`
	Equipment string `json:"equipment,omitempty" form:"equipment"`
}

func (r Request) allItems() []Item {
	items := append([]Item(nil), r.Items...)
	if strings.TrimSpace(r.Equipment) == "" {
		return items
	}
	for _, name := range strings.Split(r.Equipment, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		items = append(items, Item{EquipmentName: name, Quantity: 1})
	}
	return items
}

// ItemResult は1明細の結果。OK=false のとき Code と Message に理由が入る。
type ItemResult struct {
	EquipmentName string      `json:"equipment_name"`
	Quantity      int         `json:"quantity"`
	OK            bool        `json:"ok"`
	Code          apierr.Code `json:"code,omitempty"`
	Message       string      `json:"message"`
}

type Result struct {
	StudentID      string       `json:"student_id"`
	Action         string       `json:"action"`
	Items          []ItemResult `json:"items"`
	Succeeded      int          `json:"succeeded"`
	Failed         int          `json:"failed"`
	EquipmentCount int          `json:"equipment_count"`
	Summary        string       `json:"summary"`
}

func succeeded(it Item, action ledger.Action) ItemResult {
	verb := "Borrowed"
	if action == ledger.ActionReturn {
		verb = "Returned"
	}
	return ItemResult{
		EquipmentName: it.EquipmentName,
		Quantity:      it.Quantity,
		OK:            true,
		Message:       fmt.Sprintf("%s %d x %s", verb, it.Quantity, it.EquipmentName),
	}
}

func failed(it Item, err error) ItemResult {
	return ItemResult{
		EquipmentName: it.EquipmentName,
		Quantity:      it.Quantity,
		Code:          apierr.CodeOf(err),
		Message:       apierr.FromErr(err).Error.Message,
	}
}

func summarize(action ledger.Action, ok, total int) string {
	word := "Borrow"
	if action == ledger.ActionReturn {
		word = "Return"
	}
	switch {
	case ok == total:
		return fmt.Sprintf("%s logged successfully (%d of %d items)", word, ok, total)
	case ok == 0:
		return fmt.Sprintf("%s failed for all %d items", word, total)
	default:
		return fmt.Sprintf("%s partially logged (%d of %d items)", word, ok, total)
	}
}
