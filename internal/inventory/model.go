package inventory

// Item は inventory テーブルの1行。quantity は物理的な在庫数で、貸出中の数とは無関係。
type Item struct {
	ID       int64
	Name     string
	Quantity int
}

func (it Item) toDTO() ItemResponse {
	return ItemResponse{ID: it.ID, Name: it.Name, Quantity: it.Quantity}
}
