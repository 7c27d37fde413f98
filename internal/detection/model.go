// Package detection turns an uploaded image into the set of catalog equipment
// names an external object detector recognised in it.
package detection

import "context"

// Detection は検出器が返す生ラベル1件
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Detector interface {
	Detect(ctx context.Context, image []byte, contentType string) ([]Detection, error)
}

// Catalog は在庫に存在する名前だけを残すために使う（inventory.Store が満たす）
type Catalog interface {
	Lookup(ctx context.Context, name string) (qty int, ok bool, err error)
}

type RecognizeResponse struct {
	EquipmentNames []string `json:"equipment_names"`
}
