package transactions

import (
	"context"
	"database/sql"

	"LabCV-backend/internal/inventory"
	"LabCV-backend/internal/ledger"
	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/db"
	"LabCV-backend/internal/students"
)

// Repository はハンドラが必要とする永続化操作だけを切り出したもの
type Repository interface {
	StudentExists(ctx context.Context, studentID string) (bool, error)
	EquipmentExists(ctx context.Context, name string) (bool, error)
	EquipmentCount(ctx context.Context, studentID string) (int, error)
	// ApplyItem は履歴の追記と貸出数の増減をまとめて確定し、更新後の貸出数を返す
	ApplyItem(ctx context.Context, studentID, equipmentName string, action ledger.Action, delta int) (int, error)
}

type sqlRepository struct {
	db *sql.DB
}

func NewSQLRepository(conn *sql.DB) Repository {
	return &sqlRepository{db: conn}
}

func (r *sqlRepository) StudentExists(ctx context.Context, studentID string) (bool, error) {
	return students.NewStore(r.db).Exists(ctx, studentID)
}

func (r *sqlRepository) EquipmentExists(ctx context.Context, name string) (bool, error) {
	_, ok, err := inventory.NewStore(r.db).Lookup(ctx, name)
	return ok, err
}

func (r *sqlRepository) EquipmentCount(ctx context.Context, studentID string) (int, error) {
	n, ok, err := students.NewStore(r.db).GetEquipmentCount(ctx, studentID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apierr.ErrNotFound("student")
	}
	return n, nil
}

// 明細ごとに独立したトランザクション。バッチ全体はまとめない。
func (r *sqlRepository) ApplyItem(ctx context.Context, studentID, equipmentName string, action ledger.Action, delta int) (int, error) {
	var count int
	err := db.RunInTx(ctx, r.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := ledger.NewStore(tx).Append(ctx, studentID, equipmentName, action); err != nil {
			return err
		}
		n, err := students.NewStore(tx).AdjustEquipmentCount(ctx, studentID, delta)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
