package ledger

import (
	"context"
	"database/sql"
	"io"
	"strings"

	"go.uber.org/zap"

	"LabCV-backend/internal/platform/apierr"
)

type Service struct {
	store  *Store
	logger *zap.Logger
}

func NewService(conn *sql.DB, logger *zap.Logger) *Service {
	return &Service{store: NewStore(conn), logger: logger}
}

func (s *Service) StudentHistory(ctx context.Context, studentID string, p Page) (HistoryResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return HistoryResponse{}, apierr.ErrInvalid("student id required")
	}
	list, err := s.store.QueryByStudent(ctx, studentID, p)
	if err != nil {
		return HistoryResponse{}, err
	}
	total, err := s.store.CountByStudent(ctx, studentID)
	if err != nil {
		return HistoryResponse{}, err
	}
	return toHistory(list, total, p), nil
}

func (s *Service) FullHistory(ctx context.Context, p Page) (HistoryResponse, error) {
	list, err := s.store.QueryAll(ctx, p)
	if err != nil {
		return HistoryResponse{}, err
	}
	total, err := s.store.CountAll(ctx)
	if err != nil {
		return HistoryResponse{}, err
	}
	return toHistory(list, total, p), nil
}

// ExportCSV は全履歴を新しい順に CSV で書き出す。encoding は utf-8 (BOM付) か shift_jis。
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, encodingName string) error {
	enc, err := csvEncoder(encodingName)
	if err != nil {
		return err
	}
	list, err := s.store.QueryAll(ctx, Page{})
	if err != nil {
		return err
	}
	if err := writeCSV(w, list, enc); err != nil {
		s.logger.Error("history csv export failed", zap.Error(err))
		return err
	}
	s.logger.Info("history exported", zap.Int("rows", len(list)), zap.String("encoding", encodingName))
	return nil
}

func toHistory(list []Entry, total int64, p Page) HistoryResponse {
	items := make([]EntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, e.toDTO())
	}
	return HistoryResponse{Items: items, Total: total, NextOffset: nextOffset(total, p)}
}

func nextOffset(total int64, p Page) int {
	if p.Limit <= 0 {
		return 0
	}
	n := p.Offset + p.Limit
	if n >= int(total) {
		return 0
	}
	return n
}
