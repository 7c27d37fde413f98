package transactions

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"LabCV-backend/internal/ledger"
	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/metrics"
)

// Recognizer は画像から在庫名の集合を得る（detection.Adapter が満たす）
type Recognizer interface {
	Enabled() bool
	Recognize(ctx context.Context, image []byte, contentType string) ([]string, error)
}

type Service struct {
	repo       Repository
	recognizer Recognizer
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewService(repo Repository, rec Recognizer, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{repo: repo, recognizer: rec, metrics: m, logger: logger}
}

// Submit は貸出・返却を明細ごとに処理する。
// 学生ID・学生の存在・action・明細の有無はリクエスト全体のエラー。
// 明細単位の失敗は Result.Items に記録し、他の明細の処理は続ける（成功済みは戻さない）。
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	studentID, err := s.checkStudent(ctx, req.StudentID)
	if err != nil {
		return Result{}, err
	}
	action, err := ledger.ParseAction(req.Action)
	if err != nil {
		return Result{}, err
	}
	items := req.allItems()
	if len(items) == 0 {
		return Result{}, apierr.ErrInvalid("at least one item required")
	}

	res := Result{
		StudentID: studentID,
		Action:    string(action),
		Items:     make([]ItemResult, 0, len(items)),
	}
	count, countKnown := 0, false
	for _, it := range items {
		it.EquipmentName = strings.TrimSpace(it.EquipmentName)
		n, err := s.applyItem(ctx, studentID, action, it)
		if err != nil {
			res.Items = append(res.Items, failed(it, err))
			res.Failed++
			s.observe(action, string(apierr.CodeOf(err)), it.Quantity)
			if apierr.CodeOf(err) == apierr.CodeInternal {
				s.logger.Error("transaction item failed",
					zap.String("student_id", studentID),
					zap.String("equipment", it.EquipmentName),
					zap.Error(err),
				)
			}
			continue
		}
		count, countKnown = n, true
		res.Items = append(res.Items, succeeded(it, action))
		res.Succeeded++
		s.observe(action, "ok", it.Quantity)
	}

	if !countKnown {
		if count, err = s.repo.EquipmentCount(ctx, studentID); err != nil {
			return Result{}, err
		}
	}
	res.EquipmentCount = count
	res.Summary = summarize(action, res.Succeeded, len(items))

	s.logger.Info("transaction submitted",
		zap.String("student_id", studentID),
		zap.String("action", string(action)),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
		zap.Int("equipment_count", res.EquipmentCount),
	)
	return res, nil
}

// SubmitDetected は画像認識で得た在庫名をそれぞれ数量1で Submit する
func (s *Service) SubmitDetected(ctx context.Context, studentID, action string, image []byte, contentType string) (Result, error) {
	if s.recognizer == nil || !s.recognizer.Enabled() {
		return Result{}, apierr.ErrUnavailable("detection is not configured")
	}
	// 検出器は遅いので、先に学生と action を確認しておく
	if _, err := s.checkStudent(ctx, studentID); err != nil {
		return Result{}, err
	}
	if _, err := ledger.ParseAction(action); err != nil {
		return Result{}, err
	}
	names, err := s.recognizer.Recognize(ctx, image, contentType)
	if err != nil {
		return Result{}, err
	}
	items := make([]Item, 0, len(names))
	for _, n := range names {
		items = append(items, Item{EquipmentName: n, Quantity: 1})
	}
	if len(items) == 0 {
		return Result{}, apierr.ErrInvalid("no known equipment recognised in image")
	}
	return s.Submit(ctx, Request{StudentID: studentID, Action: action, Items: items})
}

func (s *Service) checkStudent(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apierr.ErrInvalid("student id required")
	}
	ok, err := s.repo.StudentExists(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apierr.ErrNotFound("student")
	}
	return id, nil
}

func (s *Service) applyItem(ctx context.Context, studentID string, action ledger.Action, it Item) (int, error) {
	if it.Quantity <= 0 {
		return 0, apierr.ErrInvalid("quantity must be at least 1")
	}
	if it.EquipmentName == "" {
		return 0, apierr.ErrInvalid("equipment name required")
	}
	ok, err := s.repo.EquipmentExists(ctx, it.EquipmentName)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apierr.ErrNotFound("equipment")
	}
	return s.repo.ApplyItem(ctx, studentID, it.EquipmentName, action, action.Sign()*it.Quantity)
}

func (s *Service) observe(action ledger.Action, outcome string, qty int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveItem(string(action), outcome, qty)
}
