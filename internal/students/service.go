package students

import (
	"context"
	"database/sql"
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

// Register は冪等。既存IDの場合は保存済みの内容をそのまま返す（更新はしない）。
func (s *Service) Register(ctx context.Context, in RegisterStudentRequest) (RegisterResponse, error) {
	id := strings.TrimSpace(in.StudentID)
	if id == "" {
		return RegisterResponse{}, apierr.ErrInvalid("student id required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return RegisterResponse{}, apierr.ErrInvalid("name required")
	}
	st := Student{StudentID: id, Name: name}
	if in.Course != nil && strings.TrimSpace(*in.Course) != "" {
		st.Course = sql.NullString{String: strings.TrimSpace(*in.Course), Valid: true}
	}
	if in.YearLevel != nil {
		if *in.YearLevel < 0 {
			return RegisterResponse{}, apierr.ErrInvalid("year_level must be >= 0")
		}
		st.YearLevel = sql.NullInt64{Int64: int64(*in.YearLevel), Valid: true}
	}

	created, err := s.store.Register(ctx, st)
	if err != nil {
		return RegisterResponse{}, err
	}
	if created {
		s.logger.Info("student registered", zap.String("student_id", id))
	} else {
		s.logger.Debug("student already registered", zap.String("student_id", id))
	}

	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{Student: stored.toDTO(), Created: created}, nil
}

func (s *Service) GetStudent(ctx context.Context, id string) (StudentResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return StudentResponse{}, apierr.ErrInvalid("student id required")
	}
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return StudentResponse{}, err
	}
	return st.toDTO(), nil
}

func (s *Service) ListStudents(ctx context.Context) ([]StudentResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StudentResponse, 0, len(list))
	for _, st := range list {
		out = append(out, st.toDTO())
	}
	return out, nil
}
