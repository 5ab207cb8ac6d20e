package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppealInput struct {
	ResultID   string `json:"resultId" binding:"required"`
	AppealText string `json:"appealText" binding:"required"`
}

type ResolveAppealInput struct {
	Status   model.AppealStatus `json:"status" binding:"required"`
	Response string             `json:"response"`
}

type AppealService struct {
	AppealRepo *repository.AppealRepository
	ResultRepo *repository.ResultRepository
	ExamRepo   *repository.ExamRepository
}

func NewAppealService(
	appealRepo *repository.AppealRepository,
	resultRepo *repository.ResultRepository,
	examRepo *repository.ExamRepository,
) *AppealService {
	return &AppealService{
		AppealRepo: appealRepo,
		ResultRepo: resultRepo,
		ExamRepo:   examRepo,
	}
}

// Create files an appeal against the student's own result.
func (s *AppealService) Create(ctx context.Context, studentID string, in *AppealInput) (*model.Appeal, error) {
	result, err := s.ResultRepo.FindByID(ctx, in.ResultID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	} else if err != nil {
		return nil, err
	}
	if result.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}

	appeal := &model.Appeal{
		ResultID:   result.ID,
		ExamID:     result.ExamID,
		StudentID:  studentID,
		AppealText: in.AppealText,
		Status:     model.AppealPending,
	}
	if err := s.AppealRepo.Create(ctx, appeal); err != nil {
		return nil, err
	}
	return appeal, nil
}

func (s *AppealService) GetByID(ctx context.Context, id string) (*model.Appeal, error) {
	appeal, err := s.AppealRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAppealNotFound
	}
	return appeal, err
}

func (s *AppealService) ListByExam(ctx context.Context, examID string) ([]model.Appeal, error) {
	if _, err := s.ExamRepo.FindByID(ctx, examID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	} else if err != nil {
		return nil, err
	}
	return s.AppealRepo.ListByExam(ctx, examID)
}

// Resolve records the professor's decision. Only the exam's professor (or an
// admin) may resolve.
func (s *AppealService) Resolve(ctx context.Context, id string, in *ResolveAppealInput, actor *util.Claims) (*model.Appeal, error) {
	if in.Status != model.AppealAccepted && in.Status != model.AppealRejected {
		return nil, fmt.Errorf("%w: status must be accepted or rejected", util.ErrInvalidInput)
	}
	appeal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin {
		exam, err := s.ExamRepo.FindByID(ctx, appeal.ExamID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err != nil || exam.ProfessorID != actor.UserID {
			return nil, util.ErrPermissionDenied
		}
	}

	now := time.Now()
	appeal.Status = in.Status
	appeal.Response = in.Response
	appeal.ResolvedBy = actor.UserID
	appeal.ResolvedAt = &now
	if err := s.AppealRepo.Update(ctx, appeal); err != nil {
		return nil, err
	}
	return appeal, nil
}

func (s *AppealService) Delete(ctx context.Context, id string, actor *util.Claims) error {
	appeal, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != model.Admin && appeal.StudentID != actor.UserID {
		return util.ErrPermissionDenied
	}
	return s.AppealRepo.Delete(ctx, id)
}
