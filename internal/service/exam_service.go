package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/logger"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExamInput struct {
	Name                 string     `json:"name" binding:"required"`
	CourseID             string     `json:"courseId"`
	Syllabus             []string   `json:"syllabus"`
	DateTime             time.Time  `json:"dateTime" binding:"required"`
	LoginWindowCloseTime *time.Time `json:"loginWindowCloseTime"`
	Duration             int        `json:"duration" binding:"min=0"`
	MaxMarks             float64    `json:"maxMarks" binding:"min=0"`
	MCQQuestionIDs       []string   `json:"mcqQuestionIds"`
	CodeQuestionIDs      []string   `json:"codeQuestionIds"`
}

type ExamService struct {
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	CourseRepo   *repository.CourseRepository
	ResultRepo   *repository.ResultRepository
	Locker       ExamLocker
}

func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	courseRepo *repository.CourseRepository,
	resultRepo *repository.ResultRepository,
	locker ExamLocker,
) *ExamService {
	return &ExamService{
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		CourseRepo:   courseRepo,
		ResultRepo:   resultRepo,
		Locker:       locker,
	}
}

// questionMarks checks that every referenced question exists and returns the
// sum of their marks.
func (s *ExamService) questionMarks(ctx context.Context, in *ExamInput) (float64, error) {
	var total float64
	mcqs, err := s.QuestionRepo.FindMCQByIDs(ctx, in.MCQQuestionIDs)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %v", util.ErrQuestionNotFound, err)
	} else if err != nil {
		return 0, err
	}
	for _, q := range mcqs {
		total += q.Marks
	}

	codes, err := s.QuestionRepo.FindCodeByIDs(ctx, in.CodeQuestionIDs)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %v", util.ErrQuestionNotFound, err)
	} else if err != nil {
		return 0, err
	}
	for _, q := range codes {
		total += q.Marks
	}
	return total, nil
}

func (s *ExamService) checkCourse(ctx context.Context, courseID string) error {
	if courseID == "" {
		return nil
	}
	if _, err := s.CourseRepo.FindByID(ctx, courseID); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	} else if err != nil {
		return err
	}
	return nil
}

func applyExamInput(e *model.Exam, in *ExamInput, questionMarks float64) {
	e.Name = in.Name
	e.CourseID = in.CourseID
	e.Syllabus = datatypes.JSONSlice[string](in.Syllabus)
	e.DateTime = in.DateTime
	e.LoginWindowCloseTime = in.LoginWindowCloseTime
	e.Duration = in.Duration
	e.MaxMarks = in.MaxMarks
	if e.MaxMarks == 0 {
		e.MaxMarks = questionMarks
	}
	e.MCQQuestionIDs = datatypes.JSONSlice[string](in.MCQQuestionIDs)
	e.CodeQuestionIDs = datatypes.JSONSlice[string](in.CodeQuestionIDs)
}

func (s *ExamService) Create(ctx context.Context, professorID string, in *ExamInput) (*model.Exam, error) {
	if err := s.checkCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}
	marks, err := s.questionMarks(ctx, in)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{ProfessorID: professorID}
	applyExamInput(exam, in, marks)
	if err := s.ExamRepo.Create(ctx, exam); err != nil {
		return nil, err
	}
	logger.Log.Info("Exam created", zap.String("exam_id", exam.ID), zap.String("professor_id", professorID))
	return exam, nil
}

func (s *ExamService) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	}
	return exam, err
}

func (s *ExamService) List(ctx context.Context, courseID string, page, limit int) ([]model.Exam, int64, error) {
	return s.ExamRepo.List(ctx, courseID, page, limit)
}

func canManageExam(exam *model.Exam, actor *util.Claims) bool {
	return actor.Role == model.Admin || exam.ProfessorID == actor.UserID
}

// Update rewrites the exam metadata. Once results exist the question lists
// are frozen, since stored results were scored by position against them.
func (s *ExamService) Update(ctx context.Context, id string, in *ExamInput, actor *util.Claims) (*model.Exam, error) {
	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageExam(exam, actor) {
		return nil, util.ErrPermissionDenied
	}
	if !slices.Equal([]string(exam.MCQQuestionIDs), in.MCQQuestionIDs) || !slices.Equal([]string(exam.CodeQuestionIDs), in.CodeQuestionIDs) {
		if err := s.ensureNoResults(ctx, exam); err != nil {
			return nil, err
		}
	}
	if err := s.checkCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}
	marks, err := s.questionMarks(ctx, in)
	if err != nil {
		return nil, err
	}

	applyExamInput(exam, in, marks)
	if err := s.ExamRepo.Save(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Delete(ctx context.Context, id string, actor *util.Claims) error {
	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManageExam(exam, actor) {
		return util.ErrPermissionDenied
	}
	if err := s.ensureNoResults(ctx, exam); err != nil {
		return err
	}
	if err := s.ExamRepo.Delete(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrExamNotFound
	} else if err != nil {
		return err
	}
	logger.Log.Info("Exam deleted", zap.String("exam_id", id), zap.String("by", actor.UserID))
	return nil
}

// ensureNoResults counts result rows rather than trusting the exam's ref
// list, which is only as fresh as the last exam write.
func (s *ExamService) ensureNoResults(ctx context.Context, exam *model.Exam) error {
	if len(exam.ResultIDs) > 0 {
		return util.ErrExamHasResults
	}
	n, err := s.ResultRepo.CountByExam(ctx, exam.ID)
	if err != nil {
		return fmt.Errorf("count results: %w", err)
	}
	if n > 0 {
		return util.ErrExamHasResults
	}
	return nil
}
