package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/logger"
	"exam_portal_backend/pkg/monitoring"
	"exam_portal_backend/pkg/tracing"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmitResultRequest struct {
	ExamID      string            `json:"examId"`
	StudentID   string            `json:"studentId"`
	MCQResults  []model.MCQAnswer `json:"mcqResults"`
	CodeResults []CodeSubmission  `json:"codeResults"`
}

type ResultService struct {
	DB           *gorm.DB
	ExamRepo     *repository.ExamRepository
	ResultRepo   *repository.ResultRepository
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	AppealRepo   *repository.AppealRepository
	Storage      *StorageService
	Locker       ExamLocker

	mu          sync.RWMutex
	policy      string
	maxAttempts int
	now         func() time.Time
}

func NewResultService(
	db *gorm.DB,
	examRepo *repository.ExamRepository,
	resultRepo *repository.ResultRepository,
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	appealRepo *repository.AppealRepository,
	storage *StorageService,
	locker ExamLocker,
	cfg *config.ResultConfig,
) *ResultService {
	s := &ResultService{
		DB:           db,
		ExamRepo:     examRepo,
		ResultRepo:   resultRepo,
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		AppealRepo:   appealRepo,
		Storage:      storage,
		Locker:       locker,
		now:          time.Now,
	}
	s.setResultConfig(cfg)
	return s
}

func (s *ResultService) setResultConfig(cfg *config.ResultConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = cfg.ResubmissionPolicy
	if s.policy == "" {
		s.policy = config.ResubmissionReplace
	}
	s.maxAttempts = cfg.MaxAttempts
	if s.maxAttempts < 1 {
		s.maxAttempts = 1
	}
}

// ReloadConfig is registered as a config callback.
func (s *ResultService) ReloadConfig(cfg *config.Config) {
	s.setResultConfig(&cfg.Result)
	logger.Log.Info("Result settings reloaded",
		zap.String("resubmission_policy", cfg.Result.ResubmissionPolicy),
		zap.Int("max_attempts", cfg.Result.MaxAttempts))
}

func (s *ResultService) settings() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy, s.maxAttempts
}

// Submit scores a submission and stores it as the only result of its
// (exam, student) pair, then refreshes the exam analytics and the ranks of
// every result of the exam. Everything after scoring commits or rolls back
// as one unit.
func (s *ResultService) Submit(ctx context.Context, req *SubmitResultRequest) (*model.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", util.ErrInvalidSubmission)
	}
	ctx, span := tracing.Tracer.Start(ctx, "ResultService.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("exam.id", req.ExamID),
		attribute.String("student.id", req.StudentID),
	)

	result, err := s.submit(ctx, req)
	fields := []zap.Field{zap.String("exam_id", req.ExamID), zap.String("student_id", req.StudentID)}
	switch {
	case err == nil:
		monitoring.ResultSubmissions.WithLabelValues(monitoring.OutcomeAccepted).Inc()
		logger.Log.Info("Result accepted", append(fields,
			zap.Float64("score", result.Marks),
			zap.Int("rank", result.Rank))...)
	case errors.Is(err, util.ErrInvalidSubmission),
		errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrStudentNotFound):
		monitoring.ResultSubmissions.WithLabelValues(monitoring.OutcomeRejected).Inc()
		logger.Log.Warn("Result rejected", append(fields, zap.Error(err))...)
	default:
		monitoring.ResultSubmissions.WithLabelValues(monitoring.OutcomeFailed).Inc()
		logger.Log.Error("Result processing failed", append(fields, zap.Error(err))...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "result processing failed")
	}
	return result, err
}

func (s *ResultService) submit(ctx context.Context, req *SubmitResultRequest) (*model.Result, error) {
	if err := validateSubmitRequest(req); err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, req.ExamID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrResultProcessing, err)
	}
	defer unlock()

	exam, err := s.ExamRepo.FindByID(ctx, req.ExamID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrResultProcessing, err)
	}

	student, err := s.UserRepo.FindByID(ctx, req.StudentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && student.Role != model.Student) {
		return nil, util.ErrStudentNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrResultProcessing, err)
	}

	if err := validateAnswers(exam, req); err != nil {
		return nil, err
	}

	marks, err := s.scoreMCQ(ctx, exam, req.MCQResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrResultProcessing, err)
	}

	codeAnswers, err := s.Storage.SaveCodeAnswers(ctx, req.ExamID, req.StudentID, req.CodeResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrResultProcessing, err)
	}

	result := &model.Result{
		ExamID:       req.ExamID,
		StudentID:    req.StudentID,
		MCQResults:   datatypes.JSONSlice[model.MCQAnswer](req.MCQResults),
		CodeResults:  datatypes.JSONSlice[model.CodeAnswer](codeAnswers),
		Marks:        marks,
		LastModified: s.now(),
	}

	policy, maxAttempts := s.settings()
	var previous *model.Result
	for attempt := 1; ; attempt++ {
		previous, err = s.persist(ctx, result, policy)
		if err == nil || !errors.Is(err, util.ErrConcurrentUpdate) || attempt >= maxAttempts {
			break
		}
		logger.Log.Debug("Exam changed underneath submission, retrying",
			zap.String("exam_id", req.ExamID), zap.Int("attempt", attempt))
	}
	if err != nil {
		s.Storage.DeleteCodeAnswers(ctx, codeAnswers)
		return nil, fmt.Errorf("%w: %v", util.ErrResultProcessing, err)
	}

	if previous != nil {
		s.Storage.DeleteCodeAnswers(ctx, previous.CodeResults)
	}
	return result, nil
}

// scoreMCQ loads the exam's MCQ questions in exam order and scores answers
// against them.
func (s *ResultService) scoreMCQ(ctx context.Context, exam *model.Exam, answers []model.MCQAnswer) (float64, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ResultService.score")
	defer span.End()

	questions, err := s.QuestionRepo.FindMCQByIDs(ctx, exam.MCQQuestionIDs)
	if err != nil {
		return 0, err
	}
	return ScoreMCQ(questions, answers), nil
}

// persist upserts result and rewrites the exam analytics and ranks in one
// transaction. It returns the result that was replaced, if any.
func (s *ResultService) persist(ctx context.Context, result *model.Result, policy string) (*model.Result, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ResultService.persist")
	defer span.End()

	var previous *model.Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		results := s.ResultRepo.WithTx(tx)

		exam, err := exams.FindByID(ctx, result.ExamID)
		if err != nil {
			return fmt.Errorf("reload exam: %w", err)
		}

		result.Rank = 0
		prev, err := results.Upsert(ctx, result)
		if err != nil {
			return fmt.Errorf("upsert result: %w", err)
		}

		applyAnalytics(&exam.ResultAnalytics, policy, result, prev)
		if !exam.HasResult(result.ID) {
			exam.ResultIDs = append(exam.ResultIDs, result.ID)
		}

		ranked, changed, err := s.rerank(ctx, results, exam)
		if err != nil {
			return err
		}
		if err := exams.Save(ctx, exam); err != nil {
			return err
		}
		for _, r := range changed {
			if err := results.UpdateRank(ctx, r.ID, r.Rank); err != nil {
				return fmt.Errorf("update rank: %w", err)
			}
		}

		for _, r := range ranked {
			if r.ID == result.ID {
				result.Rank = r.Rank
				break
			}
		}
		previous = prev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

// applyAnalytics updates the running counters for one accepted result.
// prev is the result it replaced, nil on a first submission.
func applyAnalytics(a *model.ResultAnalytics, policy string, result, prev *model.Result) {
	if policy == config.ResubmissionAccumulate {
		a.TotalAttendees++
		a.TotalMarksScored += result.Marks
		return
	}
	if prev == nil {
		a.TotalAttendees++
		a.TotalMarksScored += result.Marks
		return
	}
	a.TotalMarksScored += result.Marks - prev.Marks
}

// rerank loads every result referenced by exam, assigns ranks and refreshes
// the highest marks holder. Only results whose rank moved are returned in
// changed.
func (s *ResultService) rerank(ctx context.Context, results *repository.ResultRepository, exam *model.Exam) (ranked, changed []*model.Result, err error) {
	start := time.Now()
	defer func() {
		monitoring.RankRecomputeDuration.Observe(time.Since(start).Seconds())
	}()

	ranked, err = results.FindByIDs(ctx, exam.ResultIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load exam results: %w", err)
	}
	changed = AssignRanks(ranked)
	exam.ResultAnalytics.HighestMarksInfo = deriveHighest(exam.ResultAnalytics.HighestMarksInfo, ranked)
	return ranked, changed, nil
}

func validateSubmitRequest(req *SubmitResultRequest) error {
	switch {
	case req.ExamID == "":
		return fmt.Errorf("%w: examId is required", util.ErrInvalidSubmission)
	case req.StudentID == "":
		return fmt.Errorf("%w: studentId is required", util.ErrInvalidSubmission)
	case req.MCQResults == nil && req.CodeResults == nil:
		return fmt.Errorf("%w: mcqResults is required", util.ErrInvalidSubmission)
	}
	return nil
}

func validateAnswers(exam *model.Exam, req *SubmitResultRequest) error {
	if len(req.MCQResults) > len(exam.MCQQuestionIDs) {
		return fmt.Errorf("%w: %d answers for %d questions",
			util.ErrInvalidSubmission, len(req.MCQResults), len(exam.MCQQuestionIDs))
	}
	for i, answer := range req.MCQResults {
		if answer.QuestionID != "" && answer.QuestionID != exam.MCQQuestionIDs[i] {
			return fmt.Errorf("%w: answer %d is for question %s, expected %s",
				util.ErrInvalidSubmission, i, answer.QuestionID, exam.MCQQuestionIDs[i])
		}
	}

	allowed := make(map[string]bool, len(exam.CodeQuestionIDs))
	for _, id := range exam.CodeQuestionIDs {
		allowed[id] = true
	}
	seen := make(map[string]bool, len(req.CodeResults))
	for _, code := range req.CodeResults {
		if !allowed[code.QuestionID] {
			return fmt.Errorf("%w: code question %s is not part of the exam", util.ErrInvalidSubmission, code.QuestionID)
		}
		if seen[code.QuestionID] {
			return fmt.Errorf("%w: code question %s answered twice", util.ErrInvalidSubmission, code.QuestionID)
		}
		seen[code.QuestionID] = true
	}
	return nil
}

func (s *ResultService) GetByID(ctx context.Context, id string) (*model.Result, error) {
	result, err := s.ResultRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	return result, err
}

// OpenCodeAnswer streams the stored source of one code answer. Students may
// only read their own; the caller closes the reader.
func (s *ResultService) OpenCodeAnswer(ctx context.Context, resultID, questionID string, actor *util.Claims) (*model.CodeAnswer, io.ReadCloser, error) {
	result, err := s.GetByID(ctx, resultID)
	if err != nil {
		return nil, nil, err
	}
	if actor.Role == model.Student && result.StudentID != actor.UserID {
		return nil, nil, util.ErrPermissionDenied
	}

	idx := slices.IndexFunc(result.CodeResults, func(a model.CodeAnswer) bool {
		return a.QuestionID == questionID
	})
	if idx < 0 {
		return nil, nil, util.ErrCodeAnswerNotFound
	}
	answer := result.CodeResults[idx]

	rc, err := s.Storage.Open(ctx, answer.StorageKey)
	if errors.Is(err, os.ErrNotExist) {
		logger.Log.Warn("Code answer blob missing", zap.String("result_id", resultID), zap.String("key", answer.StorageKey))
		return nil, nil, util.ErrCodeAnswerNotFound
	} else if err != nil {
		return nil, nil, err
	}
	return &answer, rc, nil
}

func (s *ResultService) GetByExamAndUsername(ctx context.Context, examID, username string) (*model.Result, error) {
	student, err := s.UserRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	} else if err != nil {
		return nil, err
	}

	result, err := s.ResultRepo.FindByExamAndStudent(ctx, examID, student.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	return result, err
}

// ListByExam returns the results of an exam in rank order.
func (s *ResultService) ListByExam(ctx context.Context, examID string) ([]model.Result, error) {
	if _, err := s.ExamRepo.FindByID(ctx, examID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	} else if err != nil {
		return nil, err
	}
	return s.ResultRepo.ListByExam(ctx, examID)
}

// Delete removes a result with its appeals, drops it from the exam and
// rebuilds the exam analytics and ranks from the results left.
func (s *ResultService) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.Tracer.Start(ctx, "ResultService.Delete")
	defer span.End()

	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unlock, err := s.Locker.Lock(ctx, target.ExamID)
	if err != nil {
		return err
	}
	defer unlock()

	_, maxAttempts := s.settings()
	for attempt := 1; ; attempt++ {
		err = s.deleteTx(ctx, target)
		if err == nil || !errors.Is(err, util.ErrConcurrentUpdate) || attempt >= maxAttempts {
			break
		}
	}
	if err != nil {
		return err
	}

	s.Storage.DeleteCodeAnswers(ctx, target.CodeResults)
	logger.Log.Info("Result deleted",
		zap.String("result_id", target.ID),
		zap.String("exam_id", target.ExamID),
		zap.String("student_id", target.StudentID))
	return nil
}

func (s *ResultService) deleteTx(ctx context.Context, target *model.Result) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		results := s.ResultRepo.WithTx(tx)

		if err := results.Delete(ctx, target.ID); errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrResultNotFound
		} else if err != nil {
			return err
		}
		if err := s.AppealRepo.WithTx(tx).DeleteByResult(ctx, target.ID); err != nil {
			return err
		}

		exam, err := exams.FindByID(ctx, target.ExamID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		} else if err != nil {
			return err
		}

		exam.RemoveResult(target.ID)
		ranked, changed, err := s.rerank(ctx, results, exam)
		if err != nil {
			return err
		}
		exam.ResultAnalytics.TotalAttendees = len(ranked)
		exam.ResultAnalytics.TotalMarksScored = 0
		for _, r := range ranked {
			exam.ResultAnalytics.TotalMarksScored += r.Marks
		}

		if err := exams.Save(ctx, exam); err != nil {
			return err
		}
		for _, r := range changed {
			if err := results.UpdateRank(ctx, r.ID, r.Rank); err != nil {
				return err
			}
		}
		return nil
	})
}
