package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MCQInput struct {
	Text    string            `json:"text" binding:"required"`
	Options []model.MCQOption `json:"options" binding:"required,min=2"`
	Marks   float64           `json:"marks" binding:"min=0"`
}

type CodeQuestionInput struct {
	Text                 string               `json:"text" binding:"required"`
	Template             model.CodeTemplate   `json:"code"`
	TestCases            []model.CodeTestCase `json:"testCases"`
	ProgrammingLanguages []string             `json:"programmingLanguages"`
	Marks                float64              `json:"marks" binding:"min=0"`
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	ExamRepo     *repository.ExamRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, examRepo *repository.ExamRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		ExamRepo:     examRepo,
	}
}

func canManageQuestion(creatorID string, actor *util.Claims) bool {
	return actor.Role == model.Admin || creatorID == actor.UserID
}

// checkEditable refuses edits of a question that already scored results, and
// any removal of a question an exam still lists.
func (s *QuestionService) checkEditable(ctx context.Context, column, id string, removing bool) error {
	exams, err := s.ExamRepo.FindReferencingQuestion(ctx, column, id)
	if err != nil {
		return err
	}
	for _, e := range exams {
		if removing {
			return fmt.Errorf("%w: %s", util.ErrQuestionInUse, e.ID)
		}
		if len(e.ResultIDs) > 0 {
			return fmt.Errorf("%w: %s", util.ErrExamHasResults, e.ID)
		}
	}
	return nil
}

func (s *QuestionService) CreateMCQ(ctx context.Context, creatorID string, in *MCQInput) (*model.MCQQuestion, error) {
	q := &model.MCQQuestion{
		Text:      in.Text,
		Options:   datatypes.JSONSlice[model.MCQOption](in.Options),
		Marks:     in.Marks,
		CreatorID: creatorID,
	}
	if err := s.QuestionRepo.CreateMCQ(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) GetMCQ(ctx context.Context, id string) (*model.MCQQuestion, error) {
	q, err := s.QuestionRepo.FindMCQByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) UpdateMCQ(ctx context.Context, id string, in *MCQInput, actor *util.Claims) (*model.MCQQuestion, error) {
	q, err := s.GetMCQ(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageQuestion(q.CreatorID, actor) {
		return nil, util.ErrPermissionDenied
	}
	if err := s.checkEditable(ctx, "mcq_question_ids", id, false); err != nil {
		return nil, err
	}

	q.Text = in.Text
	q.Options = datatypes.JSONSlice[model.MCQOption](in.Options)
	q.Marks = in.Marks
	if err := s.QuestionRepo.UpdateMCQ(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteMCQ(ctx context.Context, id string, actor *util.Claims) error {
	q, err := s.GetMCQ(ctx, id)
	if err != nil {
		return err
	}
	if !canManageQuestion(q.CreatorID, actor) {
		return util.ErrPermissionDenied
	}
	if err := s.checkEditable(ctx, "mcq_question_ids", id, true); err != nil {
		return err
	}
	return s.QuestionRepo.DeleteMCQ(ctx, id)
}

func (s *QuestionService) CreateCode(ctx context.Context, creatorID string, in *CodeQuestionInput) (*model.CodeQuestion, error) {
	q := &model.CodeQuestion{CreatorID: creatorID}
	applyCodeInput(q, in)
	if err := s.QuestionRepo.CreateCode(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func applyCodeInput(q *model.CodeQuestion, in *CodeQuestionInput) {
	q.Text = in.Text
	q.Template = datatypes.NewJSONType(in.Template)
	q.TestCases = datatypes.JSONSlice[model.CodeTestCase](in.TestCases)
	q.ProgrammingLanguages = datatypes.JSONSlice[string](in.ProgrammingLanguages)
	q.Marks = in.Marks
}

func (s *QuestionService) GetCode(ctx context.Context, id string) (*model.CodeQuestion, error) {
	q, err := s.QuestionRepo.FindCodeByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) UpdateCode(ctx context.Context, id string, in *CodeQuestionInput, actor *util.Claims) (*model.CodeQuestion, error) {
	q, err := s.GetCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageQuestion(q.CreatorID, actor) {
		return nil, util.ErrPermissionDenied
	}
	if err := s.checkEditable(ctx, "code_question_ids", id, false); err != nil {
		return nil, err
	}
	applyCodeInput(q, in)
	if err := s.QuestionRepo.UpdateCode(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteCode(ctx context.Context, id string, actor *util.Claims) error {
	q, err := s.GetCode(ctx, id)
	if err != nil {
		return err
	}
	if !canManageQuestion(q.CreatorID, actor) {
		return util.ErrPermissionDenied
	}
	if err := s.checkEditable(ctx, "code_question_ids", id, true); err != nil {
		return err
	}
	return s.QuestionRepo.DeleteCode(ctx, id)
}

// HideAnswers strips the correctness flags before a question is shown to a
// student.
func HideAnswers(q *model.MCQQuestion) *model.MCQQuestion {
	out := *q
	out.Options = make(datatypes.JSONSlice[model.MCQOption], len(q.Options))
	for i, opt := range q.Options {
		out.Options[i] = model.MCQOption{Text: opt.Text}
	}
	return &out
}
