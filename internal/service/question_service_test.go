package service

import (
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionService_MCQLifecycle(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := NewQuestionService(f.questions, f.exams)
	prof := &util.Claims{UserID: "prof-1", Role: model.Professor}

	q, err := svc.CreateMCQ(f.ctx, prof.UserID, &MCQInput{
		Text:    "2 + 2",
		Options: []model.MCQOption{{Text: "3"}, {Text: "4", IsCorrect: true}},
		Marks:   1,
	})
	require.NoError(t, err)

	hidden := HideAnswers(q)
	assert.False(t, hidden.Options[1].IsCorrect)
	assert.True(t, q.Options[1].IsCorrect)

	_, err = svc.UpdateMCQ(f.ctx, q.ID, &MCQInput{Text: "2 + 2 = ?", Options: q.Options, Marks: 2},
		&util.Claims{UserID: "prof-2", Role: model.Professor})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.UpdateMCQ(f.ctx, q.ID, &MCQInput{Text: "2 + 2 = ?", Options: q.Options, Marks: 2}, prof)
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Marks)

	e := f.exam(updated)
	assert.ErrorIs(t, svc.DeleteMCQ(f.ctx, q.ID, prof), util.ErrQuestionInUse)

	// editable until the exam has results
	_, err = svc.UpdateMCQ(f.ctx, q.ID, &MCQInput{Text: "2 + 2 = ?", Options: q.Options, Marks: 3}, prof)
	require.NoError(t, err)

	f.mustSubmit(e.ID, f.student("alice").ID, 1)
	_, err = svc.UpdateMCQ(f.ctx, q.ID, &MCQInput{Text: "changed", Options: q.Options, Marks: 5}, prof)
	assert.ErrorIs(t, err, util.ErrExamHasResults)

	other, err := svc.CreateMCQ(f.ctx, prof.UserID, &MCQInput{Text: "free", Options: q.Options})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMCQ(f.ctx, other.ID, prof))
	_, err = svc.GetMCQ(f.ctx, other.ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestQuestionService_CodeQuestion(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := NewQuestionService(f.questions, f.exams)
	prof := &util.Claims{UserID: "prof-1", Role: model.Professor}

	q, err := svc.CreateCode(f.ctx, prof.UserID, &CodeQuestionInput{
		Text:                 "sum two ints",
		Template:             model.CodeTemplate{EditableStub: "func sum(a, b int) int {}"},
		TestCases:            []model.CodeTestCase{{Input: "1 2", ExpectedOutput: "3"}},
		ProgrammingLanguages: []string{"go"},
		Marks:                10,
	})
	require.NoError(t, err)

	got, err := svc.GetCode(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "func sum(a, b int) int {}", got.Template.Data().EditableStub)
	assert.Len(t, got.TestCases, 1)

	require.NoError(t, svc.DeleteCode(f.ctx, q.ID, &util.Claims{UserID: "root", Role: model.Admin}))
	_, err = svc.GetCode(f.ctx, q.ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
