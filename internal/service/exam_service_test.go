package service

import (
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExamService(f *fixture) *ExamService {
	return NewExamService(f.exams, f.questions, f.courses, f.results, f.locker)
}

func TestExamService_CreateComputesMaxMarks(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := newExamService(f)
	q1, q2 := f.mcq(2, 4, 0), f.mcq(3, 4, 1)
	cq := &model.CodeQuestion{Text: "fizzbuzz", Marks: 5}
	require.NoError(t, f.questions.CreateCode(f.ctx, cq))

	exam, err := svc.Create(f.ctx, "prof-1", &ExamInput{
		Name:            "final",
		DateTime:        time.Now(),
		Duration:        90,
		MCQQuestionIDs:  []string{q1.ID, q2.ID},
		CodeQuestionIDs: []string{cq.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, exam.MaxMarks)
	assert.Equal(t, "prof-1", exam.ProfessorID)

	exam, err = svc.Create(f.ctx, "prof-1", &ExamInput{
		Name:           "quiz",
		DateTime:       time.Now(),
		MaxMarks:       50,
		MCQQuestionIDs: []string{q1.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, exam.MaxMarks)
}

func TestExamService_CreateChecksReferences(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := newExamService(f)

	_, err := svc.Create(f.ctx, "prof-1", &ExamInput{
		Name: "final", DateTime: time.Now(), MCQQuestionIDs: []string{"missing"},
	})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	_, err = svc.Create(f.ctx, "prof-1", &ExamInput{
		Name: "final", DateTime: time.Now(), CourseID: "missing",
	})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestExamService_UpdateFreezesQuestionsOnceResultsExist(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := newExamService(f)
	prof := &util.Claims{UserID: "prof-1", Role: model.Professor}
	q1, q2, q3 := f.mcq(1, 4, 2), f.mcq(1, 4, 1), f.mcq(1, 2, 0)

	exam, err := svc.Create(f.ctx, prof.UserID, &ExamInput{
		Name: "final", DateTime: time.Now(), MCQQuestionIDs: []string{q1.ID, q2.ID},
	})
	require.NoError(t, err)

	in := &ExamInput{Name: "final v2", DateTime: time.Now(), MCQQuestionIDs: []string{q2.ID, q1.ID}}
	updated, err := svc.Update(f.ctx, exam.ID, in, prof)
	require.NoError(t, err)
	assert.Equal(t, "final v2", updated.Name)
	assert.Equal(t, 1, updated.Version)

	f.mustSubmit(exam.ID, f.student("alice").ID, 1, 2)

	_, err = svc.Update(f.ctx, exam.ID, &ExamInput{
		Name: "final v3", DateTime: time.Now(), MCQQuestionIDs: []string{q2.ID, q1.ID, q3.ID},
	}, prof)
	assert.ErrorIs(t, err, util.ErrExamHasResults)

	renamed, err := svc.Update(f.ctx, exam.ID, &ExamInput{
		Name: "final v3", DateTime: time.Now(), MCQQuestionIDs: []string{q2.ID, q1.ID},
	}, prof)
	require.NoError(t, err)
	assert.Equal(t, "final v3", renamed.Name)
	assert.Len(t, renamed.ResultIDs, 1)
	assert.Equal(t, 1, renamed.ResultAnalytics.TotalAttendees)

	_, err = svc.Update(f.ctx, exam.ID, in, &util.Claims{UserID: "prof-2", Role: model.Professor})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestExamService_Delete(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := newExamService(f)
	prof := &util.Claims{UserID: "prof-1", Role: model.Professor}
	q := f.mcq(1, 2, 0)

	busy, err := svc.Create(f.ctx, prof.UserID, &ExamInput{Name: "a", DateTime: time.Now(), MCQQuestionIDs: []string{q.ID}})
	require.NoError(t, err)
	f.mustSubmit(busy.ID, f.student("alice").ID, 0)
	assert.ErrorIs(t, svc.Delete(f.ctx, busy.ID, prof), util.ErrExamHasResults)

	idle, err := svc.Create(f.ctx, prof.UserID, &ExamInput{Name: "b", DateTime: time.Now()})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(f.ctx, idle.ID, &util.Claims{UserID: "other", Role: model.Professor}), util.ErrPermissionDenied)
	require.NoError(t, svc.Delete(f.ctx, idle.ID, &util.Claims{UserID: "root", Role: model.Admin}))

	_, err = svc.GetByID(f.ctx, idle.ID)
	assert.ErrorIs(t, err, util.ErrExamNotFound)
}

func TestExamService_DeleteCountsUnreferencedResults(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := newExamService(f)
	prof := &util.Claims{UserID: "prof-1", Role: model.Professor}

	exam, err := svc.Create(f.ctx, prof.UserID, &ExamInput{Name: "orphaned", DateTime: time.Now()})
	require.NoError(t, err)
	_, err = f.results.Upsert(f.ctx, &model.Result{ExamID: exam.ID, StudentID: f.student("alice").ID, LastModified: time.Now()})
	require.NoError(t, err)
	require.Empty(t, f.reloadExam(exam.ID).ResultIDs)

	assert.ErrorIs(t, svc.Delete(f.ctx, exam.ID, prof), util.ErrExamHasResults)

	_, err = svc.Update(f.ctx, exam.ID, &ExamInput{Name: "orphaned", DateTime: time.Now(), MCQQuestionIDs: []string{f.mcq(1, 2, 0).ID}}, prof)
	assert.ErrorIs(t, err, util.ErrExamHasResults)
}
