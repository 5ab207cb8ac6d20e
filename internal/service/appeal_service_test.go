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

func TestAppealService(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	svc := NewAppealService(f.appeals, f.results, f.exams)

	prof := f.user("prof", model.Professor)
	q := f.mcq(1, 2, 0)
	e := &model.Exam{Name: "final", DateTime: time.Now(), ProfessorID: prof.ID}
	e.MCQQuestionIDs = append(e.MCQQuestionIDs, q.ID)
	require.NoError(t, f.exams.Create(f.ctx, e))

	alice := f.student("alice")
	bob := f.student("bob")
	res := f.mustSubmit(e.ID, alice.ID, 1)

	_, err := svc.Create(f.ctx, bob.ID, &AppealInput{ResultID: res.ID, AppealText: "mine?"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = svc.Create(f.ctx, alice.ID, &AppealInput{ResultID: "missing", AppealText: "x"})
	assert.ErrorIs(t, err, util.ErrResultNotFound)

	appeal, err := svc.Create(f.ctx, alice.ID, &AppealInput{ResultID: res.ID, AppealText: "option 2 is also right"})
	require.NoError(t, err)
	assert.Equal(t, model.AppealPending, appeal.Status)
	assert.Equal(t, e.ID, appeal.ExamID)

	list, err := svc.ListByExam(f.ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Resolve(f.ctx, appeal.ID, &ResolveAppealInput{Status: "maybe"}, &util.Claims{UserID: prof.ID, Role: model.Professor})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = svc.Resolve(f.ctx, appeal.ID, &ResolveAppealInput{Status: model.AppealRejected}, &util.Claims{UserID: "other", Role: model.Professor})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	resolved, err := svc.Resolve(f.ctx, appeal.ID, &ResolveAppealInput{
		Status:   model.AppealRejected,
		Response: "only option 1 is correct",
	}, &util.Claims{UserID: prof.ID, Role: model.Professor})
	require.NoError(t, err)
	assert.Equal(t, model.AppealRejected, resolved.Status)
	assert.Equal(t, prof.ID, resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	assert.ErrorIs(t, svc.Delete(f.ctx, appeal.ID, &util.Claims{UserID: bob.ID, Role: model.Student}), util.ErrPermissionDenied)
	require.NoError(t, svc.Delete(f.ctx, appeal.ID, &util.Claims{UserID: alice.ID, Role: model.Student}))
	_, err = svc.GetByID(f.ctx, appeal.ID)
	assert.ErrorIs(t, err, util.ErrAppealNotFound)
}
