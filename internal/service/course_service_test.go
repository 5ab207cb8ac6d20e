package service

import (
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseService(t *testing.T) {
	f := newFixture(t, "replace")
	svc := NewCourseService(f.courses)
	incharge := f.user("pi", model.ProgramIncharge)
	other := f.user("pi2", model.ProgramIncharge)
	asIncharge := &util.Claims{UserID: incharge.ID, Role: model.ProgramIncharge}
	asOther := &util.Claims{UserID: other.ID, Role: model.ProgramIncharge}
	asAdmin := &util.Claims{UserID: "root", Role: model.Admin}

	course, err := svc.Create(f.ctx, &CourseInput{Code: "CS101", Name: "Intro", ProgramInchargeID: other.ID}, asIncharge)
	require.NoError(t, err)
	assert.Equal(t, incharge.ID, course.ProgramInchargeID)

	_, err = svc.Create(f.ctx, &CourseInput{Code: "CS101", Name: "Again"}, asAdmin)
	assert.ErrorIs(t, err, util.ErrCourseCodeTaken)

	_, err = svc.Update(f.ctx, course.ID, &CourseInput{Code: "CS101", Name: "Renamed"}, asOther)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.Update(f.ctx, course.ID, &CourseInput{Code: "CS101", Name: "Renamed", Subjects: []string{"c"}}, asIncharge)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, []string{"c"}, []string(updated.Subjects))

	assert.ErrorIs(t, svc.Delete(f.ctx, course.ID, asOther), util.ErrPermissionDenied)
	require.NoError(t, svc.Delete(f.ctx, course.ID, asAdmin))
	_, err = svc.GetByID(f.ctx, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
