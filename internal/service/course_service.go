package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseInput struct {
	Code              string   `json:"code" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	ProgramInchargeID string   `json:"programInchargeId"`
	Subjects          []string `json:"subjects"`
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

// inchargeFor makes a program-incharge the owner of what they create; admins
// may assign any owner.
func inchargeFor(in *CourseInput, actor *util.Claims) string {
	if actor.Role == model.ProgramIncharge {
		return actor.UserID
	}
	return in.ProgramInchargeID
}

func (s *CourseService) Create(ctx context.Context, in *CourseInput, actor *util.Claims) (*model.Course, error) {
	taken, err := s.CourseRepo.ExistsByCode(ctx, in.Code, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrCourseCodeTaken
	}

	course := &model.Course{
		Code:              in.Code,
		Name:              in.Name,
		ProgramInchargeID: inchargeFor(in, actor),
		Subjects:          datatypes.JSONSlice[string](in.Subjects),
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) List(ctx context.Context, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.List(ctx, page, limit)
}

func (s *CourseService) Update(ctx context.Context, id string, in *CourseInput, actor *util.Claims) (*model.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && course.ProgramInchargeID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	taken, err := s.CourseRepo.ExistsByCode(ctx, in.Code, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrCourseCodeTaken
	}

	course.Code = in.Code
	course.Name = in.Name
	course.ProgramInchargeID = inchargeFor(in, actor)
	course.Subjects = datatypes.JSONSlice[string](in.Subjects)
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string, actor *util.Claims) error {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != model.Admin && course.ProgramInchargeID != actor.UserID {
		return util.ErrPermissionDenied
	}
	return s.CourseRepo.Delete(ctx, id)
}
