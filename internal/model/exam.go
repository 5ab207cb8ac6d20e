package model

import (
	"time"

	"gorm.io/datatypes"
)

type HighestMarksInfo struct {
	Marks     float64 `gorm:"column:highest_marks;default:0" json:"marks"`
	StudentID string  `gorm:"column:highest_student_id;type:varchar(36)" json:"studentId"`
}

// ResultAnalytics is maintained by the result pipeline only.
type ResultAnalytics struct {
	TotalAttendees   int              `gorm:"column:total_attendees;default:0" json:"totalAttendees"`
	TotalMarksScored float64          `gorm:"column:total_marks_scored;default:0" json:"totalMarksScored"`
	HighestMarksInfo HighestMarksInfo `gorm:"embedded" json:"highestMarksInfo"`
}

// swagger:model Exam
type Exam struct {
	UUIDBase
	Name                 string                      `gorm:"size:255;not null" json:"name"`
	CourseID             string                      `gorm:"type:varchar(36);index" json:"courseId"`
	ProfessorID          string                      `gorm:"type:varchar(36);index" json:"professorId"`
	Syllabus             datatypes.JSONSlice[string] `json:"syllabus"`
	DateTime             time.Time                   `json:"dateTime"`
	LoginWindowCloseTime *time.Time                  `json:"loginWindowCloseTime,omitempty"`
	Duration             int                         `gorm:"default:0" json:"duration"` // minutes
	MaxMarks             float64                     `gorm:"default:0" json:"maxMarks"`
	MCQQuestionIDs       datatypes.JSONSlice[string] `json:"mcqQuestionIds"`
	CodeQuestionIDs      datatypes.JSONSlice[string] `json:"codeQuestionIds"`
	ResultIDs            datatypes.JSONSlice[string] `json:"resultIds"`
	ResultAnalytics      ResultAnalytics             `gorm:"embedded" json:"resultAnalytics"`
	Version              int                         `gorm:"not null;default:0" json:"version"`
}

func (Exam) TableName() string {
	return "exams"
}

// HasResult reports whether id is already referenced by the exam.
func (e *Exam) HasResult(id string) bool {
	for _, ref := range e.ResultIDs {
		if ref == id {
			return true
		}
	}
	return false
}

func (e *Exam) RemoveResult(id string) {
	refs := make(datatypes.JSONSlice[string], 0, len(e.ResultIDs))
	for _, ref := range e.ResultIDs {
		if ref != id {
			refs = append(refs, ref)
		}
	}
	e.ResultIDs = refs
}
