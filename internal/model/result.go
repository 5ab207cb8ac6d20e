package model

import (
	"time"

	"gorm.io/datatypes"
)

// MCQAnswer is matched to the exam's MCQ list by position. A nil
// SelectedOption means the question was left unanswered.
type MCQAnswer struct {
	QuestionID     string `json:"questionId,omitempty"`
	SelectedOption *int   `json:"selectedOption"`
}

type CodeAnswer struct {
	QuestionID string `json:"questionId"`
	Language   string `json:"language"`
	StorageKey string `json:"storageKey"`
}

// swagger:model Result
type Result struct {
	UUIDBase
	ExamID       string                          `gorm:"type:varchar(36);not null;uniqueIndex:idx_results_exam_student" json:"examId"`
	StudentID    string                          `gorm:"type:varchar(36);not null;uniqueIndex:idx_results_exam_student" json:"studentId"`
	MCQResults   datatypes.JSONSlice[MCQAnswer]  `json:"mcqResults"`
	CodeResults  datatypes.JSONSlice[CodeAnswer] `json:"codeResults"`
	Marks        float64                         `gorm:"default:0" json:"marks"`
	Rank         int                             `gorm:"default:0" json:"rank"`
	LastModified time.Time                       `json:"lastModified"`
}

func (Result) TableName() string {
	return "results"
}
