package model

import "gorm.io/datatypes"

// swagger:model Course
type Course struct {
	UUIDBase
	Code              string                      `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name              string                      `gorm:"size:255;not null" json:"name"`
	ProgramInchargeID string                      `gorm:"type:varchar(36);index" json:"programInchargeId"`
	Subjects          datatypes.JSONSlice[string] `json:"subjects"`
}

func (Course) TableName() string {
	return "courses"
}
