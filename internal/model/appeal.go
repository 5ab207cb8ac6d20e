package model

import "time"

type AppealStatus string

const (
	AppealPending  AppealStatus = "pending"
	AppealAccepted AppealStatus = "accepted"
	AppealRejected AppealStatus = "rejected"
)

// swagger:model Appeal
type Appeal struct {
	UUIDBase
	ResultID   string       `gorm:"type:varchar(36);index;not null" json:"resultId"`
	ExamID     string       `gorm:"type:varchar(36);index;not null" json:"examId"`
	StudentID  string       `gorm:"type:varchar(36);index;not null" json:"studentId"`
	AppealText string       `gorm:"type:text;not null" json:"appealText"`
	Status     AppealStatus `gorm:"size:20;default:'pending'" json:"status"`
	Response   string       `gorm:"type:text" json:"response"`
	ResolvedBy string       `gorm:"type:varchar(36)" json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time   `json:"resolvedAt,omitempty"`
}

func (Appeal) TableName() string {
	return "appeals"
}
