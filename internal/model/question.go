package model

import "gorm.io/datatypes"

type MCQOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// MCQQuestion is scored by the flag of the selected option only; several
// options may be flagged correct.
// swagger:model MCQQuestion
type MCQQuestion struct {
	UUIDBase
	Text      string                         `gorm:"type:text;not null" json:"text"`
	Options   datatypes.JSONSlice[MCQOption] `json:"options"`
	Marks     float64                        `gorm:"default:0" json:"marks"`
	CreatorID string                         `gorm:"type:varchar(36);index" json:"creatorId"`
}

func (MCQQuestion) TableName() string {
	return "mcq_questions"
}

type CodeTemplate struct {
	HiddenHeader string `json:"hiddenHeader"`
	HeaderFixed  string `json:"headerFixed"`
	EditableStub string `json:"editableStub"`
	FooterFixed  string `json:"footerFixed"`
	HiddenFooter string `json:"hiddenFooter"`
	Driver       string `json:"driver"`
}

type CodeTestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// swagger:model CodeQuestion
type CodeQuestion struct {
	UUIDBase
	Text                 string                            `gorm:"type:text;not null" json:"text"`
	Template             datatypes.JSONType[CodeTemplate]  `json:"code"`
	TestCases            datatypes.JSONSlice[CodeTestCase] `json:"testCases"`
	ProgrammingLanguages datatypes.JSONSlice[string]       `json:"programmingLanguages"`
	Marks                float64                           `gorm:"default:0" json:"marks"`
	CreatorID            string                            `gorm:"type:varchar(36);index" json:"creatorId"`
}

func (CodeQuestion) TableName() string {
	return "code_questions"
}
