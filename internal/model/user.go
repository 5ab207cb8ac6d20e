package model

type UserRole string

const (
	Student         UserRole = "student"
	Professor       UserRole = "professor"
	ProgramIncharge UserRole = "program-incharge"
	Admin           UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Student, Professor, ProgramIncharge, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	UUIDBase
	Username string   `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:32;index;not null" json:"role"`
	Name     string   `gorm:"size:100" json:"name"`
	Email    string   `gorm:"size:100" json:"email"`
	Phone    string   `gorm:"size:32" json:"phone"`
	Batch    string   `gorm:"size:32" json:"batch,omitempty"` // students only
	CourseID string   `gorm:"type:varchar(36);index" json:"courseId,omitempty"`
}

func (User) TableName() string {
	return "users"
}
