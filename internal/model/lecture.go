package model

// swagger:model Lecture
type Lecture struct {
	UUIDBase
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	PDFURL      string       `gorm:"size:512" json:"pdfUrl"`
	Year        AcademicYear `gorm:"type:enum('first','second','third','fourth');index;not null" json:"year"`
}

func (Lecture) TableName() string {
	return "lectures"
}
