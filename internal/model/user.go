package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// AcademicYear is one of the four fixed enrollment-year buckets a student
// picks once during onboarding.
type AcademicYear string

const (
	YearFirst  AcademicYear = "first"
	YearSecond AcademicYear = "second"
	YearThird  AcademicYear = "third"
	YearFourth AcademicYear = "fourth"
)

func ValidYear(y AcademicYear) bool {
	switch y {
	case YearFirst, YearSecond, YearThird, YearFourth:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	UUIDBase
	Name      string        `gorm:"size:100;not null" json:"name"`
	Email     string        `gorm:"size:100;unique;not null" json:"email"`
	Password  string        `gorm:"size:100;not null" json:"-"`
	Role      UserRole      `gorm:"type:enum('student','admin');default:'student'" json:"role"`
	Approved  bool          `gorm:"default:false" json:"approved"`
	Year      *AcademicYear `gorm:"type:enum('first','second','third','fourth')" json:"year,omitempty"`
	Avatar    string        `gorm:"size:255" json:"avatar"`
	LastLogin time.Time     `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time     `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// YearSet reports whether the student has completed onboarding.
func (u *User) YearSet() bool {
	return u.Year != nil && ValidYear(*u.Year)
}
