package model

import (
	"strings"
	"time"
)

// Grades lists the accepted letter grades, best first.
var Grades = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}

// Years lists class levels in chronological order.
var Years = []string{"Freshman", "Sophomore", "Junior", "Senior"}

const (
	CourseTypeRegular        = "Regular"
	CourseTypeHonors         = "Honors"
	CourseTypeAP             = "AP"
	CourseTypeIB             = "IB"
	CourseTypeDualEnrollment = "Dual Enrollment"
)

var CourseTypes = []string{CourseTypeRegular, CourseTypeHonors, CourseTypeAP, CourseTypeIB, CourseTypeDualEnrollment}

const (
	DefaultGrade      = "B"
	DefaultYear       = "Junior"
	DefaultCourseType = CourseTypeRegular
	DefaultCredits    = 1.0
)

// GradePoints maps a letter grade to its unweighted 4.0-scale value.
var GradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// WeightBonus is added to grade points for the weighted GPA.
var WeightBonus = map[string]float64{
	CourseTypeAP:             1.0,
	CourseTypeIB:             1.0,
	CourseTypeHonors:         0.5,
	CourseTypeDualEnrollment: 0.5,
	CourseTypeRegular:        0.0,
}

// Course is one graded class on the student's record.
type Course struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Grade      string    `gorm:"type:varchar(2);not null" json:"grade"`
	Year       string    `gorm:"type:varchar(16);not null" json:"year"`
	CourseType string    `gorm:"type:varchar(32);not null" json:"course_type"`
	Credits    float64   `gorm:"not null" json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
}

func IsValidGrade(g string) bool {
	_, ok := GradePoints[g]
	return ok
}

// CanonicalYear matches y case-insensitively against Years.
func CanonicalYear(y string) (string, bool) {
	return canonical(Years, y)
}

// CanonicalCourseType matches t case-insensitively against CourseTypes.
func CanonicalCourseType(t string) (string, bool) {
	return canonical(CourseTypes, t)
}

// YearRank orders class levels; unknown years sort last.
func YearRank(y string) int {
	for i, v := range Years {
		if v == y {
			return i
		}
	}
	return len(Years)
}

func canonical(set []string, v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return s, true
		}
	}
	return "", false
}
