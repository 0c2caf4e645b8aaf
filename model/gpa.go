package model

import "math"

// GPA is an unweighted/weighted pair on the 4.0 scale, each rounded to
// three decimals. Weighted values may exceed 4.0.
type GPA struct {
	Unweighted float64 `json:"unweighted"`
	Weighted   float64 `json:"weighted"`
}

// CalculateGPA computes the credit-weighted GPA of courses. Unknown
// grades count as 0 points and unknown course types carry no bonus.
// An empty list or a zero credit total yields a zero GPA.
func CalculateGPA(courses []Course) GPA {
	var points, weightedPoints, credits float64
	for _, c := range courses {
		gp := GradePoints[c.Grade]
		bonus := WeightBonus[c.CourseType]
		points += c.Credits * gp
		weightedPoints += c.Credits * (gp + bonus)
		credits += c.Credits
	}
	if credits == 0 {
		return GPA{}
	}
	return GPA{
		Unweighted: round3(points / credits),
		Weighted:   round3(weightedPoints / credits),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
