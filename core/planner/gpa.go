package planner

import "math"

type courseAccumulator struct {
	weightedSum float64
	totalWeight float64
}

// ComputeGPA aggregates grades into per-course percentages, then into a credit-weighted overall GPA.
//
// Grades whose course is unknown or whose MaxPoints is not positive are ignored.
// Courses without any retained grade are left out of the result.
// Courses are reported in the order their first retained grade appears.
func ComputeGPA(grades []Grade, courses []Course) GPACalculation {
	credits := make(map[string]int, len(courses))
	for _, c := range courses {
		credits[c.ID] = c.Credits
	}

	order := make([]string, 0)
	accs := make(map[string]*courseAccumulator)
	for _, g := range grades {
		if _, ok := credits[g.CourseID]; !ok || g.MaxPoints <= 0 {
			continue
		}
		acc, ok := accs[g.CourseID]
		if !ok {
			acc = &courseAccumulator{}
			accs[g.CourseID] = acc
			order = append(order, g.CourseID)
		}
		acc.weightedSum += (g.Grade / g.MaxPoints) * g.Weight
		acc.totalWeight += g.Weight
	}

	calc := GPACalculation{Courses: make([]CourseGPA, 0, len(order))}
	var totalPoints, totalCredits float64
	for _, id := range order {
		acc := accs[id]
		var percentage float64
		if acc.totalWeight > 0 {
			percentage = (acc.weightedSum / acc.totalWeight) * 100
		}
		points := GradePoints(percentage)
		calc.Courses = append(calc.Courses, CourseGPA{
			CourseID:    id,
			GPA:         points,
			LetterGrade: LetterGrade(percentage),
		})
		cr := float64(credits[id])
		totalPoints += points * cr
		totalCredits += cr
	}

	if totalCredits > 0 {
		calc.Overall = roundTo2(totalPoints / totalCredits)
	}
	calc.Semester = calc.Overall
	return calc
}

func roundTo2(x float64) float64 {
	return math.Round(x*100) / 100
}
