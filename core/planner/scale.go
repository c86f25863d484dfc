package planner

// NoLetterGrade is reported for a course without any usable grade.
const NoLetterGrade = "N/A"

type tier struct {
	min    float64
	letter string
	points float64
}

// gradeScale is ordered by descending lower bound; a percentage falls in the first tier it reaches.
var gradeScale = []tier{
	{min: 97, letter: "A+", points: 4.0},
	{min: 93, letter: "A", points: 3.7},
	{min: 90, letter: "A-", points: 3.3},
	{min: 87, letter: "B+", points: 3.0},
	{min: 83, letter: "B", points: 2.7},
	{min: 80, letter: "B-", points: 2.3},
	{min: 77, letter: "C+", points: 2.0},
	{min: 73, letter: "C", points: 1.7},
	{min: 70, letter: "C-", points: 1.3},
	{min: 67, letter: "D+", points: 1.0},
	{min: 65, letter: "D", points: 0.7},
}

var failTier = tier{letter: "F", points: 0.0}

func lookup(percentage float64) tier {
	for _, t := range gradeScale {
		if percentage >= t.min {
			return t
		}
	}
	return failTier
}

// GradePoints maps a percentage (0-100, may exceed 100) to grade points on the 4.0 scale.
func GradePoints(percentage float64) float64 {
	return lookup(percentage).points
}

// LetterGrade maps a percentage to its letter on the same scale as GradePoints.
func LetterGrade(percentage float64) string {
	return lookup(percentage).letter
}
