package standards

import (
	"regexp"
	"strconv"
	"strings"
)

// Subject is a normalized subject category used to key the local table.
type Subject string

const (
	SubjectMathematics Subject = "Mathematics"
	SubjectELA         Subject = "ELA"
	SubjectScience     Subject = "Science"
	SubjectHistory     Subject = "History"
	SubjectOther       Subject = "Other"
)

// DefaultGrade is the fallback when grade input cannot be parsed.
const DefaultGrade = "5"

var gradeDigits = regexp.MustCompile(`\d+`)

// NormalizeGrade maps free-text grade input to the closed band set
// {K, 1..8, HS}. Grades 9-12 collapse into HS. Unparseable input
// falls back to DefaultGrade.
func NormalizeGrade(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if strings.Contains(normalized, "k") || strings.Contains(normalized, "kinder") {
		return "K"
	}
	if match := gradeDigits.FindString(normalized); match != "" {
		num, err := strconv.Atoi(match)
		if err == nil && num >= 9 && num <= 12 {
			return "HS"
		}
		return match
	}
	if strings.Contains(normalized, "high") || strings.Contains(normalized, "hs") {
		return "HS"
	}
	return DefaultGrade
}

// NormalizeSubject maps free-text subject input to a Subject via
// case-insensitive keyword matching. Anything unrecognized is Other.
func NormalizeSubject(input string) Subject {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "math"):
		return SubjectMathematics
	case strings.Contains(lower, "english"),
		strings.Contains(lower, "ela"),
		strings.Contains(lower, "literacy"),
		strings.Contains(lower, "reading"),
		strings.Contains(lower, "writing"):
		return SubjectELA
	case strings.Contains(lower, "science"),
		strings.Contains(lower, "ngss"),
		strings.Contains(lower, "biology"),
		strings.Contains(lower, "physics"),
		strings.Contains(lower, "chemistry"):
		return SubjectScience
	case strings.Contains(lower, "history"),
		strings.Contains(lower, "social"),
		strings.Contains(lower, "civics"),
		strings.Contains(lower, "economics"):
		return SubjectHistory
	}
	return SubjectOther
}

// ComposeSelection formats a chosen standard as the "code: description"
// string stored in a lesson context.
func ComposeSelection(code, description string) string {
	return code + ": " + description
}
