// Package exam models the closed set of supported exam families and the
// grading rubric and score range attached to each of them.
package exam

import "strings"

// Family identifies a supported exam category.
type Family string

const (
	FamilyIELTS Family = "IELTS"
	FamilyTOEFL Family = "TOEFL"
	FamilyGMAT  Family = "GMAT"
	FamilySAT   Family = "SAT"
	FamilyACT   Family = "ACT"
	FamilyOther Family = "OTHER"
)

// ParseFamily maps an exam identifier to a known family. Unrecognized
// identifiers fall back to FamilyOther rather than failing, so the
// default rubric and 0-100 range apply.
func ParseFamily(examID string) Family {
	switch strings.ToUpper(strings.TrimSpace(examID)) {
	case "IELTS":
		return FamilyIELTS
	case "TOEFL":
		return FamilyTOEFL
	case "GMAT":
		return FamilyGMAT
	case "SAT":
		return FamilySAT
	case "ACT":
		return FamilyACT
	default:
		return FamilyOther
	}
}

// ScoreRange describes the valid score interval for a family.
type ScoreRange struct {
	Min     float64
	Max     float64
	Decimal bool
}

// Contains reports whether the score falls inside the range.
func (r ScoreRange) Contains(score float64) bool {
	return score >= r.Min && score <= r.Max
}

// Banded reports whether the family uses a decimal band score (IELTS
// 0-9) instead of the integer 0-100 scale.
func (f Family) Banded() bool {
	return f == FamilyIELTS
}

// Range returns the valid score interval for the family.
func (f Family) Range() ScoreRange {
	if f.Banded() {
		return ScoreRange{Min: 0, Max: 9, Decimal: true}
	}
	return ScoreRange{Min: 0, Max: 100}
}

// ValidScore reports whether the score is acceptable for the family.
func (f Family) ValidScore(score float64) bool {
	return f.Range().Contains(score)
}

var rubrics = map[Family]string{
	FamilyIELTS: "Grade against the IELTS Writing Task 2 band descriptors: task response, coherence and cohesion, lexical resource, grammatical range and accuracy. Report an overall band score between 0 and 9, half bands allowed.",
	FamilyTOEFL: "Grade against the TOEFL independent writing rubric: development, organization, language use. Report a score between 0 and 100.",
	FamilyGMAT:  "Grade against the GMAT Analytical Writing Assessment criteria: quality of analysis, organization, command of language. Report a score between 0 and 100.",
	FamilySAT:   "Grade against the SAT essay dimensions: reading, analysis, writing. Report a combined score between 0 and 100.",
	FamilyACT:   "Grade against the ACT writing domains: ideas and analysis, development and support, organization, language use. Report a score between 0 and 100.",
	FamilyOther: "Grade the essay on content, structure, and grammar and style. Report a score between 0 and 100.",
}

// Rubric returns the short grading rubric text embedded in evaluator
// prompts for the family.
func (f Family) Rubric() string {
	if rubric, ok := rubrics[f]; ok {
		return rubric
	}
	return rubrics[FamilyOther]
}
