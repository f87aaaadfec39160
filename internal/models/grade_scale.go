package models

import "fmt"

// GradeScale holds the minimum percentage for each letter grade. Anything
// below DMin is an F. Thresholds must be strictly descending.
type GradeScale struct {
	AMin int `json:"a_min" db:"a_min"`
	BMin int `json:"b_min" db:"b_min"`
	CMin int `json:"c_min" db:"c_min"`
	DMin int `json:"d_min" db:"d_min"`
}

// DefaultGradeScale returns the scale used until the teacher customizes it.
func DefaultGradeScale() GradeScale {
	return GradeScale{AMin: 90, BMin: 80, CMin: 70, DMin: 60}
}

// Validate enforces A > B > C > D >= 0.
func (s GradeScale) Validate() error {
	if !(s.AMin > s.BMin && s.BMin > s.CMin && s.CMin > s.DMin) {
		return fmt.Errorf("thresholds must be strictly descending: A > B > C > D")
	}
	if s.DMin < 0 {
		return fmt.Errorf("D threshold must not be negative")
	}
	return nil
}

// Letter maps a percentage onto the scale, first threshold met wins.
func (s GradeScale) Letter(percentage float64) string {
	switch {
	case percentage >= float64(s.AMin):
		return "A"
	case percentage >= float64(s.BMin):
		return "B"
	case percentage >= float64(s.CMin):
		return "C"
	case percentage >= float64(s.DMin):
		return "D"
	default:
		return "F"
	}
}
