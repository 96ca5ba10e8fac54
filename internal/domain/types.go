// Package domain contains core business entities and types for pedigree-based
// genetic risk estimation.
//
// Risk formulas follow simplified Mendelian and multifactorial inheritance
// models: autosomal dominant, autosomal recessive, X-linked, and
// multifactorial (family loading with age adjustment). They are teaching
// approximations, not clinical-grade statistical genetics.
package domain

import "errors"

// DiseaseType represents the inheritance model that governs which risk
// formula applies to a disease.
type DiseaseType string

const (
	Dominant       DiseaseType = "dominant"
	Recessive      DiseaseType = "recessive"
	XLinked        DiseaseType = "x-linked"
	Multifactorial DiseaseType = "multifactorial"
)

// Gender represents the biological sex used for X-linked inheritance.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// RiskLevel buckets a risk score for summary statistics and reporting.
type RiskLevel string

const (
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
)

// Risk-level thresholds. Scores at or above HighRiskThreshold are high,
// scores in [ModerateRiskThreshold, HighRiskThreshold) are moderate.
const (
	HighRiskThreshold     = 0.7
	ModerateRiskThreshold = 0.3
)

// Validation errors for pedigree data integrity.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidDiseaseType = errors.New("invalid disease inheritance type")
	ErrInvalidGender      = errors.New("invalid gender")
	ErrInvalidPrevalence  = errors.New("prevalence must be in [0, 1]")
	ErrInvalidPenetrance  = errors.New("penetrance must be in [0, 1]")
)

// IsValid reports whether the disease type is one of the four supported
// inheritance models. Unknown types are still accepted by the risk engine,
// which falls back to population prevalence.
func (t DiseaseType) IsValid() bool {
	switch t {
	case Dominant, Recessive, XLinked, Multifactorial:
		return true
	default:
		return false
	}
}

// String returns the string representation of the disease type.
func (t DiseaseType) String() string {
	return string(t)
}

// Pattern returns the display label for the inheritance pattern, as shown
// in risk records and counseling prompts.
func (t DiseaseType) Pattern() string {
	switch t {
	case Dominant:
		return "Autosomal Dominant"
	case Recessive:
		return "Autosomal Recessive"
	case XLinked:
		return "X-linked"
	case Multifactorial:
		return "Multifactorial"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the gender is one of the supported values.
func (g Gender) IsValid() bool {
	switch g {
	case Male, Female:
		return true
	default:
		return false
	}
}

// String returns the string representation of the gender.
func (g Gender) String() string {
	return string(g)
}

// LevelOf buckets a risk score into high, moderate, or low.
func LevelOf(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= ModerateRiskThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}
