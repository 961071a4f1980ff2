package compliance

import (
	"fmt"
	"strings"
)

// Verdict is the outcome of evaluating one portfolio against a rule set
type Verdict struct {
	Status   string
	Findings string
	// KnownRegulation is false when no rule set exists for the regulation
	// type. The verdict is still COMPLIANT, but callers should surface the
	// gap rather than treat it as a clean pass.
	KnownRegulation bool
}

// Evaluate applies the regulation rule set to a portfolio's allocation
// percentages. Rules are ordered; the first match wins and only one
// violation is ever reported. The regulation type match is
// case-insensitive, and an empty type falls back to DefaultRegulationType.
//
// Evaluate is pure: callers are responsible for refusing portfolios with
// unknown (absent) percentages before calling it - a missing percentage is
// not zero.
func Evaluate(equity, bond, derivative float64, regulationType string) Verdict {
	if regulationType == "" {
		regulationType = DefaultRegulationType
	}

	switch {
	case strings.EqualFold(regulationType, "SEBI"):
		return evaluateSEBI(bond, derivative)
	case strings.EqualFold(regulationType, "MiFID II"):
		return evaluateMiFID(equity, derivative)
	default:
		return Verdict{
			Status:          StatusCompliant,
			Findings:        fmt.Sprintf("no rules defined for regulation type %q", regulationType),
			KnownRegulation: false,
		}
	}
}

func evaluateSEBI(bond, derivative float64) Verdict {
	switch {
	case derivative > bond:
		return nonCompliant("derivative risk exceeds bond coverage")
	case derivative > 50:
		return nonCompliant("derivatives exceed the 50% regulatory cap")
	case bond < 10:
		return nonCompliant("insufficient liquidity; bonds must be at least 10%")
	default:
		return compliant()
	}
}

func evaluateMiFID(equity, derivative float64) Verdict {
	switch {
	case derivative > equity:
		return nonCompliant("speculative allocation (derivatives exceed equity)")
	case equity+derivative > 80:
		return nonCompliant("high-risk allocation exceeds 80% of portfolio")
	default:
		return compliant()
	}
}

func compliant() Verdict {
	return Verdict{
		Status:          StatusCompliant,
		Findings:        "no violations detected",
		KnownRegulation: true,
	}
}

func nonCompliant(findings string) Verdict {
	return Verdict{
		Status:          StatusNonCompliant,
		Findings:        findings,
		KnownRegulation: true,
	}
}
