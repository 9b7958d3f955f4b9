package domain

// RiskLevel classifies the potential for harm of a command or operation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the stateless result of classifying one input.
type RiskAssessment struct {
	Level     RiskLevel `json:"level"`
	Rationale string    `json:"rationale"`
}

// MoreSevere reports whether next outranks current.
func MoreSevere(next, current RiskLevel) bool {
	order := map[RiskLevel]int{
		RiskLow:    0,
		RiskMedium: 1,
		RiskHigh:   2,
	}
	return order[next] > order[current]
}
