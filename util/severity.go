package util

// SeverityRating returns the CVSS v3 qualitative rating for a 0-10 score, lower-cased to
// match the registry's vulnerability levels. A zero score rates "none".
func SeverityRating(score float64) string {
	switch {
	case score == 0:
		return "none"
	case score < 4.0:
		return "low"
	case score < 7.0:
		return "medium"
	case score < 9.0:
		return "high"
	default:
		return "critical"
	}
}
