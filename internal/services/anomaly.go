package services

import "math"

// anomalyThreshold is the expense size above which a transaction is
// flagged as unusual.
const anomalyThreshold = 150.0

// DetectAnomaly flags unusually large expenses. The score scales
// linearly with the amount relative to the threshold; non-anomalous
// transactions score zero.
func DetectAnomaly(amount float64) (isAnomaly bool, score float64) {
	if amount < 0 && math.Abs(amount) > anomalyThreshold {
		return true, math.Abs(amount) / anomalyThreshold
	}
	return false, 0
}
