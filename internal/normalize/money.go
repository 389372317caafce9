package normalize

import "github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"

// Amount returns the yen amount for a line. Input files may leave the amount
// at zero and carry points only; the amount is then derived at the fixed
// point value. A non-zero amount is passed through for validation to check.
func Amount(points, amount int64) int64 {
	if amount == 0 {
		return points * model.PointValue
	}
	return amount
}
