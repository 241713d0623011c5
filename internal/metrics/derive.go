package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NoData is how an average without data points is presented.
const NoData = "-"

// Minutes is a rounded average in minutes, or no data. Distinct from a real 0.
type Minutes struct {
	Value int64
	Valid bool
}

// MinutesOf rounds v to whole minutes.
func MinutesOf(v float64) Minutes {
	return Minutes{Value: int64(math.Round(v)), Valid: true}
}

// String returns the number, or "-" when there is no data.
func (m Minutes) String() string {
	if !m.Valid {
		return NoData
	}
	return strconv.FormatInt(m.Value, 10)
}

// MarshalJSON encodes a number, or "-" when there is no data.
func (m Minutes) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(NoData)
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or "-".
func (m *Minutes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == NoData || s == "" {
			*m = Minutes{}
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid minutes %q: %w", s, err)
		}
		*m = Minutes{Value: v, Valid: true}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Minutes{Value: v, Valid: true}
	return nil
}

// DerivedMetrics are the rate/average fields of a group.
type DerivedMetrics struct {
	ConversionRate         float64 `json:"conversionRate"` // percent, 0-100
	AvgTransactionUnit     float64 `json:"avgTransactionUnit"`
	AvgTransactionValue    float64 `json:"avgTransactionValue"`
	AvgAckMinutes          Minutes `json:"avgAckMinutes"`
	AvgHandlingMinutes     Minutes `json:"avgHandlingMinutes"`
	AvgNonQuotationMinutes Minutes `json:"avgNonQuotationMinutes"`
}

// Derive computes rates and averages from the accumulated totals.
// All divisions are guarded; no NaN or Inf reaches the output.
func Derive(acc GroupAccumulator) DerivedMetrics {
	return DerivedMetrics{
		ConversionRate:         ratio(float64(acc.ConvertedCount), float64(acc.SalesCount)) * 100,
		AvgTransactionUnit:     ratio(acc.QtySold, float64(acc.ConvertedCount)),
		AvgTransactionValue:    ratio(acc.Amount, float64(acc.ConvertedCount)),
		AvgAckMinutes:          acc.Ack.Average(),
		AvgHandlingMinutes:     acc.Handling.Average(),
		AvgNonQuotationMinutes: acc.NonQuotation.Average(),
	}
}

// FormatPercent renders a percentage with two decimals, e.g. "30.00%".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%.2f%%", v)
}
