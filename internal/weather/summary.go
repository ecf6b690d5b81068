package weather

// RangeStats is the aggregate computed over a historical series.
//
// Min, max and average are independently nullable: min/max require at least
// one day with the respective bound, and the average requires at least one
// day with both bounds. The average is the mean of per-day midpoints
// (min+max)/2, not the mean of all highs and lows pooled together.
type RangeStats struct {
	Count   int      `json:"count"`
	MinTemp *float64 `json:"min_temp"`
	MaxTemp *float64 `json:"max_temp"`
	AvgTemp *float64 `json:"avg_temp"`
}

// Summarize aggregates a daily series into RangeStats. Count is the number of
// days in the series regardless of which fields each day carries.
func Summarize(series []ForecastDay) RangeStats {
	stats := RangeStats{Count: len(series)}

	var (
		minSet, maxSet bool
		minVal, maxVal float64
		midSum         float64
		midCount       int
	)

	for _, day := range series {
		if day.MinTemp != nil {
			if !minSet || *day.MinTemp < minVal {
				minVal = *day.MinTemp
			}
			minSet = true
		}
		if day.MaxTemp != nil {
			if !maxSet || *day.MaxTemp > maxVal {
				maxVal = *day.MaxTemp
			}
			maxSet = true
		}
		if day.MinTemp != nil && day.MaxTemp != nil {
			midSum += (*day.MinTemp + *day.MaxTemp) / 2
			midCount++
		}
	}

	if minSet {
		stats.MinTemp = &minVal
	}
	if maxSet {
		stats.MaxTemp = &maxVal
	}
	if midCount > 0 {
		avg := midSum / float64(midCount)
		stats.AvgTemp = &avg
	}
	return stats
}
