// Package timeseries provides observation containers for segmented trend
// analysis.
//
// The central type is Sample: parallel slices of times, values, and censor
// marks. Censored observations carry their detection limit in Values and a
// CensorKind mark telling whether the true value lies below (LeftCensored)
// or above (RightCensored) that limit.
//
// # Creating a Sample
//
// From numeric times:
//
//	sample, err := timeseries.New(times, values)
//
// With censoring marks:
//
//	sample, err := timeseries.NewCensored(times, values, censoring)
//
// From wall-clock timestamps (the numeric axis becomes days since the
// earliest timestamp, and breakpoints can be mapped back via TimeAt):
//
//	sample, err := timeseries.FromTimestamps(timestamps, values, nil)
//
// # Ordering
//
// All segmentation algorithms require the sample sorted ascending by time:
//
//	sample.SortByTime()
//
// Ties in time are permitted and are not merged.
//
// # Loading from CSV
//
// Load (time, value, censor) rows from a CSV file:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.CensorColumn = "censor"
//	sample, err := timeseries.LoadCSV("data.csv", opts)
//
// The censor column holds "lt" or "gt" marks; value parsing itself is
// always plain numeric.
package timeseries
