package timeseries

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

// CensorKind marks how an observation's value is to be interpreted.
type CensorKind int

const (
	// Uncensored means Value is the measured quantity.
	Uncensored CensorKind = iota
	// LeftCensored means the true value lies below Value (a detection limit).
	LeftCensored
	// RightCensored means the true value lies above Value (a reporting limit).
	RightCensored
)

// Censored reports whether the kind is anything other than Uncensored.
func (c CensorKind) Censored() bool {
	return c != Uncensored
}

// String returns the conventional short tag for the censor kind.
func (c CensorKind) String() string {
	switch c {
	case LeftCensored:
		return "lt"
	case RightCensored:
		return "gt"
	default:
		return "not"
	}
}

// Sample represents an ordered set of possibly censored observations on a
// numeric time axis. Times, Values and Censoring are parallel slices.
// For censored observations Values holds the detection limit.
//
// All segmentation algorithms require the sample sorted ascending by time;
// SortByTime establishes that order. Ties in time are permitted.
type Sample struct {
	Times     []float64
	Values    []float64
	Censoring []CensorKind

	// origin, when set, maps the numeric time axis back to wall-clock
	// time: Times[i] is days since origin.
	origin    time.Time
	hasOrigin bool
}

// New creates an uncensored sample from parallel time and value slices.
func New(times, values []float64) (*Sample, error) {
	if len(times) != len(values) {
		return nil, errors.New("times and values must have the same length")
	}
	return &Sample{
		Times:     times,
		Values:    values,
		Censoring: make([]CensorKind, len(values)),
	}, nil
}

// NewCensored creates a sample with explicit censoring marks.
func NewCensored(times, values []float64, censoring []CensorKind) (*Sample, error) {
	if len(times) != len(values) || len(times) != len(censoring) {
		return nil, errors.New("times, values and censoring must have the same length")
	}
	return &Sample{Times: times, Values: values, Censoring: censoring}, nil
}

// FromTimestamps creates a sample from wall-clock timestamps. The numeric
// time axis is days since the first timestamp, and the sample remembers the
// origin so results can be mapped back via TimeAt.
func FromTimestamps(timestamps []time.Time, values []float64, censoring []CensorKind) (*Sample, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	if censoring == nil {
		censoring = make([]CensorKind, len(values))
	}
	if len(censoring) != len(values) {
		return nil, errors.New("censoring must match values in length")
	}
	if len(timestamps) == 0 {
		return &Sample{}, nil
	}
	origin := timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts.Before(origin) {
			origin = ts
		}
	}
	times := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		times[i] = ts.Sub(origin).Hours() / 24
	}
	return &Sample{
		Times:     times,
		Values:    values,
		Censoring: censoring,
		origin:    origin,
		hasOrigin: true,
	}, nil
}

// HasOrigin reports whether the sample carries a wall-clock origin.
func (s *Sample) HasOrigin() bool { return s.hasOrigin }

// TimeAt converts a numeric time-axis position back to wall-clock time.
// Only meaningful when HasOrigin is true.
func (s *Sample) TimeAt(t float64) time.Time {
	return s.origin.Add(time.Duration(t * 24 * float64(time.Hour)))
}

// Len returns the number of observations.
func (s *Sample) Len() int { return len(s.Values) }

// MinTime returns the earliest observation time.
func (s *Sample) MinTime() float64 {
	if len(s.Times) == 0 {
		return math.NaN()
	}
	return s.Times[0]
}

// MaxTime returns the latest observation time.
func (s *Sample) MaxTime() float64 {
	if len(s.Times) == 0 {
		return math.NaN()
	}
	return s.Times[len(s.Times)-1]
}

// UncensoredCount returns the number of uncensored observations.
func (s *Sample) UncensoredCount() int {
	n := 0
	for _, c := range s.Censoring {
		if !c.Censored() {
			n++
		}
	}
	return n
}

// SortByTime sorts the observations ascending by time, keeping the three
// parallel slices aligned. Sorting is stable so tied times keep their
// input order.
func (s *Sample) SortByTime() {
	idx := make([]int, len(s.Times))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Times[idx[a]] < s.Times[idx[b]]
	})
	times := make([]float64, len(s.Times))
	values := make([]float64, len(s.Values))
	censoring := make([]CensorKind, len(s.Censoring))
	for i, j := range idx {
		times[i] = s.Times[j]
		values[i] = s.Values[j]
		censoring[i] = s.Censoring[j]
	}
	s.Times = times
	s.Values = values
	s.Censoring = censoring
}

// IsSorted reports whether the sample is already ascending by time.
func (s *Sample) IsSorted() bool {
	return sort.Float64sAreSorted(s.Times)
}

// Slice returns a copy of the observations in [start, end) by index.
func (s *Sample) Slice(start, end int) *Sample {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Sample{origin: s.origin, hasOrigin: s.hasOrigin}
	}
	out := &Sample{
		Times:     append([]float64(nil), s.Times[start:end]...),
		Values:    append([]float64(nil), s.Values[start:end]...),
		Censoring: append([]CensorKind(nil), s.Censoring[start:end]...),
		origin:    s.origin,
		hasOrigin: s.hasOrigin,
	}
	return out
}

// Copy creates a deep copy of the sample.
func (s *Sample) Copy() *Sample {
	return s.Slice(0, len(s.Values))
}

// Resample draws a pairs bootstrap resample of the same size (observations
// drawn with replacement) and returns it sorted by time.
func (s *Sample) Resample(rng *rand.Rand) *Sample {
	n := len(s.Values)
	out := &Sample{
		Times:     make([]float64, n),
		Values:    make([]float64, n),
		Censoring: make([]CensorKind, n),
		origin:    s.origin,
		hasOrigin: s.hasOrigin,
	}
	for i := 0; i < n; i++ {
		j := rng.IntN(n)
		out.Times[i] = s.Times[j]
		out.Values[i] = s.Values[j]
		out.Censoring[i] = s.Censoring[j]
	}
	out.SortByTime()
	return out
}

// WithValues returns a copy of the sample with the values replaced.
// Times, censoring and origin are shared-by-copy from the receiver.
func (s *Sample) WithValues(values []float64) (*Sample, error) {
	if len(values) != len(s.Values) {
		return nil, errors.New("replacement values must match sample length")
	}
	out := s.Copy()
	copy(out.Values, values)
	return out, nil
}
