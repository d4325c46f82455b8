package timeseries

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

func TestNewLengthMismatch(t *testing.T) {
	_, err := New([]float64{1, 2}, []float64{1})
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestSortByTime(t *testing.T) {
	s, err := NewCensored(
		[]float64{3, 1, 2},
		[]float64{30, 10, 20},
		[]CensorKind{RightCensored, Uncensored, LeftCensored},
	)
	if err != nil {
		t.Fatal(err)
	}
	s.SortByTime()

	wantTimes := []float64{1, 2, 3}
	wantValues := []float64{10, 20, 30}
	wantCensor := []CensorKind{Uncensored, LeftCensored, RightCensored}
	for i := range wantTimes {
		if s.Times[i] != wantTimes[i] {
			t.Errorf("time %d: expected %v, got %v", i, wantTimes[i], s.Times[i])
		}
		if s.Values[i] != wantValues[i] {
			t.Errorf("value %d: expected %v, got %v", i, wantValues[i], s.Values[i])
		}
		if s.Censoring[i] != wantCensor[i] {
			t.Errorf("censor %d: expected %v, got %v", i, wantCensor[i], s.Censoring[i])
		}
	}
	if !s.IsSorted() {
		t.Error("sample should report sorted after SortByTime")
	}
}

func TestFromTimestamps(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.AddDate(0, 0, 10), base.AddDate(0, 0, 20)}
	s, err := FromTimestamps(stamps, []float64{1, 2, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasOrigin() {
		t.Fatal("expected wall-clock origin")
	}
	if s.Times[0] != 0 || s.Times[1] != 10 || s.Times[2] != 20 {
		t.Errorf("unexpected day axis: %v", s.Times)
	}
	if got := s.TimeAt(10); !got.Equal(stamps[1]) {
		t.Errorf("TimeAt(10) = %v, expected %v", got, stamps[1])
	}
}

func TestResample(t *testing.T) {
	n := 50
	times := make([]float64, n)
	values := make([]float64, n)
	for i := range times {
		times[i] = float64(i)
		values[i] = float64(i) * 2
	}
	s, _ := New(times, values)

	rng := rand.New(rand.NewPCG(1, 2))
	rs := s.Resample(rng)

	if rs.Len() != n {
		t.Fatalf("resample length %d, expected %d", rs.Len(), n)
	}
	if !rs.IsSorted() {
		t.Error("resample must be sorted by time")
	}
	for i := range rs.Times {
		if rs.Values[i] != rs.Times[i]*2 {
			t.Errorf("resampled pair broken at %d: t=%v y=%v", i, rs.Times[i], rs.Values[i])
		}
	}
}

func TestSliceAndCopy(t *testing.T) {
	s, _ := New([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	sub := s.Slice(1, 3)
	if sub.Len() != 2 || sub.Times[0] != 2 || sub.Values[1] != 30 {
		t.Errorf("unexpected slice: %+v", sub)
	}
	sub.Values[0] = 99
	if s.Values[1] == 99 {
		t.Error("slice must not alias the source")
	}

	empty := s.Slice(3, 1)
	if empty.Len() != 0 {
		t.Errorf("expected empty slice, got %d", empty.Len())
	}
}

func TestUncensoredCount(t *testing.T) {
	s, _ := NewCensored(
		[]float64{1, 2, 3},
		[]float64{1, 2, 3},
		[]CensorKind{Uncensored, LeftCensored, RightCensored},
	)
	if got := s.UncensoredCount(); got != 1 {
		t.Errorf("UncensoredCount = %d, expected 1", got)
	}
}

func TestCensorKindString(t *testing.T) {
	tests := []struct {
		kind CensorKind
		want string
	}{
		{Uncensored, "not"},
		{LeftCensored, "lt"},
		{RightCensored, "gt"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, expected %q", got, tt.want)
		}
	}
	if Uncensored.Censored() {
		t.Error("Uncensored must not report censored")
	}
	if !LeftCensored.Censored() {
		t.Error("LeftCensored must report censored")
	}
}

func TestMinMaxTimeEmpty(t *testing.T) {
	s := &Sample{}
	if !math.IsNaN(s.MinTime()) || !math.IsNaN(s.MaxTime()) {
		t.Error("empty sample should report NaN time bounds")
	}
}
