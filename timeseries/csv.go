package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimeColumn   string // Column name for times or dates (default: "t")
	ValueColumn  string // Column name for values (default: "y")
	CensorColumn string // Column name for censor marks "lt"/"gt" (optional)
	DateFormat   string // Date format when the time column holds dates (default: "2006-01-02")
	HasHeader    bool   // Whether CSV has a header row (default: true)
	Delimiter    rune   // Field delimiter (default: ',')
	SkipRows     int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeColumn:  "t",
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a sample from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Sample, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a sample from an io.Reader.
//
// The time column may hold either plain numbers or dates in DateFormat;
// with dates the sample carries a wall-clock origin. Censor marks come
// from a dedicated column: "lt" (below limit), "gt" (above limit), empty
// or "not" for uncensored. Without a header the columns are positional:
// time, value, then an optional third column of censor marks. Rows with
// unparseable values are skipped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Sample, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	// Headerless files are positional; a third column, when present,
	// holds the censor marks.
	timeIdx, valueIdx, censorIdx := 0, 1, 2

	if opts.HasHeader {
		censorIdx = -1
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		timeIdx, valueIdx = -1, -1
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.TimeColumn || h == "ds" || h == "date" || h == "time":
				if timeIdx == -1 {
					timeIdx = i
				}
			case h == opts.ValueColumn || h == "value" || h == "Value":
				if valueIdx == -1 {
					valueIdx = i
				}
			case opts.CensorColumn != "" && h == opts.CensorColumn:
				censorIdx = i
			case h == "censor" || h == "censored":
				if censorIdx == -1 && opts.CensorColumn == "" {
					censorIdx = i
				}
			}
		}
		if valueIdx == -1 {
			valueIdx = len(header) - 1
		}
		if timeIdx == -1 {
			timeIdx = 0
		}
	}

	var (
		times      []float64
		timestamps []time.Time
		values     []float64
		censoring  []CensorKind
	)
	numericTimes := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if valueIdx >= len(record) || timeIdx >= len(record) {
			continue
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}

		timeStr := strings.TrimSpace(strings.Trim(record[timeIdx], "\""))
		tNum, numErr := strconv.ParseFloat(timeStr, 64)
		var ts time.Time
		if numErr != nil {
			ts, err = time.Parse(opts.DateFormat, timeStr)
			if err != nil {
				continue
			}
			numericTimes = false
		}

		censor := Uncensored
		if censorIdx >= 0 && censorIdx < len(record) {
			switch strings.TrimSpace(strings.Trim(record[censorIdx], "\"")) {
			case "lt", "LT", "<":
				censor = LeftCensored
			case "gt", "GT", ">":
				censor = RightCensored
			}
		}

		values = append(values, val)
		censoring = append(censoring, censor)
		if numErr == nil {
			times = append(times, tNum)
		} else {
			timestamps = append(timestamps, ts)
		}
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	if numericTimes && len(times) == len(values) {
		s, err := NewCensored(times, values, censoring)
		if err != nil {
			return nil, err
		}
		s.SortByTime()
		return s, nil
	}
	if len(timestamps) != len(values) {
		return nil, errors.New("mixed numeric and date time values in CSV")
	}
	s, err := FromTimestamps(timestamps, values, censoring)
	if err != nil {
		return nil, err
	}
	s.SortByTime()
	return s, nil
}

// SaveCSV saves a sample to a CSV file with columns t,y,censor.
func SaveCSV(sample *Sample, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	writer.WriteString("t,y,censor\n")
	for i, v := range sample.Values {
		if sample.HasOrigin() {
			writer.WriteString(sample.TimeAt(sample.Times[i]).Format("2006-01-02"))
		} else {
			writer.WriteString(strconv.FormatFloat(sample.Times[i], 'f', -1, 64))
		}
		writer.WriteString(",")
		writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		writer.WriteString(",")
		if sample.Censoring[i].Censored() {
			writer.WriteString(sample.Censoring[i].String())
		}
		writer.WriteString("\n")
	}

	return nil
}
