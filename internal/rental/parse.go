package rental

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingColumn is returned when a required CSV column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidRecord is returned when a row fails parsing or validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrEmptyTable is returned when the dataset has no rows.
	ErrEmptyTable = errors.New("dataset has no rows")
)

// Column names of the input file.
const (
	ColDate        = "date"
	ColYear        = "year"
	ColSeason      = "season"
	ColWeather     = "weather_condition"
	ColDayType     = "day_type"
	ColWeekday     = "weekday"
	ColTemperature = "temperature"
	ColHumidity    = "humidity"
	ColCasual      = "casual"
	ColRegistered  = "registered"
	ColCount       = "count"
)

var requiredColumns = []string{
	ColDate, ColYear, ColSeason, ColWeather, ColDayType, ColWeekday,
	ColTemperature, ColHumidity, ColCasual, ColRegistered, ColCount,
}

// columnAliases maps spellings found in the cleaned source data onto canonical names.
var columnAliases = map[string]string{
	"dateday":  ColDate,
	"humadity": ColHumidity,
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "1/2/2006", time.RFC3339}

var validate = validator.New()

// csvRow carries the validation rules of a single input line.
type csvRow struct {
	Year        int     `validate:"gt=0"`
	Season      string  `validate:"required"`
	Weather     string  `validate:"required"`
	DayType     string  `validate:"required"`
	Weekday     string  `validate:"required"`
	Temperature float64 `validate:"gte=0,lte=1"`
	Humidity    float64 `validate:"gte=0,lte=1"`
	Casual      int     `validate:"gte=0"`
	Registered  int     `validate:"gte=0"`
	Count       int     `validate:"gte=0"`
}

// ParseCSV reads daily records from a CSV stream with a header row.
// Rows are validated; the first problem found aborts the parse.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}
	reader.FieldsPerRecord = len(header)

	var (
		records []Record
		seen    = make(map[time.Time]int)
	)
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}

		rec, err := parseRow(fields, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}
		if prev, dup := seen[rec.Date]; dup {
			return nil, fmt.Errorf("%w: line %d: date %s already seen on line %d",
				ErrInvalidRecord, line, rec.Date.Format("2006-01-02"), prev)
		}
		seen[rec.Date] = line
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(fields []string, index map[string]int) (Record, error) {
	get := func(col string) string {
		return strings.TrimSpace(fields[index[col]])
	}

	date, err := parseDate(get(ColDate))
	if err != nil {
		return Record{}, err
	}

	var row csvRow
	var convErr error
	atoi := func(col string) int {
		if convErr != nil {
			return 0
		}
		n, err := strconv.Atoi(get(col))
		if err != nil {
			convErr = fmt.Errorf("%s: %q is not an integer", col, get(col))
		}
		return n
	}
	atof := func(col string) float64 {
		if convErr != nil {
			return 0
		}
		f, err := strconv.ParseFloat(get(col), 64)
		if err != nil {
			convErr = fmt.Errorf("%s: %q is not a number", col, get(col))
		}
		return f
	}

	row.Year = atoi(ColYear)
	row.Season = get(ColSeason)
	row.Weather = get(ColWeather)
	row.DayType = get(ColDayType)
	row.Weekday = get(ColWeekday)
	row.Temperature = atof(ColTemperature)
	row.Humidity = atof(ColHumidity)
	row.Casual = atoi(ColCasual)
	row.Registered = atoi(ColRegistered)
	row.Count = atoi(ColCount)
	if convErr != nil {
		return Record{}, convErr
	}

	if err := validate.Struct(row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Record{}, fmt.Errorf("%s: value %v fails %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
		}
		return Record{}, err
	}
	if row.Count != row.Casual+row.Registered {
		return Record{}, fmt.Errorf("count %d != casual %d + registered %d", row.Count, row.Casual, row.Registered)
	}

	return Record{
		Date:        date,
		Year:        row.Year,
		Season:      canonical(row.Season, SeasonOrder),
		Weather:     canonical(row.Weather, WeatherOrder),
		DayType:     canonical(row.DayType, DayTypeOrder),
		Weekday:     canonical(row.Weekday, WeekdayOrder),
		Temperature: row.Temperature,
		Humidity:    row.Humidity,
		Casual:      row.Casual,
		Registered:  row.Registered,
		Count:       row.Count,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("date: %q is not a recognized date", s)
}
