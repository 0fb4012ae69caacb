package report

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

//go:embed dashboard.html.tmpl
var templateFS embed.FS

const dashboardTemplate = "dashboard.html.tmpl"

var dashboard = template.Must(template.New(dashboardTemplate).Funcs(template.FuncMap{
	"fmt2":      func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"fmt0":      func(v float64) string { return thousands(int64(v + 0.5)) },
	"thousands": func(n int) string { return thousands(int64(n)) },
	"date":      func(t time.Time) string { return t.Format("02 Jan 2006") },
	"dayTypes":  func() []rental.DayTypeFilter { return dayTypeChoices },
	"season":    func(k string) string { return DisplayName(rental.BySeason, k) },
	"weather":   func(k string) string { return DisplayName(rental.ByWeather, k) },
	"hasYear":   hasYear,
	"has":       hasString,
}).ParseFS(templateFS, dashboardTemplate))

var dayTypeChoices = []rental.DayTypeFilter{rental.DayTypeAll, rental.DayTypeOnlyWeekday, rental.DayTypeOnlyWeekend}

type pageData struct {
	Report
	Query string
}

// ChartURL returns the image URL of a chart for the same selection.
func (p pageData) ChartURL(name string) template.URL {
	u := "/charts/" + url.PathEscape(name) + ".svg"
	if p.Query != "" {
		u += "?" + p.Query
	}
	return template.URL(u)
}

// ExportURL returns the workbook download URL for the same selection.
func (p pageData) ExportURL() template.URL {
	u := "/api/v1/report/export.xlsx"
	if p.Query != "" {
		u += "?" + p.Query
	}
	return template.URL(u)
}

// RenderHTML writes the dashboard page. query is the encoded facet query the
// page was requested with; it is carried over to chart and export links.
func RenderHTML(w io.Writer, rep Report, query url.Values) error {
	return dashboard.ExecuteTemplate(w, dashboardTemplate, pageData{Report: rep, Query: query.Encode()})
}

func hasYear(years []int, y int) bool {
	for _, v := range years {
		if v == y {
			return true
		}
	}
	return false
}

func hasString(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
