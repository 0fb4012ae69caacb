package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
	"github.com/i474232898/bikeshare-dashboard/internal/store"
)

const testCSV = `date,year,season,weather_condition,day_type,weekday,temperature,humidity,casual,registered,count
2011-01-01,2011,spring,clear,weekend,saturday,0.10,0.80,300,700,1000
2011-01-03,2011,spring,mist,weekday,monday,0.15,0.50,100,1900,2000
2011-04-04,2011,summer,clear,weekday,monday,0.55,0.40,500,3500,4000
2011-07-10,2011,fall,clear,weekend,sunday,0.75,0.30,1500,4500,6000
2011-10-12,2011,winter,light rain,weekday,wednesday,0.35,0.90,50,950,1000
2012-04-07,2012,summer,mist,weekend,saturday,0.60,0.60,1200,3800,5000
2012-07-11,2012,fall,clear,weekday,wednesday,0.72,0.45,900,6100,7000
2012-12-31,2012,winter,mist,weekday,monday,0.25,0.70,200,2800,3000
`

type staticSource struct {
	data string
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Fetch(context.Context) ([]byte, error) {
	return []byte(s.data), nil
}

func newTestApp(t *testing.T, load bool) (*fiber.App, *rental.Service) {
	t.Helper()

	svc := rental.NewService(store.NewMemoryStore(5), staticSource{data: testCSV})
	if load {
		if _, err := svc.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
	}

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app, svc
}

func doGet(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

type recordsResponse struct {
	TableID string          `json:"table_id"`
	Summary rental.Summary  `json:"summary"`
	Records []rental.Record `json:"records"`
}

func getRecords(t *testing.T, app *fiber.App, query string) recordsResponse {
	t.Helper()

	resp, body := doGet(t, app, "/api/v1/records"+query)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET records%s: status %d: %s", query, resp.StatusCode, body)
	}
	var out recordsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestNotLoadedReturnsServiceUnavailable(t *testing.T) {
	app, _ := newTestApp(t, false)

	for _, target := range []string{"/", "/api/v1/dataset", "/api/v1/report", "/charts/season-mean.svg"} {
		resp, _ := doGet(t, app, target)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("GET %s: expected status %d, got %d", target, http.StatusServiceUnavailable, resp.StatusCode)
		}
	}
}

func TestFacetSelection(t *testing.T) {
	app, _ := newTestApp(t, true)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"absent facets select everything", "", 8},
		{"single year", "?year=2012", 3},
		{"repeated values", "?season=spring&season=fall", 4},
		{"comma separated values", "?season=spring,fall", 4},
		{"weather alias spelling", "?weather=Light-Rain", 1},
		{"day type is case insensitive", "?day_type=WEEKEND", 3},
		{"facets combine", "?year=2011&weather=clear&day_type=Weekday", 1},
		{"empty season selects nothing", "?season=", 0},
		{"hidden empty field plus values", "?season=&season=summer", 2},
		{"unknown value selects nothing", "?weather=snow", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getRecords(t, app, tt.query)
			if len(got.Records) != tt.want {
				t.Fatalf("expected %d records, got %d", tt.want, len(got.Records))
			}
			if got.Summary.Days != tt.want {
				t.Fatalf("summary days = %d, want %d", got.Summary.Days, tt.want)
			}
		})
	}
}

func TestEmptySelectionSummaryIsZero(t *testing.T) {
	app, _ := newTestApp(t, true)

	got := getRecords(t, app, "?year=")
	if got.Summary != (rental.Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got.Summary)
	}
}

func TestInvalidFacetsReturnBadRequest(t *testing.T) {
	app, _ := newTestApp(t, true)

	for _, query := range []string{"?day_type=holiday", "?year=twenty", "?year=-4"} {
		resp, _ := doGet(t, app, "/api/v1/records"+query)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", query, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestBreakdownKeepsDisplayOrder(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, body := doGet(t, app, "/api/v1/breakdown/season")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		Groups []rental.Group `json:"groups"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var keys []string
	for _, g := range out.Groups {
		keys = append(keys, g.Key)
	}
	if got := strings.Join(keys, ","); got != "spring,summer,fall,winter" {
		t.Fatalf("unexpected order %q", got)
	}
	if out.Groups[2].Count.Mean != 6500 {
		t.Fatalf("fall mean = %v, want 6500", out.Groups[2].Count.Mean)
	}
}

func TestUnknownDimensionAndChartReturnNotFound(t *testing.T) {
	app, _ := newTestApp(t, true)

	for _, target := range []string{"/api/v1/breakdown/colour", "/api/v1/distribution/colour", "/charts/pie.svg"} {
		resp, _ := doGet(t, app, target)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s: expected status %d, got %d", target, http.StatusNotFound, resp.StatusCode)
		}
	}
}

func TestChartsRenderSVG(t *testing.T) {
	app, _ := newTestApp(t, true)

	for _, target := range []string{
		"/charts/season-mean.svg",
		"/charts/weather-users.svg",
		"/charts/segment-days.svg",
		"/charts/season-mean.svg?season=",
		"/charts/weather-users.svg?weather=",
	} {
		resp, body := doGet(t, app, target)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d: %s", target, resp.StatusCode, body)
		}
		if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/svg+xml" {
			t.Errorf("GET %s: content type %q", target, ct)
		}
		if !strings.Contains(string(body), "<svg") {
			t.Errorf("GET %s: body is not an SVG document", target)
		}
	}
}

func TestDashboardPage(t *testing.T) {
	app, svc := newTestApp(t, true)

	resp, body := doGet(t, app, "/?season=summer")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{"Bike Sharing", "/charts/season-mean.svg?", "RFM segment detail"} {
		if !strings.Contains(page, want) {
			t.Errorf("page does not contain %q", want)
		}
	}

	tbl, err := svc.Table()
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if got := resp.Header.Get(fiber.HeaderETag); got != `"`+tbl.ID+`"` {
		t.Errorf("ETag = %q, want table id %q", got, tbl.ID)
	}
}

func TestExportWorkbook(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, body := doGet(t, app, "/api/v1/report/export.xlsx?year=2011")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if !strings.HasPrefix(string(body), "PK") {
		t.Fatal("workbook is not a zip archive")
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, "bikeshare-report.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

func TestDatasetInfo(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, body := doGet(t, app, "/api/v1/dataset")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		Table   rental.LoadInfo     `json:"table"`
		Options rental.FacetOptions `json:"options"`
		History []rental.LoadInfo   `json:"history"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Table.Rows != 8 {
		t.Errorf("rows = %d, want 8", out.Table.Rows)
	}
	if len(out.Options.Years) != 2 || out.Options.Years[0] != 2011 {
		t.Errorf("unexpected years %v", out.Options.Years)
	}
	if len(out.History) != 1 {
		t.Errorf("history length = %d, want 1", len(out.History))
	}
}
