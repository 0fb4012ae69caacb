package httpapi

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
	"github.com/i474232898/bikeshare-dashboard/internal/report"
	"github.com/i474232898/bikeshare-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *rental.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		snap, err := render(c, service)
		if err != nil {
			return err
		}

		c.Type("html", "utf-8")
		return report.RenderHTML(c, report.Build(snap), rawQuery(c))
	})

	app.Get("/charts/:name.svg", func(c *fiber.Ctx) error {
		snap, err := render(c, service)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "image/svg+xml")
		if err := report.Chart(c, report.Build(snap), c.Params("name")); err != nil {
			if errors.Is(err, report.ErrUnknownChart) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
		}
		return nil
	})

	v1 := app.Group("/api/v1")

	v1.Get("/dataset", func(c *fiber.Ctx) error {
		t, err := service.Table()
		if err != nil {
			return mapError(err)
		}

		c.Set(fiber.HeaderETag, etag(t.ID))
		return c.JSON(fiber.Map{
			"table":       t.Info(),
			"period":      t.Period,
			"options":     t.Options,
			"diagnostics": t.Diagnostics,
			"dimensions":  rental.Dimensions,
			"history":     service.History(),
		})
	})

	v1.Get("/report", func(c *fiber.Ctx) error {
		snap, err := render(c, service)
		if err != nil {
			return err
		}
		return c.JSON(report.Build(snap))
	})

	v1.Get("/report/export.xlsx", func(c *fiber.Ctx) error {
		snap, err := render(c, service)
		if err != nil {
			return err
		}

		c.Attachment("bikeshare-report.xlsx")
		if err := report.WriteXLSX(c, report.Build(snap), snap.View.Records()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to export report")
		}
		return nil
	})

	v1.Get("/records", func(c *fiber.Ctx) error {
		snap, err := render(c, service)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"table_id":  snap.TableID,
			"selection": snap.Selection,
			"summary":   snap.Summary,
			"records":   snap.View.Records(),
		})
	})

	v1.Get("/breakdown/:dimension", func(c *fiber.Ctx) error {
		dim, err := rental.ParseDimension(c.Params("dimension"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		snap, err := render(c, service)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"table_id":  snap.TableID,
			"dimension": dim,
			"selection": snap.Selection,
			"groups":    rental.GroupBy(snap.View, dim),
		})
	})

	v1.Get("/distribution/:dimension", func(c *fiber.Ctx) error {
		dim, err := rental.ParseDimension(c.Params("dimension"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		snap, err := render(c, service)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"table_id":      snap.TableID,
			"dimension":     dim,
			"selection":     snap.Selection,
			"distributions": rental.DistributionBy(snap.View, dim),
		})
	})
}

// render parses the facet query and applies it to the current table.
func render(c *fiber.Ctx, service *rental.Service) (rental.Snapshot, error) {
	t, err := service.Table()
	if err != nil {
		return rental.Snapshot{}, mapError(err)
	}

	sel, err := parseSelection(c, t)
	if err != nil {
		return rental.Snapshot{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snap, err := service.Render(sel)
	if err != nil {
		return rental.Snapshot{}, mapError(err)
	}

	c.Set(fiber.HeaderETag, etag(snap.TableID))
	return snap, nil
}

func mapError(err error) error {
	if errors.Is(err, store.ErrNotLoaded) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "dataset not loaded yet")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read dataset")
}

func etag(id string) string {
	return `"` + id + `"`
}

// facetQuery holds the facet query parameters.
type facetQuery struct {
	Years   []int    `validate:"dive,gte=1,lte=9999"`
	Seasons []string `validate:"dive,max=64"`
	Weather []string `validate:"dive,max=64"`
	DayType string   `validate:"omitempty,oneof=all weekday weekend"`
}

// parseSelection reads the facets from the query string. An absent facet
// keeps its default of every option; a facet present with no values selects
// nothing. List facets may repeat or be comma separated.
func parseSelection(c *fiber.Ctx, t *rental.Table) (rental.Selection, error) {
	sel := rental.DefaultSelection(t)
	var q facetQuery

	if values, ok := queryList(c, "year"); ok {
		q.Years = make([]int, 0, len(values))
		for _, v := range values {
			y, err := strconv.Atoi(v)
			if err != nil {
				return sel, errors.New("year must be an integer")
			}
			q.Years = append(q.Years, y)
		}
		sel.Years = q.Years
	}
	if values, ok := queryList(c, "season"); ok {
		q.Seasons = values
		sel.Seasons = values
	}
	if values, ok := queryList(c, "weather"); ok {
		q.Weather = values
		sel.Weather = values
	}
	q.DayType = strings.ToLower(strings.TrimSpace(c.Query("day_type")))

	if err := validate.Struct(q); err != nil {
		return sel, err
	}

	dayType, err := rental.ParseDayTypeFilter(q.DayType)
	if err != nil {
		return sel, err
	}
	sel.DayType = dayType

	return sel, nil
}

// queryList collects every value of a repeatable, comma separated parameter.
// ok is false when the parameter is absent.
func queryList(c *fiber.Ctx, name string) ([]string, bool) {
	args := c.Context().QueryArgs()
	if !args.Has(name) {
		return nil, false
	}

	values := []string{}
	for _, raw := range args.PeekMulti(name) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values, true
}

func rawQuery(c *fiber.Ctx) url.Values {
	q := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		q.Add(string(key), string(value))
	})
	return q
}
