package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherdash/weatherdash/internal/dashboard"
	"github.com/weatherdash/weatherdash/internal/httpx"
	"github.com/weatherdash/weatherdash/internal/records"
	"github.com/weatherdash/weatherdash/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the dashboard operations into the Fiber app. The
// gateway owns a single dashboard session; the routes are a thin surface over
// its orchestrators.
func RegisterRoutes(app *fiber.App, session *dashboard.Session) {
	v1 := app.Group("/api/v1")

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(session.Search(c.Context(), req.Query))
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		unit := weather.UnitCelsius
		if strings.EqualFold(c.Query("units"), string(weather.UnitFahrenheit)) {
			unit = weather.UnitFahrenheit
		}

		resp := searchResponse{SearchView: session.SearchView()}
		if display, ok := session.CurrentDisplay(unit); ok {
			resp.Display = &display
		}
		return c.JSON(resp)
	})

	v1.Post("/range", func(c *fiber.Ctx) error {
		var req rangeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(session.FetchRange(c.Context(), req.StartDate, req.EndDate))
	})

	v1.Get("/range", func(c *fiber.Ctx) error {
		return c.JSON(session.RangeView())
	})

	v1.Post("/range/save", func(c *fiber.Ctx) error {
		session.SaveRange(c.Context())
		return c.JSON(fiber.Map{"message": session.StatusMessage()})
	})

	v1.Post("/save/location", func(c *fiber.Ctx) error {
		session.SaveCurrentLocation(c.Context())
		return c.JSON(fiber.Map{"message": session.StatusMessage()})
	})

	v1.Post("/save/weather", func(c *fiber.Ctx) error {
		session.SaveCurrentWeather(c.Context())
		return c.JSON(fiber.Map{"message": session.StatusMessage()})
	})

	v1.Get("/records", func(c *fiber.Ctx) error {
		return c.JSON(session.Records().Load(c.Context()))
	})

	v1.Put("/records/:kind/:id", func(c *fiber.Ctx) error {
		kind, id, err := recordTarget(c)
		if err != nil {
			return err
		}

		var form dashboard.EditForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		form.Kind = kind
		form.ID = id

		if err := session.Records().SubmitEdit(c.Context(), form); err != nil {
			return mapError(err)
		}
		return c.JSON(session.Records().View())
	})

	v1.Post("/records/location/:id/search", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid record id")
		}

		for _, rec := range session.Records().View().Set.Locations {
			if rec.ID == id {
				return c.JSON(session.SearchSaved(c.Context(), rec))
			}
		}
		return fiber.NewError(fiber.StatusNotFound, "location record not found")
	})

	v1.Post("/records/:kind/:id/delete", func(c *fiber.Ctx) error {
		kind, id, err := recordTarget(c)
		if err != nil {
			return err
		}

		var req deleteRequest
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			req.Name = ""
		}

		return c.JSON(session.Records().BeginDelete(kind, id, req.Name))
	})

	v1.Post("/records/delete-all", func(c *fiber.Ctx) error {
		return c.JSON(session.Records().BeginDeleteAll())
	})

	v1.Post("/records/delete/confirm", func(c *fiber.Ctx) error {
		if err := session.Records().ConfirmDelete(c.Context()); err != nil {
			if errors.Is(err, dashboard.ErrNoPendingDelete) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return mapError(err)
		}
		return c.JSON(session.Records().View())
	})

	v1.Post("/records/delete/cancel", func(c *fiber.Ctx) error {
		session.Records().CancelDelete()
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/export", func(c *fiber.Ctx) error {
		format := c.Query("format", "json")

		export, err := session.Export(c.Context(), format)
		if err != nil {
			return mapError(err)
		}

		c.Set(fiber.HeaderContentType, export.MIME)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
		return c.Send(export.Data)
	})
}

// searchRequest holds the body of a search call.
type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

// searchResponse decorates the search view with the rendered display
// projection once a snapshot is available.
type searchResponse struct {
	dashboard.SearchView
	Display *dashboard.CurrentDisplay `json:"display,omitempty"`
}

// rangeRequest holds the body of a range fetch. The orchestrator owns the
// validation so its messages and ordering stay in one place.
type rangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// deleteRequest carries the display name shown in the confirmation prompt.
type deleteRequest struct {
	Name string `json:"name"`
}

func recordTarget(c *fiber.Ctx) (records.Kind, int64, error) {
	kind := records.Kind(c.Params("kind"))
	if !kind.Valid() {
		return "", 0, fiber.NewError(fiber.StatusBadRequest, "kind must be 'location', 'weather' or 'range'")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return "", 0, fiber.NewError(fiber.StatusBadRequest, "invalid record id")
	}
	return kind, id, nil
}

// mapError converts orchestrator and upstream errors to HTTP answers:
// validation failures are the caller's fault, structured upstream errors keep
// their status, anything else is a bad gateway.
func mapError(err error) error {
	if dashboard.IsValidation(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(apiErr.StatusCode, apiErr.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}
