package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/akulinich/weather-monitor/internal/weather"
)

var validate = validator.New()

// QueryAPI is the read-only surface the routes consume.
type QueryAPI interface {
	DailySummaries(ctx context.Context, city string, month int, date string) ([]weather.DailySummary, error)
	Readings(ctx context.Context, city string, date string) ([]weather.Reading, error)
	Alerts(ctx context.Context, city string, date string) ([]weather.Alert, error)
}

// AlertAPI evaluates thresholds on demand.
type AlertAPI interface {
	Evaluate(ctx context.Context, city string, minThreshold, maxThreshold float64) (weather.EvaluationResult, error)
}

// WatchAPI manages recurring alert evaluations.
type WatchAPI interface {
	AddAlertWatch(city string, minThreshold, maxThreshold float64, every time.Duration) (uuid.UUID, error)
	RemoveAlertWatch(id uuid.UUID) error
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, query QueryAPI, alerts AlertAPI, watches WatchAPI) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/summary", func(c *fiber.Ctx) error {
		var req summaryQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summaries, err := query.DailySummaries(c.Context(), req.City, req.Month, req.Date)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(summaries)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		var req readingsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := query.Readings(c.Context(), req.City, req.Date)
		if err != nil {
			return mapServiceError(err)
		}
		if readings == nil {
			readings = []weather.Reading{}
		}
		return c.JSON(readings)
	})

	v1.Get("/alerts/evaluate", func(c *fiber.Ctx) error {
		var req evaluateQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := alerts.Evaluate(c.Context(), req.City, req.MinThreshold, req.MaxThreshold)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(result)
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		var req alertsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		list, err := query.Alerts(c.Context(), req.City, req.Date)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(list)
	})

	v1.Post("/alerts/watch", func(c *fiber.Ctx) error {
		var req watchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		every, err := time.ParseDuration(req.Interval)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid interval; use a duration like 10m")
		}

		id, err := watches.AddAlertWatch(req.City, *req.MinThreshold, *req.MaxThreshold, every)
		if err != nil {
			return mapServiceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	v1.Delete("/alerts/watch/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid watch id")
		}
		if err := watches.RemoveAlertWatch(id); err != nil {
			return mapServiceError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// mapServiceError translates the service error taxonomy to HTTP statuses.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidDateFormat), errors.Is(err, weather.ErrInvalidMonth):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNoData), errors.Is(err, weather.ErrCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrProviderUnavailable), errors.Is(err, weather.ErrProviderResponseInvalid):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}

// summaryQuery holds the daily-summary filter parameters.
type summaryQuery struct {
	City  string `validate:"required"`
	Month int    `validate:"required,min=1,max=12"`
	Date  string `validate:"omitempty,datetime=2006-01-02"`
}

func (q *summaryQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	q.Month = c.QueryInt("month")
	q.Date = c.Query("date")
	return validate.Struct(q)
}

// readingsQuery holds the readings filter parameters.
type readingsQuery struct {
	City string `validate:"required"`
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

func (q *readingsQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	q.Date = c.Query("date")
	return validate.Struct(q)
}

// evaluateQuery holds the threshold-evaluation parameters.
type evaluateQuery struct {
	City         string  `validate:"required"`
	MinThreshold float64 `validate:"ltefield=MaxThreshold"`
	MaxThreshold float64
}

func (q *evaluateQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	if c.Query("minThreshold") == "" || c.Query("maxThreshold") == "" {
		return errors.New("minThreshold and maxThreshold query parameters are required")
	}
	q.MinThreshold = c.QueryFloat("minThreshold")
	q.MaxThreshold = c.QueryFloat("maxThreshold")
	return validate.Struct(q)
}

// alertsQuery holds the alert-history filter parameters.
type alertsQuery struct {
	City string `validate:"required"`
	Date string `validate:"required"`
}

func (q *alertsQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	q.Date = c.Query("date")
	return validate.Struct(q)
}

// watchRequest is the body for registering a recurring alert evaluation.
type watchRequest struct {
	City         string   `json:"city" validate:"required"`
	MinThreshold *float64 `json:"minThreshold" validate:"required"`
	MaxThreshold *float64 `json:"maxThreshold" validate:"required"`
	Interval     string   `json:"interval" validate:"required"`
}
