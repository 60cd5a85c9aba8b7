// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data: query parameters, path values and JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lifedeck/internal/core"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errBadRequest marks malformed input that never reached validation.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month time.Month
}

// ParseMonthParams extracts year and month from query parameters, using the
// month containing now as default. Out-of-range months are a validation error.
func ParseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	params := MonthParams{Year: now.Year(), Month: now.Month()}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return MonthParams{}, badRequest("year %q is not a number", v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return MonthParams{}, badRequest("month %q is not a number", v)
		}
		params.Month = time.Month(m)
	}
	if params.Month < time.January || params.Month > time.December {
		return MonthParams{}, fmt.Errorf("%w: month %d", core.ErrInvalidDate, params.Month)
	}
	return params, nil
}

// hasMonthParams reports whether the query selects a month explicitly.
func hasMonthParams(query url.Values) bool {
	return query.Get("year") != "" || query.Get("month") != ""
}

// ParseLimit reads a non-negative "limit" query parameter; absent means 0.
func ParseLimit(query url.Values) (int, error) {
	v := strings.TrimSpace(query.Get("limit"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("limit %q must be a non-negative number", v)
	}
	return n, nil
}

// decodeJSON reads one JSON object from the request body into dst. Unknown
// fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty")
		case errors.As(err, &maxErr):
			return badRequest("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, core.ErrValidation):
			return err
		default:
			return badRequest("invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return badRequest("request body must hold a single JSON object")
	}
	return nil
}

// sanitizeInput removes control characters (except tab, newline and carriage
// return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// pathDate parses the {date} path value.
func pathDate(r *http.Request) (core.Date, error) {
	return core.ParseDate(r.PathValue("date"))
}

// parseClock resolves a start/end time: "HH:MM" on date, or a full RFC 3339
// timestamp. Empty input yields the zero time.
func parseClock(date core.Date, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, badRequest("time %q must be HH:MM or RFC 3339", s)
}

type taskRequest struct {
	Text      string `json:"text"`
	Urgent    bool   `json:"urgent"`
	Important bool   `json:"important"`
	Done      bool   `json:"done"`
}

type transactionRequest struct {
	Type        core.TransactionType `json:"type"`
	Amount      core.Money           `json:"amount"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Date        string               `json:"date"`
}

type mealRequest struct {
	CategoryIDs   []string `json:"categoryIds"`
	Title         string   `json:"title"`
	ImageURL      string   `json:"imageUrl"`
	Duration      float64  `json:"duration"`
	Complexity    string   `json:"complexity"`
	Affordability string   `json:"affordability"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	IsGlutenFree  bool     `json:"isGlutenFree"`
	IsVegan       bool     `json:"isVegan"`
	IsVegetarian  bool     `json:"isVegetarian"`
	IsLactoseFree bool     `json:"isLactoseFree"`
}

func (m mealRequest) toMeal() core.Meal {
	return core.Meal{
		CategoryIDs:   m.CategoryIDs,
		Title:         sanitizeInput(m.Title),
		ImageURL:      strings.TrimSpace(m.ImageURL),
		Duration:      m.Duration,
		Complexity:    sanitizeInput(m.Complexity),
		Affordability: sanitizeInput(m.Affordability),
		Ingredients:   m.Ingredients,
		Steps:         m.Steps,
		IsGlutenFree:  m.IsGlutenFree,
		IsVegan:       m.IsVegan,
		IsVegetarian:  m.IsVegetarian,
		IsLactoseFree: m.IsLactoseFree,
	}
}

type imageRequest struct {
	ImageURL string `json:"imageUrl"`
}

type workLogRequest struct {
	Date      string  `json:"date"`
	Jornada   float64 `json:"jornada"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
}
