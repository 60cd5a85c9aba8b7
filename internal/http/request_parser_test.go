package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lifedeck/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		query   string
		want    MonthParams
		wantErr error
	}{
		{name: "defaults to now", query: "", want: MonthParams{Year: 2024, Month: time.July}},
		{name: "explicit", query: "year=2023&month=12", want: MonthParams{Year: 2023, Month: time.December}},
		{name: "month only", query: "month=1", want: MonthParams{Year: 2024, Month: time.January}},
		{name: "padded", query: "month=%2003%20", want: MonthParams{Year: 2024, Month: time.March}},
		{name: "month zero", query: "month=0", wantErr: core.ErrValidation},
		{name: "month thirteen", query: "month=13", wantErr: core.ErrValidation},
		{name: "non-numeric year", query: "year=last", wantErr: errBadRequest},
		{name: "non-numeric month", query: "month=may", wantErr: errBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ParseMonthParams(q, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	for query, want := range map[string]int{"": 0, "limit=0": 0, "limit=7": 7} {
		q, _ := url.ParseQuery(query)
		got, err := ParseLimit(q)
		if err != nil || got != want {
			t.Errorf("ParseLimit(%q) = %d, %v; want %d", query, got, err, want)
		}
	}
	for _, query := range []string{"limit=-1", "limit=ten"} {
		q, _ := url.ParseQuery(query)
		if _, err := ParseLimit(q); !errors.Is(err, errBadRequest) {
			t.Errorf("ParseLimit(%q) error = %v", query, err)
		}
	}
}

func TestParseClock(t *testing.T) {
	date := core.NewDate(2024, 3, 11)

	got, err := parseClock(date, " 08:30 ")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 11, 8, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("clock = %v, want %v", got, want)
	}

	got, err = parseClock(date, "2024-03-11T18:00:00+01:00")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 11, 17, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("timestamp = %v, want %v", got, want)
	}

	if got, err := parseClock(date, ""); err != nil || !got.IsZero() {
		t.Errorf("empty = %v, %v", got, err)
	}
	if _, err := parseClock(date, "half past eight"); !errors.Is(err, errBadRequest) {
		t.Errorf("garbage error = %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "valid", body: `{"type":"expense","amount":"12,50","date":"2024-03-01"}`},
		{name: "empty", body: ``, wantErr: errBadRequest},
		{name: "malformed", body: `{"type":`, wantErr: errBadRequest},
		{name: "unknown field", body: `{"kind":"expense"}`, wantErr: errBadRequest},
		{name: "trailing object", body: `{"type":"expense"}{"type":"income"}`, wantErr: errBadRequest},
		{name: "bad amount", body: `{"amount":"twelve"}`, wantErr: core.ErrInvalidAmount},
		{name: "oversize", body: `{"description":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: errBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var req transactionRequest
			err := decodeJSON(w, r, &req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req.Amount.Cents != 1250 || req.Type != core.Expense {
					t.Errorf("decoded %+v", req)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  pasta\x00 al\tforno\x1b "); got != "pasta al\tforno" {
		t.Errorf("sanitizeInput = %q", got)
	}
}

func TestMealRequestToMeal(t *testing.T) {
	m := mealRequest{
		Title:       "  Risotto ",
		CategoryIDs: []string{"c1"},
		ImageURL:    " https://example.com/r.jpg ",
		Duration:    30,
		Complexity:  "simple",
		IsVegan:     true,
	}.toMeal()
	if m.Title != "Risotto" || m.ImageURL != "https://example.com/r.jpg" || !m.IsVegan || m.ID != "" {
		t.Errorf("toMeal = %+v", m)
	}
}
