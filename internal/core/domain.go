package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the on-disk representation of a calendar date.
const DateLayout = "2006-01-02"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Date is a calendar date without time of day, always in UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
	}

	Task struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Urgent    bool   `json:"urgent"`
		Important bool   `json:"important"`
		Done      bool   `json:"done"`
	}

	// Meal is a recipe record. Seed meals come from the catalog, user meals
	// from the "meals" slot; both share this shape.
	Meal struct {
		ID            string   `json:"id" yaml:"id"`
		CategoryIDs   []string `json:"categoryIds" yaml:"categoryIds"`
		Title         string   `json:"title" yaml:"title"`
		ImageURL      string   `json:"imageUrl" yaml:"imageUrl"`
		Duration      float64  `json:"duration" yaml:"duration"` // minutes
		Complexity    string   `json:"complexity" yaml:"complexity"`
		Affordability string   `json:"affordability" yaml:"affordability"`
		Ingredients   []string `json:"ingredients" yaml:"ingredients"`
		Steps         []string `json:"steps" yaml:"steps"`
		IsGlutenFree  bool     `json:"isGlutenFree" yaml:"isGlutenFree"`
		IsVegan       bool     `json:"isVegan" yaml:"isVegan"`
		IsVegetarian  bool     `json:"isVegetarian" yaml:"isVegetarian"`
		IsLactoseFree bool     `json:"isLactoseFree" yaml:"isLactoseFree"`
	}

	Category struct {
		ID    string `json:"id" yaml:"id"`
		Title string `json:"title" yaml:"title"`
		Color string `json:"color" yaml:"color"`
	}
)

// ErrValidation is the parent of every record validation error.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidDate        = validationError("invalid date")
	ErrInvalidAmount      = validationError("invalid amount")
	ErrInvalidType        = validationError("invalid transaction type")
	ErrEmptyID            = validationError("empty id")
	ErrEmptyText          = validationError("empty task text")
	ErrEmptyTitle         = validationError("empty meal title")
	ErrInvalidDuration    = validationError("invalid meal duration")
	ErrEmptyComplexity    = validationError("empty meal complexity")
	ErrEmptyAffordability = validationError("empty meal affordability")
	ErrInvalidJornada     = validationError("invalid working day length")
	ErrInvalidHours       = validationError("end time must be after start time")
	ErrTooLong            = validationError("field too long")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NewID returns a fresh random record identifier.
func NewID() string {
	return uuid.NewString()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// InMonth reports whether d falls in the given calendar month (1-12).
func (d Date) InMonth(year int, month time.Month) bool {
	y, m, _ := d.Date()
	return y == year && m == month
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD and, for older data, full RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	*d = DateOf(t)
	return nil
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Signed returns the amount as a balance contribution: positive for income,
// negative for expenses.
func (t Transaction) Signed() Money {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description (max 200 characters)", ErrTooLong)
	}
	if len(t.Category) > 100 {
		return fmt.Errorf("%w: category (max 100 characters)", ErrTooLong)
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if len(t.Text) > 500 {
		return fmt.Errorf("%w: text (max 500 characters)", ErrTooLong)
	}
	return nil
}

func (m Meal) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if m.Duration <= 0 {
		return ErrInvalidDuration
	}
	if strings.TrimSpace(m.Complexity) == "" {
		return ErrEmptyComplexity
	}
	if strings.TrimSpace(m.Affordability) == "" {
		return ErrEmptyAffordability
	}
	return nil
}

// InCategory reports whether the meal is listed under categoryID.
func (m Meal) InCategory(categoryID string) bool {
	for _, id := range m.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
