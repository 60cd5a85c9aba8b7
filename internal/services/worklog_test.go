package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifedeck/internal/core"
	"lifedeck/internal/kv/memory"
	applog "lifedeck/internal/log"
	"lifedeck/internal/store"
)

func newWorkLogService(t *testing.T) *WorkLogService {
	t.Helper()
	list := store.NewList[core.WorkLogEntry](memory.New(), store.KeyWorkLog, applog.Discard())
	return NewWorkLogService(list, nil, applog.Discard())
}

func at(d core.Date, h, m int) time.Time {
	return d.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestWorkLogRecord(t *testing.T) {
	ctx := context.Background()
	svc := newWorkLogService(t)
	d := core.NewDate(2024, 3, 4)

	e, err := svc.Record(ctx, d, 8, at(d, 8, 30), at(d, 18, 0))
	if err != nil {
		t.Fatal(err)
	}
	if e.Hours != 9.5 || e.ExtraHours() != 1.5 {
		t.Fatalf("entry = %+v", e)
	}

	def, err := svc.Record(ctx, core.NewDate(2024, 3, 5), 8, time.Time{}, time.Time{})
	if err != nil || def.Hours != 8 {
		t.Fatalf("default shift = %+v, %v", def, err)
	}
}

func TestWorkLogUpsertOnDateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	svc := newWorkLogService(t)
	d1, d2 := core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 2)

	_, _ = svc.Record(ctx, d1, 8, at(d1, 9, 0), at(d1, 17, 0))
	_, _ = svc.Record(ctx, d2, 8, at(d2, 9, 0), at(d2, 17, 0))
	_, _ = svc.Record(ctx, d1, 6, at(d1, 9, 0), at(d1, 19, 0))

	items, _ := svc.List(ctx)
	if len(items) != 2 {
		t.Fatalf("one entry per date expected, got %+v", items)
	}
	if items[0].Key() != "2024-03-02" || items[1].Key() != "2024-03-01" {
		t.Fatalf("order = %s, %s", items[0].Key(), items[1].Key())
	}
	if items[1].Hours != 10 || items[1].Jornada != 6 {
		t.Fatalf("replaced entry = %+v", items[1])
	}
}

func TestWorkLogRecordRejects(t *testing.T) {
	ctx := context.Background()
	svc := newWorkLogService(t)
	d := core.NewDate(2024, 3, 1)

	if _, err := svc.Record(ctx, d, 8, at(d, 17, 0), at(d, 9, 0)); !errors.Is(err, core.ErrInvalidHours) {
		t.Fatalf("end before start err = %v", err)
	}
	if _, err := svc.Record(ctx, d, 0, at(d, 9, 0), at(d, 17, 0)); !errors.Is(err, core.ErrInvalidJornada) {
		t.Fatalf("zero jornada err = %v", err)
	}
	if _, err := svc.Record(ctx, core.Date{}, 8, time.Time{}, time.Time{}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("zero date err = %v", err)
	}
	if items, _ := svc.List(ctx); len(items) != 0 {
		t.Fatal("rejected entries must not be written")
	}
}

func TestWorkLogGetDeleteRecent(t *testing.T) {
	ctx := context.Background()
	svc := newWorkLogService(t)
	for day := 1; day <= 7; day++ {
		d := core.NewDate(2024, 3, day)
		if _, err := svc.Record(ctx, d, 8, time.Time{}, time.Time{}); err != nil {
			t.Fatal(err)
		}
	}

	recent, _ := svc.Recent(ctx, 0)
	if len(recent) != DefaultRecentDays || recent[0].Key() != "2024-03-07" {
		t.Fatalf("recent = %+v", recent)
	}
	if two, _ := svc.Recent(ctx, 2); len(two) != 2 {
		t.Fatalf("recent(2) = %d", len(two))
	}

	d3 := core.NewDate(2024, 3, 3)
	if e, err := svc.Get(ctx, d3); err != nil || e.Key() != "2024-03-03" {
		t.Fatalf("Get = %+v, %v", e, err)
	}
	if err := svc.Delete(ctx, d3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, d3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted entry err = %v", err)
	}
	if err := svc.Delete(ctx, d3); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
