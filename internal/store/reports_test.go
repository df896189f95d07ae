package store

import (
	"context"
	"testing"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

func monthRange(t *testing.T, ref string) domain.DateRange {
	t.Helper()
	d, err := domain.ParseDate(ref)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	r, err := domain.PeriodMonth.Range(d)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	return r
}

func TestReportAggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, 1)
	other := seedUser(t, s, 2)

	seedRecord(t, s, u.ID, "2025-03-01", "KOREAN", "김치찌개")
	seedRecord(t, s, u.ID, "2025-03-05", "KOREAN", "김치찌개")
	seedRecord(t, s, u.ID, "2025-03-10", "JAPANESE", "라멘")
	seedRecord(t, s, u.ID, "2025-03-31", "", "돈카츠")
	seedRecord(t, s, u.ID, "2025-03-20", "KOREAN", "")
	// Outside the range or owned by someone else.
	seedRecord(t, s, u.ID, "2025-02-28", "KOREAN", "김치찌개")
	seedRecord(t, s, u.ID, "2025-04-01", "KOREAN", "김치찌개")
	seedRecord(t, s, other.ID, "2025-03-15", "KOREAN", "김치찌개")

	r := monthRange(t, "2025-03-18")

	total, err := s.CountUserRecords(ctx, u.ID, r)
	if err != nil {
		t.Fatalf("CountUserRecords: %v", err)
	}
	if total != 5 {
		t.Errorf("CountUserRecords: got %d, want 5", total)
	}

	shares, err := s.CategoryCounts(ctx, u.ID, r)
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}
	wantShares := []domain.CategoryShare{
		{Category: "JAPANESE", Count: 1},
		{Category: "KOREAN", Count: 3},
	}
	if len(shares) != len(wantShares) {
		t.Fatalf("CategoryCounts: got %v, want %v", shares, wantShares)
	}
	for i := range wantShares {
		if shares[i] != wantShares[i] {
			t.Errorf("share %d: got %+v, want %+v", i, shares[i], wantShares[i])
		}
	}

	menus, err := s.TopMenus(ctx, u.ID, r, 5)
	if err != nil {
		t.Fatalf("TopMenus: %v", err)
	}
	wantMenus := []domain.MenuCount{
		{MenuName: "김치찌개", Count: 2},
		{MenuName: "돈카츠", Count: 1},
		{MenuName: "라멘", Count: 1},
	}
	if len(menus) != len(wantMenus) {
		t.Fatalf("TopMenus: got %v, want %v", menus, wantMenus)
	}
	for i := range wantMenus {
		if menus[i] != wantMenus[i] {
			t.Errorf("menu %d: got %+v, want %+v", i, menus[i], wantMenus[i])
		}
	}
}

func TestTopMenus_LimitAndTieBreak(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, 1)

	for _, menu := range []string{"b", "a", "c", "a", "c"} {
		seedRecord(t, s, u.ID, "2025-03-03", "X", menu)
	}
	r := monthRange(t, "2025-03-03")

	menus, err := s.TopMenus(ctx, u.ID, r, 2)
	if err != nil {
		t.Fatalf("TopMenus: %v", err)
	}
	want := []domain.MenuCount{{MenuName: "a", Count: 2}, {MenuName: "c", Count: 2}}
	if len(menus) != 2 || menus[0] != want[0] || menus[1] != want[1] {
		t.Errorf("TopMenus: got %v, want %v", menus, want)
	}
}

func TestReportAggregates_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, 1)
	r := monthRange(t, time.Now().Format(domain.DateLayout))

	total, err := s.CountUserRecords(ctx, u.ID, r)
	if err != nil || total != 0 {
		t.Errorf("CountUserRecords: got %d, %v", total, err)
	}
	shares, err := s.CategoryCounts(ctx, u.ID, r)
	if err != nil || len(shares) != 0 {
		t.Errorf("CategoryCounts: got %v, %v", shares, err)
	}
	menus, err := s.TopMenus(ctx, u.ID, r, 5)
	if err != nil || len(menus) != 0 {
		t.Errorf("TopMenus: got %v, %v", menus, err)
	}
}
