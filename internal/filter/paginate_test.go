package filter

import (
	"math"
	"testing"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

func makeRecords(n int) []trend.Record {
	records := make([]trend.Record, n)
	for i := range records {
		records[i] = trend.Record{Index: i}
	}
	return records
}

func TestPaginate(t *testing.T) {
	records := makeRecords(13)

	tests := []struct {
		page      int
		wantLen   int
		wantFirst int
	}{
		{1, 5, 0},
		{2, 5, 5},
		{3, 3, 10},
		{4, 0, -1},
		{0, 0, -1},
		{-2, 0, -1},
	}

	for _, tt := range tests {
		p := Paginate(records, tt.page, 5)
		if len(p.Items) != tt.wantLen {
			t.Errorf("page %d: got %d items, want %d", tt.page, len(p.Items), tt.wantLen)
		}
		if p.Items == nil {
			t.Errorf("page %d: items should never be nil", tt.page)
		}
		if tt.wantFirst >= 0 && len(p.Items) > 0 && p.Items[0].Index != tt.wantFirst {
			t.Errorf("page %d: first index %d, want %d", tt.page, p.Items[0].Index, tt.wantFirst)
		}
		if p.TotalPages != 3 {
			t.Errorf("page %d: TotalPages = %d, want 3", tt.page, p.TotalPages)
		}
		if p.Total != 13 {
			t.Errorf("page %d: Total = %d, want 13", tt.page, p.Total)
		}
	}
}

func TestTotalPagesMinimumOne(t *testing.T) {
	if got := TotalPages(0, 10); got != 1 {
		t.Errorf("TotalPages(0, 10) = %d, want 1", got)
	}
	if got := TotalPages(10, 10); got != 1 {
		t.Errorf("TotalPages(10, 10) = %d, want 1", got)
	}
	if got := TotalPages(11, 10); got != 2 {
		t.Errorf("TotalPages(11, 10) = %d, want 2", got)
	}
}

func TestPaginateEmptyAndBadSize(t *testing.T) {
	p := Paginate(nil, 1, 0)
	if p.Size != DefaultPageSize {
		t.Errorf("Size = %d, want %d", p.Size, DefaultPageSize)
	}
	if p.TotalPages != 1 || len(p.Items) != 0 {
		t.Errorf("empty page = %+v", p)
	}
	if p.HasNext() || p.HasPrev() {
		t.Error("single empty page has no neighbours")
	}
}

func TestClampPage(t *testing.T) {
	if ClampPage(0, 3) != 1 || ClampPage(5, 3) != 3 || ClampPage(2, 3) != 2 {
		t.Error("ClampPage bounds")
	}
}

func TestPaginateHugePageNumberIsEmpty(t *testing.T) {
	records := makeRecords(13)
	for _, number := range []int{math.MaxInt, math.MaxInt/10 + 2, math.MaxInt/5 + 2, 3} {
		p := Paginate(records, number, 10)
		if len(p.Items) != 0 {
			t.Errorf("Paginate(13 records, %d, 10) returned %d items, want 0", number, len(p.Items))
		}
		if p.TotalPages != 2 {
			t.Errorf("TotalPages = %d, want 2", p.TotalPages)
		}
	}
}
