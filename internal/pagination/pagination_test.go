package pagination

import "testing"

func TestCalculate_ThreePages(t *testing.T) {
	cases := []struct {
		page    int
		hasNext bool
		hasPrev bool
	}{
		{1, true, false},
		{2, true, true},
		{3, false, true},
	}

	for _, tc := range cases {
		m := Calculate(tc.page, 10, 25)
		if m.TotalPages != 3 {
			t.Fatalf("page %d: expected 3 total pages, got %d", tc.page, m.TotalPages)
		}
		if m.HasNextPage != tc.hasNext || m.HasPrevPage != tc.hasPrev {
			t.Fatalf("page %d: expected next=%v prev=%v, got next=%v prev=%v",
				tc.page, tc.hasNext, tc.hasPrev, m.HasNextPage, m.HasPrevPage)
		}
	}
}

func TestCalculate_EmptySet(t *testing.T) {
	m := Calculate(1, 10, 0)
	if m.TotalPages != 0 || m.HasNextPage || m.HasPrevPage {
		t.Fatalf("expected 0 pages with no next/prev, got %+v", m)
	}
}

func TestCalculate_ExactFit(t *testing.T) {
	m := Calculate(2, 10, 20)
	if m.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", m.TotalPages)
	}
	if m.HasNextPage {
		t.Fatalf("expected no next page on the last page")
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 10); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := Offset(3, 10); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	page, limit := Normalize(0, 0)
	if page != 1 || limit != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", page, limit)
	}
	_, limit = Normalize(1, 500)
	if limit != MaxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", MaxLimit, limit)
	}
}
