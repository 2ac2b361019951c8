package ports

import "testing"

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{PageRequest{}, 1, 10},
		{PageRequest{Page: -3, Size: 0}, 1, 10},
		{PageRequest{Page: 2, Size: 25}, 2, 25},
		{PageRequest{Page: 1, Size: 999}, 1, 100},
	}
	for _, tc := range cases {
		p := tc.in
		p.Normalize()
		if p.Page != tc.wantPage || p.Size != tc.wantSize {
			t.Errorf("Normalize(%+v): expected page=%d size=%d, got page=%d size=%d",
				tc.in, tc.wantPage, tc.wantSize, p.Page, p.Size)
		}
	}
}

func TestPageRequest_Offset(t *testing.T) {
	p := PageRequest{Page: 3, Size: 20}
	if got := p.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewPagedResult_TotalPages(t *testing.T) {
	page := PageRequest{Page: 1, Size: 10}

	res := NewPagedResult([]int{1, 2, 3}, 25, page)
	if res.TotalPages != 3 {
		t.Errorf("25 items at size 10: expected 3 pages, got %d", res.TotalPages)
	}
	if res.TotalCount != 25 {
		t.Errorf("expected total 25, got %d", res.TotalCount)
	}

	empty := NewPagedResult([]int{}, 0, page)
	if empty.TotalPages != 0 {
		t.Errorf("empty set: expected 0 pages, got %d", empty.TotalPages)
	}
}
