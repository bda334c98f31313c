package service

import (
	"errors"
	"testing"
)

func TestSearchService(t *testing.T) {
	svc := NewSearchService(newServiceTestCatalog(t))

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "name match", query: "lip", want: []string{"tallow-lip-balm"}},
		{name: "case insensitive", query: "  WHIPPED ", want: []string{"whipped-tallow-balm"}},
		{name: "description match", query: "beeswax", want: []string{"leather-conditioner"}},
		{name: "tag match keeps catalog order", query: "balm", want: []string{"whipped-tallow-balm", "tallow-lip-balm"}},
		{name: "no match", query: "soap", want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Search(tc.query)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("want %v got %d results", tc.want, len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("result %d: want %s got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestSearchServiceShortQuery(t *testing.T) {
	svc := NewSearchService(newServiceTestCatalog(t))
	for _, query := range []string{"", " ", "b", " b "} {
		got, err := svc.Search(query)
		if !errors.Is(err, ErrSearchQueryTooShort) {
			t.Fatalf("query %q: expected ErrSearchQueryTooShort, got %v", query, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("query %q: expected empty non-nil result", query)
		}
	}
}
