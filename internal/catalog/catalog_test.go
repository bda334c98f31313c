package catalog

import (
	"errors"
	"testing"

	"github.com/tallow-shop/storefront/internal/models"

	"github.com/shopspring/decimal"
)

func money(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %s failed: %v", raw, err)
	}
	return m
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	products := []Product{
		{
			ID:     "tallow-lip-balm",
			Name:   "Tallow Lip Balm",
			Image:  "/assets/lip.jpg",
			Facets: []string{"scent"},
			Variants: map[string]Variant{
				"citrus":           {Key: "citrus", ExternalID: "gid://shopify/ProductVariant/101", Price: money(t, "8.00")},
				"vanilla-cinnamon": {Key: "vanilla-cinnamon", ExternalID: "gid://shopify/ProductVariant/102", Price: money(t, "8.00")},
			},
			VariantOrder: []string{"citrus", "vanilla-cinnamon"},
		},
		{
			ID:     "whipped-tallow-balm",
			Name:   "Whipped Tallow Balm",
			Image:  "/assets/whipped.jpg",
			Facets: []string{"size", "scent"},
			Price:  money(t, "25.00"),
			Variants: map[string]Variant{
				"1.35oz-citrus":               {Key: "1.35oz-citrus", ExternalID: "201"},
				"2.5oz-frankincense-lavender": {Key: "2.5oz-frankincense-lavender", ExternalID: "202", Price: money(t, "35.00"), Image: "/assets/big.jpg"},
			},
			VariantOrder: []string{"1.35oz-citrus", "2.5oz-frankincense-lavender"},
		},
		{
			ID:           "beard-balm",
			Name:         "Tallow Beard Balm",
			Price:        money(t, "15.00"),
			Variants:     map[string]Variant{"beard-balm": {Key: "beard-balm", ExternalID: "301", Price: money(t, "15.00")}},
			VariantOrder: []string{"beard-balm"},
		},
	}
	c, err := New(products)
	if err != nil {
		t.Fatalf("new catalog failed: %v", err)
	}
	return c
}

func TestCanonicalizeIsOrderSensitive(t *testing.T) {
	c := newTestCatalog(t)

	first := c.Canonicalize("whipped-tallow-balm", []string{"2.5oz", "citrus"})
	again := c.Canonicalize("whipped-tallow-balm", []string{"2.5oz", "citrus"})
	swapped := c.Canonicalize("whipped-tallow-balm", []string{"citrus", "2.5oz"})

	if first != "2.5oz-citrus" {
		t.Fatalf("unexpected key: %s", first)
	}
	if first != again {
		t.Fatalf("canonicalize should be deterministic: %s vs %s", first, again)
	}
	if first == swapped {
		t.Fatalf("swapped facet order should produce a different key, got %s", swapped)
	}
}

func TestCanonicalizeKeepsEmptyValuesInPlace(t *testing.T) {
	c := newTestCatalog(t)
	cases := []struct {
		values []string
		want   string
	}{
		{[]string{"", "citrus"}, "-citrus"},
		{[]string{"1.35oz", ""}, "1.35oz-"},
		{[]string{"", " 2.5oz ", ""}, "-2.5oz-"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := c.Canonicalize("whipped-tallow-balm", tc.values); got != tc.want {
			t.Fatalf("canonicalize %q: want %q got %q", tc.values, tc.want, got)
		}
	}
	if got := c.Canonicalize("unknown-product", []string{"a", "b"}); got != "a-b" {
		t.Fatalf("canonicalize should not validate product, got %q", got)
	}
	if _, err := c.ResolveVariant("whipped-tallow-balm", c.Canonicalize("whipped-tallow-balm", []string{"", "citrus"})); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("partial selection must not resolve, got %v", err)
	}
}

func TestProductCompleteSelection(t *testing.T) {
	c := newTestCatalog(t)
	p, ok := c.Product("whipped-tallow-balm")
	if !ok {
		t.Fatalf("product missing")
	}
	cases := []struct {
		values []string
		want   bool
	}{
		{[]string{"2.5oz", "citrus"}, true},
		{[]string{"2.5oz"}, false},
		{[]string{"2.5oz", " "}, false},
		{[]string{"", "citrus"}, false},
		{[]string{"2.5oz", "citrus", "extra"}, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := p.CompleteSelection(tc.values); got != tc.want {
			t.Fatalf("selection %q: want %v got %v", tc.values, tc.want, got)
		}
	}
}

func TestResolveVariant(t *testing.T) {
	c := newTestCatalog(t)

	res, err := c.ResolveVariant("whipped-tallow-balm", "1.35oz-citrus")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !res.UnitPrice.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("variant without price should use product price, got %s", res.UnitPrice)
	}
	if res.ImageURL != "/assets/whipped.jpg" {
		t.Fatalf("variant without image should use product image, got %s", res.ImageURL)
	}
	if res.DisplayName != "Whipped Tallow Balm" || res.ExternalID != "201" {
		t.Fatalf("unexpected resolution: %+v", res)
	}

	res, err = c.ResolveVariant("whipped-tallow-balm", "2.5oz-frankincense-lavender")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.UnitPrice.String() != "35.00" || res.ImageURL != "/assets/big.jpg" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.VariantLabel != "2.5OZ - Frankincense Lavender" {
		t.Fatalf("unexpected label: %s", res.VariantLabel)
	}
}

func TestResolveVariantNotFound(t *testing.T) {
	c := newTestCatalog(t)
	cases := []struct {
		name      string
		productID string
		key       string
	}{
		{name: "unknown product", productID: "soap", key: "citrus"},
		{name: "unknown key", productID: "tallow-lip-balm", key: "peppermint"},
		{name: "swapped facets", productID: "whipped-tallow-balm", key: "citrus-1.35oz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.ResolveVariant(tc.productID, tc.key)
			if !errors.Is(err, ErrVariantNotFound) {
				t.Fatalf("expected ErrVariantNotFound, got %v", err)
			}
		})
	}
}

func TestFormatVariantLabel(t *testing.T) {
	c := newTestCatalog(t)
	cases := []struct {
		productID string
		key       string
		want      string
	}{
		{productID: "tallow-lip-balm", key: "vanilla-cinnamon", want: "Vanilla Cinnamon"},
		{productID: "tallow-lip-balm", key: "citrus", want: "Citrus"},
		{productID: "whipped-tallow-balm", key: "1.35oz-citrus", want: "1.35OZ - Citrus"},
		{productID: "whipped-tallow-balm", key: "2.5oz-frankincense-lavender", want: "2.5OZ - Frankincense Lavender"},
		{productID: "beard-balm", key: "beard-balm", want: "Beard Balm"},
		{productID: "unknown", key: "wet-rendered", want: "Wet Rendered"},
	}
	for _, tc := range cases {
		if got := c.FormatVariantLabel(tc.productID, tc.key); got != tc.want {
			t.Fatalf("label %s/%s want %q got %q", tc.productID, tc.key, tc.want, got)
		}
	}
}

func TestDefaultVariant(t *testing.T) {
	c := newTestCatalog(t)
	key, ok := c.DefaultVariant("beard-balm")
	if !ok || key != "beard-balm" {
		t.Fatalf("single variant product should have default, got %q %v", key, ok)
	}
	if _, ok := c.DefaultVariant("tallow-lip-balm"); ok {
		t.Fatalf("multi variant product should not have a default")
	}
	if _, ok := c.DefaultVariant("missing"); ok {
		t.Fatalf("unknown product should not have a default")
	}
}

func TestSetPriceVisibleOnNextResolve(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.SetPrice("tallow-lip-balm", "citrus", money(t, "9.50")); err != nil {
		t.Fatalf("set price failed: %v", err)
	}
	res, err := c.ResolveVariant("tallow-lip-balm", "citrus")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.UnitPrice.String() != "9.50" {
		t.Fatalf("expected updated price 9.50, got %s", res.UnitPrice)
	}
	if err := c.SetPrice("tallow-lip-balm", "nope", money(t, "1")); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
	if err := c.SetPrice("nope", "citrus", money(t, "1")); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReplaceRejectsInvalidProducts(t *testing.T) {
	c := newTestCatalog(t)
	err := c.Replace([]Product{{ID: "a"}, {ID: "a"}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("duplicate ids should be rejected, got %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("failed replace must keep previous catalog, got %d products", c.Len())
	}
	err = c.Replace([]Product{{ID: "b", VariantOrder: []string{"x"}}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("unknown variant in order should be rejected, got %v", err)
	}
}

func TestProductsKeepConfiguredOrder(t *testing.T) {
	c := newTestCatalog(t)
	products := c.Products()
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[0].ID != "tallow-lip-balm" || products[2].ID != "beard-balm" {
		t.Fatalf("unexpected order: %s, %s", products[0].ID, products[2].ID)
	}
	variants := products[1].OrderedVariants()
	if len(variants) != 2 || variants[0].Key != "1.35oz-citrus" {
		t.Fatalf("unexpected variant order: %+v", variants)
	}
}
