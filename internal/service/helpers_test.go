package service

import (
	"testing"

	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/models"
)

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %s failed: %v", raw, err)
	}
	return m
}

func newServiceTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Product{
		{
			ID:          "whipped-tallow-balm",
			Name:        "Whipped Tallow Balm",
			Description: "Grass-fed beef tallow whipped with jojoba oil.",
			Image:       "/assets/whipped.jpg",
			Tags:        []string{"balm", "whipped"},
			Facets:      []string{"size", "scent"},
			Variants: map[string]catalog.Variant{
				"1.35oz-citrus":               {Key: "1.35oz-citrus", ExternalID: "gid://shopify/ProductVariant/201", Price: mustMoney(t, "25.00")},
				"2.5oz-frankincense-lavender": {Key: "2.5oz-frankincense-lavender", ExternalID: "gid://shopify/ProductVariant/202", Price: mustMoney(t, "35.00")},
			},
			VariantOrder: []string{"1.35oz-citrus", "2.5oz-frankincense-lavender"},
		},
		{
			ID:          "tallow-lip-balm",
			Name:        "Tallow Lip Balm",
			Description: "Nourishing lip care.",
			Tags:        []string{"lips"},
			Facets:      []string{"scent"},
			Variants: map[string]catalog.Variant{
				"citrus": {Key: "citrus", ExternalID: "gid://shopify/ProductVariant/101", Price: mustMoney(t, "8.00")},
			},
			VariantOrder: []string{"citrus"},
		},
		{
			ID:          "leather-conditioner",
			Name:        "Leather Conditioner",
			Description: "Tallow and beeswax for boots.",
			Tags:        []string{"leather"},
			Price:       mustMoney(t, "15.00"),
			Variants: map[string]catalog.Variant{
				"leather-conditioner": {Key: "leather-conditioner", ExternalID: "gid://shopify/ProductVariant/401"},
			},
			VariantOrder: []string{"leather-conditioner"},
		},
	})
	if err != nil {
		t.Fatalf("new catalog failed: %v", err)
	}
	return c
}
