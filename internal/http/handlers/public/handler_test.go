package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/checkout"
	"github.com/tallow-shop/storefront/internal/constants"
	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/models"
	"github.com/tallow-shop/storefront/internal/provider"
	"github.com/tallow-shop/storefront/internal/repository"
	"github.com/tallow-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %s failed: %v", raw, err)
	}
	return m
}

func newTestHandler(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.New([]catalog.Product{
		{
			ID:          "whipped-tallow-balm",
			Name:        "Whipped Tallow Balm",
			Description: "Grass-fed beef tallow whipped with jojoba oil.",
			Tags:        []string{"balm"},
			Facets:      []string{"size", "scent"},
			Variants: map[string]catalog.Variant{
				"1.35oz-citrus": {Key: "1.35oz-citrus", ExternalID: "gid://shopify/ProductVariant/201", Price: mustMoney(t, "25.00")},
				"2.5oz-citrus":  {Key: "2.5oz-citrus", ExternalID: "gid://shopify/ProductVariant/202", Price: mustMoney(t, "35.00")},
			},
			VariantOrder: []string{"1.35oz-citrus", "2.5oz-citrus"},
		},
		{
			ID:    "beard-balm",
			Name:  "Beard Balm",
			Tags:  []string{"beard"},
			Price: mustMoney(t, "15.00"),
			Variants: map[string]catalog.Variant{
				"beard-balm": {Key: "beard-balm", ExternalID: "gid://shopify/ProductVariant/301"},
			},
			VariantOrder: []string{"beard-balm"},
		},
	})
	if err != nil {
		t.Fatalf("new catalog failed: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	redirect, err := checkout.NewRedirectProvider("tallow.example")
	if err != nil {
		t.Fatalf("new redirect provider failed: %v", err)
	}
	h := New(&provider.Container{
		CatalogService: service.NewCatalogService(c),
		SearchService:  service.NewSearchService(c),
		CartService:    service.NewCartService(c, cart.NewMemorySlot(), redirect, service.CartServiceOptions{SlotPrefix: "cart"}),
		ReviewService:  service.NewReviewService(repository.NewReviewRepository(db), c, nil),
	})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Cart-Session"); id != "" {
			c.Set(constants.ContextKeyCartSession, id)
		}
		c.Next()
	})
	r.GET("/products", h.ListProducts)
	r.GET("/products/search", h.SearchProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/products/:id/reviews", h.ListProductReviews)
	r.POST("/reviews", h.SubmitReview)
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:index", h.ChangeCartItem)
	r.DELETE("/cart/items/:index", h.DeleteCartItem)
	r.POST("/cart/checkout", h.CheckoutCart)
	return h, r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body, session string) envelope {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set("X-Cart-Session", session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: expected http 200, got %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode response failed: %v body=%s", method, path, err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(env.Data))
	}
}

type cartViewBody struct {
	Lines []struct {
		Index      int    `json:"index"`
		ProductID  string `json:"product_id"`
		VariantKey string `json:"variant_key"`
		Quantity   int    `json:"quantity"`
		Subtotal   string `json:"subtotal"`
	} `json:"lines"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
	Warning   string `json:"warning"`
}

func TestCartFlowMergesAndChecksOut(t *testing.T) {
	_, r := newTestHandler(t)
	const session = "sess-flow"

	env := doRequest(t, r, http.MethodPost, "/cart/items", `{"product_id":"whipped-tallow-balm","facets":["1.35oz","citrus"],"quantity":1}`, session)
	if env.StatusCode != response.CodeOK {
		t.Fatalf("add item failed: %+v", env)
	}
	env = doRequest(t, r, http.MethodPost, "/cart/items", `{"product_id":"whipped-tallow-balm","variant_key":"1.35oz-citrus","quantity":2}`, session)
	env = doRequest(t, r, http.MethodPost, "/cart/items", `{"product_id":"beard-balm"}`, session)

	var view cartViewBody
	decodeData(t, doRequest(t, r, http.MethodGet, "/cart", "", session), &view)
	if len(view.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 3 || view.Lines[0].Subtotal != "75.00" {
		t.Fatalf("unexpected merged line: %+v", view.Lines[0])
	}
	if view.ItemCount != 4 || view.Total != "90.00" {
		t.Fatalf("unexpected totals: count=%d total=%s", view.ItemCount, view.Total)
	}

	env = doRequest(t, r, http.MethodPost, "/cart/checkout", "", session)
	if env.StatusCode != response.CodeOK {
		t.Fatalf("checkout failed: %+v", env)
	}
	var result struct {
		Provider string `json:"provider"`
		URL      string `json:"url"`
	}
	decodeData(t, env, &result)
	if result.URL != "https://tallow.example/cart/201:3,301:1" {
		t.Fatalf("unexpected checkout url: %s", result.URL)
	}
	if result.Provider != "redirect" {
		t.Fatalf("unexpected provider: %s", result.Provider)
	}

	decodeData(t, doRequest(t, r, http.MethodGet, "/cart", "", session), &view)
	if view.ItemCount != 4 {
		t.Fatalf("checkout must keep cart contents, got count=%d", view.ItemCount)
	}
}

func TestCartChangeAndRemoveLines(t *testing.T) {
	_, r := newTestHandler(t)
	const session = "sess-edit"

	doRequest(t, r, http.MethodPost, "/cart/items", `{"product_id":"whipped-tallow-balm","variant_key":"2.5oz-citrus","quantity":1}`, session)
	doRequest(t, r, http.MethodPost, "/cart/items", `{"product_id":"beard-balm","quantity":2}`, session)

	var view cartViewBody
	decodeData(t, doRequest(t, r, http.MethodPatch, "/cart/items/1", `{"delta":3}`, session), &view)
	if view.Lines[1].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", view.Lines[1].Quantity)
	}

	decodeData(t, doRequest(t, r, http.MethodPatch, "/cart/items/0", `{"delta":-1}`, session), &view)
	if len(view.Lines) != 1 || view.Lines[0].ProductID != "beard-balm" {
		t.Fatalf("expected line removed at zero quantity, got %+v", view.Lines)
	}

	decodeData(t, doRequest(t, r, http.MethodDelete, "/cart/items/0", "", session), &view)
	if len(view.Lines) != 0 || view.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", view)
	}
}

func TestCartErrorResponses(t *testing.T) {
	_, r := newTestHandler(t)
	const session = "sess-errors"

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		sess   string
		code   int
	}{
		{"missing session", http.MethodGet, "/cart", "", "", response.CodeBadRequest},
		{"unknown product", http.MethodPost, "/cart/items", `{"product_id":"nope"}`, session, response.CodeNotFound},
		{"unknown variant", http.MethodPost, "/cart/items", `{"product_id":"whipped-tallow-balm","variant_key":"9oz-citrus"}`, session, response.CodeBadRequest},
		{"variant required", http.MethodPost, "/cart/items", `{"product_id":"whipped-tallow-balm"}`, session, response.CodeBadRequest},
		{"partial facets", http.MethodPost, "/cart/items", `{"product_id":"whipped-tallow-balm","facets":["","citrus"]}`, session, response.CodeBadRequest},
		{"negative quantity", http.MethodPost, "/cart/items", `{"product_id":"beard-balm","quantity":-2}`, session, response.CodeBadRequest},
		{"quantity over cap", http.MethodPost, "/cart/items", `{"product_id":"beard-balm","quantity":9223372036854775807}`, session, response.CodeBadRequest},
		{"bad index", http.MethodDelete, "/cart/items/abc", "", session, response.CodeBadRequest},
		{"index out of range", http.MethodPatch, "/cart/items/4", `{"delta":1}`, session, response.CodeNotFound},
		{"empty checkout", http.MethodPost, "/cart/checkout", "", session, response.CodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := doRequest(t, r, tc.method, tc.path, tc.body, tc.sess)
			if env.StatusCode != tc.code {
				t.Fatalf("expected code %d, got %d (%s)", tc.code, env.StatusCode, env.Msg)
			}
		})
	}
}

func TestChangeCartItemRejectsHugeDelta(t *testing.T) {
	_, r := newTestHandler(t)
	const session = "sess-delta"

	doRequest(t, r, http.MethodPost, "/cart/items", `{"product_id":"beard-balm","quantity":2}`, session)
	env := doRequest(t, r, http.MethodPatch, "/cart/items/0", `{"delta":9223372036854775807}`, session)
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected code %d, got %d (%s)", response.CodeBadRequest, env.StatusCode, env.Msg)
	}

	var view struct {
		Lines []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
		ItemCount int `json:"item_count"`
	}
	decodeData(t, doRequest(t, r, http.MethodGet, "/cart", "", session), &view)
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 2 || view.ItemCount != 2 {
		t.Fatalf("cart should be unchanged: %+v", view)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	_, r := newTestHandler(t)

	var list struct {
		Products []catalog.Product `json:"products"`
	}
	decodeData(t, doRequest(t, r, http.MethodGet, "/products", "", ""), &list)
	if len(list.Products) != 2 || list.Products[0].ID != "whipped-tallow-balm" {
		t.Fatalf("unexpected products: %+v", list.Products)
	}

	var detail struct {
		ID       string `json:"id"`
		Variants []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		} `json:"variants"`
	}
	decodeData(t, doRequest(t, r, http.MethodGet, "/products/whipped-tallow-balm", "", ""), &detail)
	if len(detail.Variants) != 2 || detail.Variants[0].Label == "" {
		t.Fatalf("unexpected variants: %+v", detail.Variants)
	}

	env := doRequest(t, r, http.MethodGet, "/products/unknown", "", "")
	if env.StatusCode != response.CodeNotFound {
		t.Fatalf("expected not found, got %d", env.StatusCode)
	}

	var search struct {
		Products []catalog.Product `json:"products"`
	}
	decodeData(t, doRequest(t, r, http.MethodGet, "/products/search?q=BEARD", "", ""), &search)
	if len(search.Products) != 1 || search.Products[0].ID != "beard-balm" {
		t.Fatalf("unexpected search result: %+v", search.Products)
	}
	env = doRequest(t, r, http.MethodGet, "/products/search?q=b", "", "")
	decodeData(t, env, &search)
	if env.StatusCode != response.CodeOK || len(search.Products) != 0 {
		t.Fatalf("short query should return empty list, got %+v", search.Products)
	}
}

func TestReviewSubmitAndList(t *testing.T) {
	h, r := newTestHandler(t)

	env := doRequest(t, r, http.MethodPost, "/reviews", `{"product_id":"beard-balm","author_name":"Ada","rating":5,"body":"Soft beard."}`, "")
	if env.StatusCode != response.CodeOK {
		t.Fatalf("submit review failed: %+v", env)
	}
	var submitted struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, env, &submitted)
	if submitted.ID == 0 || submitted.Status != constants.ReviewStatusPending {
		t.Fatalf("unexpected submit result: %+v", submitted)
	}

	var listed struct {
		Reviews []models.Review       `json:"reviews"`
		Summary service.ReviewSummary `json:"summary"`
	}
	decodeData(t, doRequest(t, r, http.MethodGet, "/products/beard-balm/reviews", "", ""), &listed)
	if len(listed.Reviews) != 0 {
		t.Fatalf("pending review must not be listed, got %d", len(listed.Reviews))
	}

	if err := h.ReviewService.Approve(submitted.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	decodeData(t, doRequest(t, r, http.MethodGet, "/products/beard-balm/reviews", "", ""), &listed)
	if len(listed.Reviews) != 1 || listed.Summary.Average != 5 {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	env = doRequest(t, r, http.MethodPost, "/reviews", `{"author_name":"Ada","rating":9,"body":"x"}`, "")
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected bad request for rating, got %d", env.StatusCode)
	}
	env = doRequest(t, r, http.MethodGet, "/products/unknown/reviews", "", "")
	if env.StatusCode != response.CodeNotFound {
		t.Fatalf("expected not found, got %d", env.StatusCode)
	}
}
