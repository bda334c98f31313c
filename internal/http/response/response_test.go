package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tallow-shop/storefront/internal/constants"

	"github.com/gin-gonic/gin"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestErrorAttachesRequestID(t *testing.T) {
	c, w := newTestContext()
	c.Set(constants.ContextKeyRequestID, "req-1")

	Error(c, CodeNotFound, "cart line not found")

	if w.Code != http.StatusOK {
		t.Fatalf("envelope must use http 200, got %d", w.Code)
	}
	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if body.StatusCode != CodeNotFound || body.Msg != "cart line not found" || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	c, w := newTestContext()

	SuccessWithPage(c, []int{1, 2}, NewPagination(2, 2, 5))

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"status_code", "msg", "data", "pagination"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing key %s in %s", key, w.Body.String())
		}
	}
	var page Pagination
	if err := json.Unmarshal(body["pagination"], &page); err != nil {
		t.Fatalf("unmarshal pagination failed: %v", err)
	}
	if page.TotalPage != 3 || page.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
	if NewPagination(1, 0, 5).TotalPage != 0 {
		t.Fatalf("zero page size should give zero pages")
	}
}
