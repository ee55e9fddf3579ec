package cartControllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/models"
	"github.com/sokoni-online/cart-api/routes"
	"github.com/sokoni-online/cart-api/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_API_KEY", "test-admin-key")

	log, err := logger.New("")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	st := store.NewMemoryStore()
	r := gin.New()
	routes.SetupRoutes(r, st, log)
	return r, st
}

func sessionToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "guest",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) models.CartState {
	t.Helper()
	var state models.CartState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v\nbody: %s", err, rec.Body.String())
	}
	return state
}

func TestCartEndpointsRequireToken(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	rec := doJSON(t, r, http.MethodGet, "/cart", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if !state.IsEmpty || len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state)
	}
	if state.ID == "" {
		t.Fatalf("expected generated cart id")
	}
}

func TestAddItemEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	rec := doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"X","discount_price":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if state.TotalItems != 1 || state.CartTotal != 5 || state.IsEmpty {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Items[0].ItemTotal != 5 {
		t.Fatalf("unexpected item: %+v", state.Items[0])
	}

	// New sku without a price is rejected.
	rec = doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"Y","quantity":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAddItemEndpointMergesQuantities(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"A","discount_price":10,"quantity":2}`)
	rec := doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"A","discount_price":10,"quantity":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if state.TotalUniqueItems != 1 || state.Items[0].Quantity != 5 {
		t.Fatalf("expected one entry with quantity 5, got %+v", state.Items)
	}
}

func TestQuantityEndpointRemovesAtZero(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"A","discount_price":10,"quantity":2}`)

	rec := doJSON(t, r, http.MethodPut, "/cart/items/A/quantity", token, `{"quantity":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if !state.IsEmpty {
		t.Fatalf("expected item removed at quantity 0, got %+v", state)
	}

	rec = doJSON(t, r, http.MethodPut, "/cart/items/missing/quantity", token, `{"quantity":3}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMetadataEndpoints(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	doJSON(t, r, http.MethodPatch, "/cart/metadata", token, `{"a":1}`)
	rec := doJSON(t, r, http.MethodPatch, "/cart/metadata", token, `{"b":2}`)
	state := decodeState(t, rec)
	if state.Metadata["a"] == nil || state.Metadata["b"] == nil {
		t.Fatalf("expected merged metadata, got %v", state.Metadata)
	}

	rec = doJSON(t, r, http.MethodPut, "/cart/metadata", token, `{"b":2}`)
	state = decodeState(t, rec)
	if len(state.Metadata) != 1 || state.Metadata["b"] == nil {
		t.Fatalf("expected replaced metadata, got %v", state.Metadata)
	}

	rec = doJSON(t, r, http.MethodDelete, "/cart/metadata", token, "")
	state = decodeState(t, rec)
	if len(state.Metadata) != 0 {
		t.Fatalf("expected cleared metadata, got %v", state.Metadata)
	}
}

func TestClearCartEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"A","discount_price":10}`)
	rec := doJSON(t, r, http.MethodDelete, "/cart", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeState(t, rec)
	if !state.IsEmpty || state.CartTotal != 0 {
		t.Fatalf("expected emptied cart, got %+v", state)
	}
}

func TestGetCartItemEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")

	doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"A","discount_price":10}`)

	rec := doJSON(t, r, http.MethodGet, "/cart/items/A", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var item models.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.SKU != "A" || item.ItemTotal != 10 {
		t.Fatalf("unexpected item: %+v", item)
	}

	rec = doJSON(t, r, http.MethodGet, "/cart/items/missing", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGuestSessionIssuesWorkingToken(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/guest", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		GuestID string `json:"guest_id"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.GuestID, "guest_") || resp.Token == "" {
		t.Fatalf("unexpected session: %+v", resp)
	}

	rec = doJSON(t, r, http.MethodGet, "/cart", resp.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected guest token accepted, got %d: %s", rec.Code, rec.Body.String())
	}
	if state := decodeState(t, rec); !state.IsEmpty {
		t.Fatalf("expected seeded empty cart, got %+v", state)
	}
}

func TestAdminCartEndpoints(t *testing.T) {
	r, _ := setupRouter(t)
	token := sessionToken(t, "user_1")
	doJSON(t, r, http.MethodPost, "/cart/items", token, `{"sku":"A","discount_price":10}`)

	rec := doJSON(t, r, http.MethodGet, "/admin/carts", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/carts", nil)
	req.Header.Set("X-API-KEY", "test-admin-key")
	adminRec := httptest.NewRecorder()
	r.ServeHTTP(adminRec, req)
	if adminRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", adminRec.Code, adminRec.Body.String())
	}
	var carts map[string]models.CartState
	if err := json.Unmarshal(adminRec.Body.Bytes(), &carts); err != nil {
		t.Fatalf("decode carts: %v", err)
	}
	if _, ok := carts["user_1"]; !ok {
		t.Fatalf("expected user_1 cart listed, got %v", carts)
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin/carts/user_1", nil)
	req.Header.Set("X-API-KEY", "test-admin-key")
	delRec := httptest.NewRecorder()
	r.ServeHTTP(delRec, req)
	if delRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", delRec.Code, delRec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/carts/export-excel", nil)
	req.Header.Set("X-API-KEY", "test-admin-key")
	exportRec := httptest.NewRecorder()
	r.ServeHTTP(exportRec, req)
	if exportRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", exportRec.Code)
	}
	if ct := exportRec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheet") {
		t.Fatalf("expected spreadsheet content type, got %q", ct)
	}
}
