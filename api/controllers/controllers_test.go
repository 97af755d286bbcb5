package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/plantnet-backend/api/middleware"
	authsvc "github.com/angelmondragon/plantnet-backend/internal/auth"
	"github.com/angelmondragon/plantnet-backend/internal/orders"
	"github.com/angelmondragon/plantnet-backend/internal/users"
	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

var customer = auth.Identity{Email: "ada@example.com", Role: enums.UserRoleCustomer}

func withIdentity(req *http.Request, identity auth.Identity) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var env types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

type stubOrders struct {
	placed   orders.PlaceOrderRequest
	identity auth.Identity
	err      error
}

func (s *stubOrders) PlaceOrder(_ context.Context, identity auth.Identity, input orders.PlaceOrderRequest) (orders.PlaceOrderResult, error) {
	s.identity, s.placed = identity, input
	if s.err != nil {
		return orders.PlaceOrderResult{}, s.err
	}
	return orders.PlaceOrderResult{Success: true, OrderID: uuid.MustParse("11111111-2222-3333-4444-555555555555")}, nil
}

func (s *stubOrders) ListAll(context.Context, auth.Identity) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, s.err
}

func (s *stubOrders) ListByEmail(context.Context, auth.Identity, string) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, s.err
}

func (s *stubOrders) UpdateStatus(_ context.Context, _ auth.Identity, _ uuid.UUID, status string) (orders.UpdateStatusResult, error) {
	if s.err != nil {
		return orders.UpdateStatusResult{}, s.err
	}
	return orders.UpdateStatusResult{Success: true, Message: "Order status updated successfully", ModifiedCount: 1}, nil
}

func (s *stubOrders) DeleteOrder(context.Context, auth.Identity, uuid.UUID) (orders.DeleteOrderResult, error) {
	return orders.DeleteOrderResult{}, s.err
}

func TestPlaceOrderUsesIdentity(t *testing.T) {
	svc := &stubOrders{}
	handler := PlaceOrder(svc, nil)

	body := `{"items":[{"productId":"6f1c2a8e-3b7d-4c1e-9f0a-1b2c3d4e5f60","quantity":2,"image":"x.png"}],"userEmail":"someone@else.com","totalPrice":19.5}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)), customer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, customer.Email, svc.identity.Email)
	require.Len(t, svc.placed.Items, 1)
	assert.Equal(t, 2, svc.placed.Items[0].Quantity)
	assert.Equal(t, "19.5", svc.placed.TotalPrice.String())

	var res map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", res["orderId"])
}

func TestPlaceOrderWithoutIdentity(t *testing.T) {
	handler := PlaceOrder(&stubOrders{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPlaceOrderStockError(t *testing.T) {
	handler := PlaceOrder(&stubOrders{err: pkgerrors.New(pkgerrors.CodeValidation, "Not enough stock for Fern")}, nil)
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`)), customer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "Not enough stock for Fern", env.Message)
}

func TestUpdateOrderStatusRejectsBadID(t *testing.T) {
	handler := UpdateOrderStatus(&stubOrders{}, nil)
	req := withIdentity(httptest.NewRequest(http.MethodPatch, "/orders/nope", strings.NewReader(`{"status":"delivered"}`)), customer)
	req = withURLParam(req, "id", "nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateOrderStatusForbidden(t *testing.T) {
	handler := UpdateOrderStatus(&stubOrders{err: pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden access")}, nil)
	id := uuid.NewString()
	req := withIdentity(httptest.NewRequest(http.MethodPatch, "/orders/"+id, strings.NewReader(`{"status":"delivered"}`)), customer)
	req = withURLParam(req, "id", id)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Forbidden access", decodeEnvelope(t, resp).Message)
}

type stubUsers struct {
	existing *users.UserDTO
	exists   bool
	role     enums.UserRole
}

func (s stubUsers) SaveUser(_ context.Context, email string, _ users.SaveUserRequest) (users.SaveResult, error) {
	if email == "" {
		return users.SaveResult{}, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	if s.existing != nil {
		return users.SaveResult{Existing: s.existing}, nil
	}
	inserted := types.Inserted(uuid.New())
	return users.SaveResult{Inserted: &inserted}, nil
}

func (s stubUsers) RoleByEmail(context.Context, string) (enums.UserRole, error) {
	return s.role, nil
}

func (s stubUsers) ListUsers(context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (s stubUsers) EmailExists(_ context.Context, email string) (bool, error) {
	if email == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	return s.exists, nil
}

func TestSaveUserStatusCodes(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/users/ada@example.com", strings.NewReader(`{"name":"Ada"}`)), "email", "ada@example.com")
	resp := httptest.NewRecorder()
	SaveUser(stubUsers{}, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"acknowledged":true`)

	existing := &users.UserDTO{Email: "ada@example.com", Role: enums.UserRoleCustomer}
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/users/ada@example.com", nil), "email", "ada@example.com")
	resp = httptest.NewRecorder()
	SaveUser(stubUsers{existing: existing}, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"email":"ada@example.com"`)
}

func TestUserRoleRendersNullForUnknown(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/users/role/x", nil), "email", "x")
	resp := httptest.NewRecorder()
	UserRole(stubUsers{}, nil).ServeHTTP(resp, req)
	assert.JSONEq(t, `{"role":null}`, resp.Body.String())

	resp = httptest.NewRecorder()
	UserRole(stubUsers{role: enums.UserRoleAdmin}, nil).ServeHTTP(resp, req)
	assert.JSONEq(t, `{"role":"admin"}`, resp.Body.String())
}

func TestCheckEmail(t *testing.T) {
	resp := httptest.NewRecorder()
	CheckEmail(stubUsers{exists: true}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/users/check-email", strings.NewReader(`{"email":"ada@example.com"}`)))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"exists":true}`, resp.Body.String())

	resp = httptest.NewRecorder()
	CheckEmail(stubUsers{exists: true}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/users/check-email", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"exists":false}`, resp.Body.String())
}

type stubTokens struct{}

func (stubTokens) IssueToken(_ context.Context, email string) (authsvc.Token, error) {
	if email == "" {
		return authsvc.Token{}, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	return authsvc.Token{Value: "signed", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (stubTokens) ResolveIdentity(_ context.Context, email string) (auth.Identity, error) {
	return auth.Identity{Email: email}, nil
}

func findCookie(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestIssueTokenCookieAttributes(t *testing.T) {
	for _, tc := range []struct {
		env      string
		secure   bool
		sameSite http.SameSite
	}{
		{"production", true, http.SameSiteNoneMode},
		{"dev", false, http.SameSiteStrictMode},
	} {
		t.Run(tc.env, func(t *testing.T) {
			cfg := &config.Config{App: config.AppConfig{Env: tc.env}, Cookie: config.CookieConfig{Name: "token", Path: "/"}}
			resp := httptest.NewRecorder()
			IssueToken(stubTokens{}, cfg, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"ada@example.com"}`)))

			require.Equal(t, http.StatusOK, resp.Code)
			assert.JSONEq(t, `{"success":true}`, resp.Body.String())
			cookie := findCookie(resp, "token")
			require.NotNil(t, cookie)
			assert.Equal(t, "signed", cookie.Value)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, tc.secure, cookie.Secure)
			assert.Equal(t, tc.sameSite, cookie.SameSite)
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}, Cookie: config.CookieConfig{Name: "token", Path: "/"}}
	resp := httptest.NewRecorder()
	Logout(cfg).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/logout", nil))

	cookie := findCookie(resp, "token")
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": nil}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": failingPinger{}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestBanner(t *testing.T) {
	resp := httptest.NewRecorder()
	Banner().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Hello from plantNet Server..", resp.Body.String())
}
