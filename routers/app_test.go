package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"coderr/config"
	"coderr/database"
	"coderr/database/dbtest"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type session struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Defaults()
	cfg.SaltRound = 4
	cfg.UploadDir = t.TempDir()
	cfg.MaxRequestsPerMin = 10000
	cfg.JWTKey = "test-secret"

	prevCfg, prevDB := config.AppConfig, database.Database
	config.AppConfig = cfg
	database.Database = database.DbInstance{Db: dbtest.Open(t)}
	t.Cleanup(func() {
		config.AppConfig = prevCfg
		database.Database = prevDB
	})

	return NewApp(cfg)
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

func registerUser(t *testing.T, app *fiber.App, username, userType string) session {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/registration/", "", map[string]string{
		"username":          username,
		"email":             username + "@mail.de",
		"password":          "secret123",
		"repeated_password": "secret123",
		"type":              userType,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	return decode[session](t, env)
}

type offerBody struct {
	ID              uint   `json:"id"`
	User            uint   `json:"user"`
	MinPrice        string `json:"min_price"`
	MinDeliveryTime int    `json:"min_delivery_time"`
	Details         []struct {
		ID        uint   `json:"id"`
		URL       string `json:"url"`
		Price     string `json:"price"`
		OfferType string `json:"offer_type"`
	} `json:"details"`
	OwnerContact *struct {
		Email string `json:"email"`
	} `json:"owner_contact"`
}

type orderBody struct {
	ID             uint   `json:"id"`
	BusinessUserID uint   `json:"business_user"`
	CustomerUserID uint   `json:"customer_user"`
	Price          string `json:"price"`
	Status         string `json:"status"`
}

func basicOffer(price string, days int) map[string]any {
	return map[string]any{
		"title":       "Logo design",
		"description": "Clean logos",
		"details": []map[string]any{{
			"title":                 "Basic",
			"revisions":             2,
			"delivery_time_in_days": days,
			"price":                 price,
			"features":              []string{"logo"},
			"offer_type":            "basic",
		}},
	}
}

func assertPrice(t *testing.T, want, got string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(got)), "want %s, got %s", want, got)
}

func TestOrderKeepsPurchasePrice(t *testing.T) {
	app := newTestApp(t)
	business := registerUser(t, app, "biz", "business")
	customer := registerUser(t, app, "cust", "customer")

	status, env := call(t, app, http.MethodPost, "/api/offers/", business.Token, basicOffer("100.00", 3))
	require.Equal(t, http.StatusCreated, status, string(env.Data))
	offer := decode[offerBody](t, env)
	require.Len(t, offer.Details, 1)
	assertPrice(t, "100.00", offer.MinPrice)

	status, env = call(t, app, http.MethodPost, "/api/orders/", customer.Token, map[string]any{"offer_detail_id": offer.Details[0].ID})
	require.Equal(t, http.StatusCreated, status, string(env.Data))
	order := decode[orderBody](t, env)
	assert.Equal(t, business.UserID, order.BusinessUserID)
	assert.Equal(t, customer.UserID, order.CustomerUserID)
	assertPrice(t, "100.00", order.Price)
	assert.Equal(t, "in_progress", order.Status)

	status, env = call(t, app, http.MethodPatch, fmt.Sprintf("/api/offers/%d/", offer.ID), business.Token, map[string]any{
		"details": []map[string]any{{"offer_type": "basic", "price": "150.00"}},
	})
	require.Equal(t, http.StatusOK, status, string(env.Data))
	updated := decode[offerBody](t, env)
	assertPrice(t, "150.00", updated.MinPrice)
	assert.Equal(t, offer.Details[0].ID, updated.Details[0].ID)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/api/orders/%d/", order.ID), customer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assertPrice(t, "100.00", decode[orderBody](t, env).Price)

	status, env = call(t, app, http.MethodPatch, fmt.Sprintf("/api/orders/%d/", order.ID), business.Token, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, status, string(env.Data))
	assert.Equal(t, "completed", decode[orderBody](t, env).Status)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/api/completed-order-count/%d/", business.UserID), customer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]int](t, env)["completed_order_count"])

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/api/order-count/%d/", business.UserID), customer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, decode[map[string]int](t, env)["order_count"])
}

func TestCreateOrderWithMissingDetail(t *testing.T) {
	app := newTestApp(t)
	customer := registerUser(t, app, "cust", "customer")

	status, env := call(t, app, http.MethodPost, "/api/orders/", customer.Token, map[string]any{"offer_detail_id": 4242})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Invalid ID.", decode[map[string]string](t, env)["offer_detail_id"])

	status, env = call(t, app, http.MethodGet, "/api/orders/", customer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]orderBody](t, env))
}

func TestOfferListing(t *testing.T) {
	app := newTestApp(t)
	business := registerUser(t, app, "biz", "business")
	customer := registerUser(t, app, "cust", "customer")

	for _, price := range []string{"30", "10", "20"} {
		status, env := call(t, app, http.MethodPost, "/api/offers/", business.Token, basicOffer(price, 2))
		require.Equal(t, http.StatusCreated, status, string(env.Data))
	}

	type listBody struct {
		Count    int         `json:"count"`
		Next     *string     `json:"next"`
		Previous *string     `json:"previous"`
		Results  []offerBody `json:"results"`
	}

	status, env := call(t, app, http.MethodGet, "/api/offers/?ordering=min_price&page_size=2", "", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[listBody](t, env)
	assert.Equal(t, 3, list.Count)
	require.Len(t, list.Results, 2)
	assertPrice(t, "10", list.Results[0].MinPrice)
	assertPrice(t, "20", list.Results[1].MinPrice)
	assert.Nil(t, list.Results[0].OwnerContact)
	assert.Contains(t, list.Results[0].Details[0].URL, fmt.Sprintf("/api/offerdetails/%d/", list.Results[0].Details[0].ID))
	require.NotNil(t, list.Next)
	assert.Contains(t, *list.Next, "page=2")
	assert.Contains(t, *list.Next, "ordering=min_price")
	assert.Nil(t, list.Previous)

	status, env = call(t, app, http.MethodGet, "/api/offers/?ordering=min_price&page_size=2&page=2", customer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	list = decode[listBody](t, env)
	require.Len(t, list.Results, 1)
	assertPrice(t, "30", list.Results[0].MinPrice)
	require.NotNil(t, list.Results[0].OwnerContact)
	assert.Equal(t, "biz@mail.de", list.Results[0].OwnerContact.Email)
	assert.Nil(t, list.Next)
	require.NotNil(t, list.Previous)
	assert.NotContains(t, *list.Previous, "page=")

	status, env = call(t, app, http.MethodGet, "/api/offers/?min_price=15", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, decode[listBody](t, env).Count)

	status, _ = call(t, app, http.MethodGet, "/api/offers/?page=9&page_size=2", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, app, http.MethodGet, "/api/offers/?min_price=abc&max_delivery_time=-1&creator_id=x&page=0", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	fields := decode[map[string]string](t, env)
	assert.Contains(t, fields, "min_price")
	assert.Contains(t, fields, "max_delivery_time")
	assert.Contains(t, fields, "creator_id")
	assert.Contains(t, fields, "page")
}

func TestOfferAccess(t *testing.T) {
	app := newTestApp(t)
	business := registerUser(t, app, "biz", "business")
	other := registerUser(t, app, "other", "business")
	customer := registerUser(t, app, "cust", "customer")

	status, _ := call(t, app, http.MethodPost, "/api/offers/", "", basicOffer("10", 1))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/offers/", customer.Token, basicOffer("10", 1))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodPost, "/api/offers/", "not-a-token", basicOffer("10", 1))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := call(t, app, http.MethodPost, "/api/offers/", business.Token, basicOffer("10", 1))
	require.Equal(t, http.StatusCreated, status)
	offer := decode[offerBody](t, env)

	path := fmt.Sprintf("/api/offers/%d/", offer.ID)
	status, _ = call(t, app, http.MethodPatch, path, other.Token, map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodDelete, path, other.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/offers/9999/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/offers/abc/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/api/offerdetails/%d/", offer.Details[0].ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "basic", decode[map[string]any](t, env)["offer_type"])

	status, env = call(t, app, http.MethodPost, "/api/offers/", business.Token, map[string]any{
		"title":       "bad",
		"description": "bad",
		"details":     []map[string]any{{"title": "x", "delivery_time_in_days": 0, "price": "-1", "offer_type": "gold"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	fields := decode[map[string]string](t, env)
	assert.Contains(t, fields, "details[0].price")
	assert.Contains(t, fields, "details[0].offer_type")

	status, _ = call(t, app, http.MethodDelete, path, business.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOfferImageUpload(t *testing.T) {
	app := newTestApp(t)
	business := registerUser(t, app, "biz", "business")
	other := registerUser(t, app, "other", "business")

	status, env := call(t, app, http.MethodPost, "/api/offers/", business.Token, basicOffer("10", 1))
	require.Equal(t, http.StatusCreated, status)
	offer := decode[offerBody](t, env)

	upload := func(token string, offerID uint, filename string) (int, envelope) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/offers/%d/image/", offerID), &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		return send(t, app, req)
	}
	stored := func() []string {
		files, err := filepath.Glob(filepath.Join(config.AppConfig.UploadDir, "offers", "*"))
		require.NoError(t, err)
		return files
	}

	status, _ = upload(business.Token, offer.ID, "logo.exe")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = upload(other.Token, offer.ID, "logo.png")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = upload(business.Token, offer.ID+100, "logo.png")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, stored(), "refused uploads must not reach the disk")

	status, env = upload(business.Token, offer.ID, "logo.png")
	require.Equal(t, http.StatusOK, status, env.Message)
	image, _ := decode[map[string]any](t, env)["image"].(string)
	assert.Regexp(t, `^/uploads/offers/.+\.png$`, image)
	assert.Len(t, stored(), 1)
}

func TestProfileFileUploadRequiresOwner(t *testing.T) {
	app := newTestApp(t)
	owner := registerUser(t, app, "owner", "customer")
	other := registerUser(t, app, "other", "customer")

	upload := func(token string) int {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "me.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/profile/%d/file/", owner.UserID), &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		status, _ := send(t, app, req)
		return status
	}
	stored := func() []string {
		files, err := filepath.Glob(filepath.Join(config.AppConfig.UploadDir, "profiles", "*"))
		require.NoError(t, err)
		return files
	}

	assert.Equal(t, http.StatusForbidden, upload(other.Token))
	assert.Empty(t, stored())

	assert.Equal(t, http.StatusOK, upload(owner.Token))
	assert.Len(t, stored(), 1)
}

func TestReviewsAndBaseInfo(t *testing.T) {
	app := newTestApp(t)
	business := registerUser(t, app, "biz", "business")
	customer := registerUser(t, app, "cust", "customer")

	body := map[string]any{"business_user": business.UserID, "rating": 4, "description": "good"}
	status, env := call(t, app, http.MethodPost, "/api/reviews/", customer.Token, body)
	require.Equal(t, http.StatusCreated, status, string(env.Data))

	status, _ = call(t, app, http.MethodPost, "/api/reviews/", customer.Token, body)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/api/reviews/", business.Token, body)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/api/reviews/?business_user_id=%d", business.UserID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	status, env = call(t, app, http.MethodGet, "/api/base-info/", "", nil)
	require.Equal(t, http.StatusOK, status)
	info := decode[map[string]float64](t, env)
	assert.Equal(t, 1.0, info["review_count"])
	assert.Equal(t, 4.0, info["average_rating"])
	assert.Equal(t, 1.0, info["business_profile_count"])
	assert.Equal(t, 0.0, info["offer_count"])
}

func TestProfilesAndLogin(t *testing.T) {
	app := newTestApp(t)
	business := registerUser(t, app, "biz", "business")
	customer := registerUser(t, app, "cust", "customer")

	status, env := call(t, app, http.MethodPost, "/api/login/", "", map[string]string{"username": "biz", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, business.UserID, decode[session](t, env).UserID)

	status, _ = call(t, app, http.MethodPost, "/api/login/", "", map[string]string{"username": "biz", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/registration/", "", map[string]string{
		"username": "x", "email": "x@mail.de", "password": "secret123", "repeated_password": "other", "type": "customer",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	path := fmt.Sprintf("/api/profile/%d/", business.UserID)
	status, _ = call(t, app, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPatch, path, customer.Token, map[string]string{"location": "Berlin"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, app, http.MethodPatch, path, business.Token, map[string]string{"location": "Berlin"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Berlin", decode[map[string]any](t, env)["location"])

	status, env = call(t, app, http.MethodGet, "/api/profiles/business/", customer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	status, _ = call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
