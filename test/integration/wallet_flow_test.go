package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmhouse/wallet-api/internal/config"
	"github.com/dmhouse/wallet-api/internal/eventbus"
	"github.com/dmhouse/wallet-api/internal/handler"
	"github.com/dmhouse/wallet-api/internal/server"
	"github.com/dmhouse/wallet-api/internal/service"
	"github.com/dmhouse/wallet-api/internal/storage"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*httptest.Server, eventbus.EventBus, string) {
	t.Helper()

	log := logger.NewNop()
	repo := storage.NewMemoryStore()

	snapshotPath := filepath.Join(t.TempDir(), "wallet-state.json")
	snapshotter := storage.NewFileSnapshotter(snapshotPath)

	bus := eventbus.New(log, &eventbus.Config{
		ChannelBuffer: 100,
		MaxRetries:    3,
	})
	err := bus.Subscribe(eventbus.EventTypeStateChanged, eventbus.NewSnapshotConsumer(repo, snapshotter, log))
	require.NoError(t, err)
	require.NoError(t, bus.Start(context.Background()))

	authService := service.NewAuthService(repo, bus, log, "integration-secret", time.Hour)
	activityService := service.NewActivityService(repo, log)
	paymentMethodService := service.NewPaymentMethodService(repo, bus, log)
	transactionService := service.NewTransactionService(repo, bus, log)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
	}

	srv := server.New(
		cfg,
		log,
		authService,
		handler.NewAuthHandler(authService, log),
		handler.NewActivityHandler(activityService, log),
		handler.NewPaymentMethodHandler(paymentMethodService, log),
		handler.NewTransactionHandler(transactionService, repo, log),
		handler.NewHealthHandler(),
	)

	return httptest.NewServer(srv.Handler()), bus, snapshotPath
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func registerUser(t *testing.T, baseURL string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, baseURL+"/auth/register", "", map[string]string{
		"email":            "demo@digitalmoney.com",
		"password":         "password123",
		"confirm_password": "password123",
		"first_name":       "Demo",
		"last_name":        "User",
		"phone":            "+5491123456789",
		"dni":              "30123456",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, ok := body["token"].(string)
	require.True(t, ok, "register response must carry a token")
	return token
}

func TestWalletFlow(t *testing.T) {
	srv, bus, _ := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	registerUser(t, srv.URL)

	// Login with the registered credentials.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email":    "demo@digitalmoney.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loginToken := body["token"].(string)
	require.NotEmpty(t, loginToken)

	// Add two cards. The first becomes the default.
	resp, firstCard := doJSON(t, http.MethodPost, srv.URL+"/api/cards", loginToken, map[string]string{
		"type":        "credit",
		"card_number": "4111 1111 1111 1111",
		"card_holder": "DEMO USER",
		"expiry_date": "12/30",
		"cvv":         "123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "visa", firstCard["brand"])
	assert.Equal(t, true, firstCard["is_default"])

	resp, secondCard := doJSON(t, http.MethodPost, srv.URL+"/api/cards", loginToken, map[string]string{
		"type":        "debit",
		"card_number": "5555555555554444",
		"card_holder": "DEMO USER",
		"expiry_date": "11/29",
		"cvv":         "456",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "mastercard", secondCard["brand"])
	assert.Equal(t, false, secondCard["is_default"])

	// Promote the second card.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/cards/"+secondCard["id"].(string)+"/default", loginToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, cards := doJSON(t, http.MethodGet, srv.URL+"/api/cards", loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), cards["count"])
	defaults := 0
	for _, raw := range cards["cards"].([]interface{}) {
		card := raw.(map[string]interface{})
		if card["is_default"].(bool) {
			defaults++
			assert.Equal(t, secondCard["id"], card["id"])
		}
	}
	assert.Equal(t, 1, defaults)

	// Fund the wallet.
	resp, deposit := doJSON(t, http.MethodPost, srv.URL+"/api/deposits", loginToken, map[string]interface{}{
		"amount":            50000,
		"payment_method_id": firstCard["id"],
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(50000), deposit["amount"])
	assert.Regexp(t, `^OP\d{9}$`, deposit["operation_number"])

	resp, profile := doJSON(t, http.MethodGet, srv.URL+"/api/profile", loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(50000), profile["balance"])

	// Pay a service from the wallet balance.
	resp, payment := doJSON(t, http.MethodPost, srv.URL+"/api/payments", loginToken, map[string]interface{}{
		"service_id":     "1",
		"account_number": "123456789",
		"amount":         15000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(-15000), payment["amount"])

	resp, profile = doJSON(t, http.MethodGet, srv.URL+"/api/profile", loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(35000), profile["balance"])

	// Activity shows both movements, newest first.
	resp, activity := doJSON(t, http.MethodGet, srv.URL+"/api/activity", loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := activity["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "payment", items[0].(map[string]interface{})["type"])
	assert.Equal(t, "deposit", items[1].(map[string]interface{})["type"])
	summary := activity["summary"].(map[string]interface{})
	assert.Equal(t, float64(50000), summary["total_deposited"])
	assert.Equal(t, float64(15000), summary["total_paid"])

	// Filter by type and search by description.
	resp, activity = doJSON(t, http.MethodGet, srv.URL+"/api/activity?type=payment", loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, activity["items"].([]interface{}), 1)

	resp, activity = doJSON(t, http.MethodGet, srv.URL+"/api/activity?q=edesur", loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, activity["items"].([]interface{}), 1)

	// Transaction detail by id.
	txID := items[0].(map[string]interface{})["id"].(string)
	resp, detail := doJSON(t, http.MethodGet, srv.URL+"/api/activity/"+txID, loginToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, txID, detail["id"])
}

func TestInsufficientBalancePaymentIsRecorded(t *testing.T) {
	srv, bus, _ := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	token := registerUser(t, srv.URL)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/payments", token, map[string]interface{}{
		"service_id":     "2",
		"account_number": "123456789",
		"amount":         9999,
	})
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	failed := body["transaction"].(map[string]interface{})
	assert.Equal(t, "failed", failed["status"])
	assert.Equal(t, float64(-9999), failed["amount"])

	// The failed attempt shows up in the activity history.
	resp, activity := doJSON(t, http.MethodGet, srv.URL+"/api/activity", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := activity["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "failed", items[0].(map[string]interface{})["status"])
}

func TestActivityPagination(t *testing.T) {
	srv, bus, _ := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	token := registerUser(t, srv.URL)

	resp, card := doJSON(t, http.MethodPost, srv.URL+"/api/cards", token, map[string]string{
		"type":        "credit",
		"card_number": "4111111111111111",
		"card_holder": "DEMO USER",
		"expiry_date": "12/30",
		"cvv":         "123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for i := 0; i < 12; i++ {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/deposits", token, map[string]interface{}{
			"amount":            1000,
			"payment_method_id": card["id"],
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "deposit %d", i)
	}

	resp, page1 := doJSON(t, http.MethodGet, srv.URL+"/api/activity?page=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page1["items"].([]interface{}), 10)
	assert.Equal(t, float64(2), page1["total_pages"])
	assert.Equal(t, float64(12), page1["total_items"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, page1["page_numbers"])

	resp, page2 := doJSON(t, http.MethodGet, srv.URL+"/api/activity?page=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page2["items"].([]interface{}), 2)
}

func TestUnauthorizedRequests(t *testing.T) {
	srv, bus, _ := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	for _, path := range []string{"/api/profile", "/api/activity", "/api/cards", "/api/services"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSnapshotWrittenAfterStateChange(t *testing.T) {
	srv, bus, snapshotPath := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	token := registerUser(t, srv.URL)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/cards", token, map[string]string{
		"type":        "credit",
		"card_number": "4111111111111111",
		"card_holder": "DEMO USER",
		"expiry_date": "12/30",
		"cvv":         "123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(snapshotPath)
		return err == nil && len(data) > 0
	}, 5*time.Second, 100*time.Millisecond, "snapshot file should be written asynchronously")
}

func TestHealthCheck(t *testing.T) {
	srv, bus, _ := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
	assert.NotEmpty(t, result["timestamp"])
}

func TestServiceCatalog(t *testing.T) {
	srv, bus, _ := setupTestServer(t)
	defer srv.Close()
	defer bus.Shutdown(context.Background())

	token := registerUser(t, srv.URL)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/services", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	services := body["services"].([]interface{})
	require.NotEmpty(t, services)
	names := make([]string, 0, len(services))
	for _, raw := range services {
		names = append(names, fmt.Sprintf("%v", raw.(map[string]interface{})["name"]))
	}
	assert.Contains(t, names, "Edesur")
	assert.Contains(t, names, "Netflix")
}
