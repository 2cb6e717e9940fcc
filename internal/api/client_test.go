package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffinbox/internal/models"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"data":    data,
		"message": message,
	})
}

func TestCreateOrderReturnsID(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var order models.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.Equal(t, "Asha", order.Customer.Name)

		writeEnvelope(w, http.StatusCreated, true, map[string]string{"id": "ord-42"}, "")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok123")

	id, err := client.CreateOrder(context.Background(), &models.Order{
		Customer: models.Customer{Name: "Asha", Phone: "9999"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-42", id)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestGetOrderDecodesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/ord-42", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, map[string]interface{}{
			"id":     "ord-42",
			"status": "preparing",
			"rider":  map[string]string{"name": "Ravi", "phone": "8888"},
		}, "")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	order, err := client.GetOrder(context.Background(), "ord-42")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	require.NotNil(t, order.Rider)
	assert.Equal(t, "Ravi", order.Rider.Name)
}

func TestServerReportedFailurePassesMessageThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, nil, "Kitchen is closed for the day")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetPackages(context.Background())
	require.Error(t, err)

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "Kitchen is closed for the day", serverErr.Message)
	assert.Equal(t, "Kitchen is closed for the day", UserMessage(err))
}

func TestHTTPErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Health(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestHTTPErrorPrefersEnvelopeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "phone already registered")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Register(context.Background(), RegisterRequest{Phone: "9999"})
	require.Error(t, err)

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "phone already registered", serverErr.Message)
}

func TestTimeoutIsDistinguishable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeEnvelope(w, http.StatusOK, true, nil, "")
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(20*time.Millisecond))
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout classification, got %v", err)
	assert.False(t, IsUnreachable(err))
}

func TestCancellationSurfacesAsTimeout(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewClient(server.URL)
	err := client.Health(ctx)
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout classification, got %v", err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, IsUnreachable(err))
}

func TestUnreachableIsDistinguishable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(server.URL)
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnreachable(err), "expected unreachable classification, got %v", err)
	assert.False(t, IsTimeout(err))
}

func TestGetPackagesByDayBuildsQuery(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, true, []models.PackageMeal{{ID: "p1", Day: "Monday"}}, "")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	packages, err := client.GetPackagesByDay(context.Background(), "Monday", "lunch")
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "/packages/day/Monday", gotPath)
	assert.Equal(t, "mealType=lunch", gotQuery)
}

func TestMealComponentAcceptsBothShapes(t *testing.T) {
	// Package contents arrive either as bare strings or as name/image objects.
	raw := `{"id":"p1","day":"Monday","mealType":"lunch","price":150,
		"contents":["Rice", {"name":"Dal Tadka","image":"dal.jpg"}]}`

	var meal models.PackageMeal
	require.NoError(t, json.Unmarshal([]byte(raw), &meal))
	require.Len(t, meal.Contents, 2)
	assert.Equal(t, "Rice", meal.Contents[0].Name)
	assert.Equal(t, "Dal Tadka", meal.Contents[1].Name)
	assert.Equal(t, "dal.jpg", meal.Contents[1].Image)
}
