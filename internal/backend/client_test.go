package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret", 2*time.Second, zap.NewNop())
}

func TestClient_GetUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(InternalTokenHeader))
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/users/by_external/tg/100", r.URL.Path)
		w.Write([]byte(`{"tg_id":100,"phone":"79001234567","full_name":"Ivan","role":"client","ui_chat_id":100,"ui_message_id":55}`))
	})

	user, err := client.GetUser(context.Background(), domain.PlatformTelegram, 100)
	require.NoError(t, err)

	assert.Equal(t, "79001234567", user.Phone)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Equal(t, domain.UIPointer{ChatID: 100, MessageID: 55}, user.Pointer(0))
}

func TestClient_GetUser_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"User not found"}`, http.StatusNotFound)
	})

	user, err := client.GetUser(context.Background(), domain.PlatformTelegram, 1)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_SetPhone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/set_phone", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tg", body["platform"])
		assert.EqualValues(t, 7, body["external_id"])
		assert.Equal(t, "+7 900 123-45-67", body["phone"])
		assert.Equal(t, "Ivan Petrov", body["full_name"])

		w.Write([]byte(`{"tg_id":7,"phone":"79001234567","full_name":"Ivan Petrov","role":null}`))
	})

	user, err := client.SetPhone(context.Background(), domain.PlatformTelegram, 7, "+7 900 123-45-67", "Ivan Petrov")
	require.NoError(t, err)
	assert.True(t, user.HasPhone())
	assert.False(t, user.HasRole())
}

func TestClient_SetPhone_OmitsEmptyName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["full_name"]
		assert.False(t, present)
		w.Write([]byte(`{}`))
	})

	_, err := client.SetPhone(context.Background(), domain.PlatformVK, 7, "79001234567", "")
	require.NoError(t, err)
}

func TestClient_PostStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Неверный телефон"}`))
	})

	_, err := client.SetPhone(context.Background(), domain.PlatformTelegram, 7, "123", "")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Неверный телефон")
}

func TestClient_SetUIMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/set_ui_message", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"platform":"tg","external_id":5,"chat_id":50,"message_id":900}`, string(raw))
		w.Write([]byte(`{"tg_id":5}`))
	})

	err := client.SetUIMessage(context.Background(), domain.PlatformTelegram, 5, domain.UIPointer{ChatID: 50, MessageID: 900})
	assert.NoError(t, err)
}

func TestClient_CreateOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/create", r.URL.Path)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "79001234567", req.Phone)
		assert.Equal(t, []string{"B", "C"}, req.ToAddresses)
		require.Len(t, req.ToLats, 2)
		assert.Nil(t, req.ToLats[1])
		require.NotNil(t, req.TelegramUser)
		assert.Nil(t, req.VKUser)

		w.Write([]byte(`{"taxomet_order_id":123456789,"status":"new"}`))
	})

	lat := 53.0
	tg := int64(9)
	resp, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Phone:        "79001234567",
		FromAddress:  "A",
		ToAddresses:  []string{"B", "C"},
		ToLats:       []*float64{&lat, nil},
		ToLons:       []*float64{&lat, nil},
		TelegramUser: &tg,
		ExternID:     "tg-9-abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789", resp.ID())
	assert.Equal(t, "new", resp.Status)
}

func TestCreateOrderResponse_ID(t *testing.T) {
	assert.Equal(t, "", (&CreateOrderResponse{}).ID())
	assert.Equal(t, "A-1", (&CreateOrderResponse{OrderID: " A-1 "}).ID())
	assert.Equal(t, "42", (&CreateOrderResponse{OrderID: json.Number("42")}).ID())
}

func TestClient_SubmitDriverLocation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/drivers/location", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"driver_id":3,"tg_id":3,"lat":52.9,"lon":158.4,"phone":"79001234567","name":"Петр"}`, string(raw))
		w.Write([]byte(`{"ok":true}`))
	})

	err := client.SubmitDriverLocation(context.Background(), domain.DriverLocation{
		Platform:   domain.PlatformTelegram,
		DriverID:   3,
		ExternalID: 3,
		Lat:        52.9,
		Lon:        158.4,
		Phone:      "79001234567",
		Name:       "Петр",
	})
	assert.NoError(t, err)
}

func TestClient_Geocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/geo/search", r.URL.Path)
		assert.Equal(t, "Аэропорт, Вилючинск", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"display_name":"Аэропорт Елизово","lat":"53.1679","lon":158.4536}]`))
	})

	results, err := client.Geocode(context.Background(), "Аэропорт, Вилючинск", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	lat, lon, ok := results[0].Coordinates()
	assert.True(t, ok)
	assert.InDelta(t, 53.1679, lat, 1e-9)
	assert.InDelta(t, 158.4536, lon, 1e-9)
}

func TestGeoResult_Coordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
		ok   bool
	}{
		{name: "numbers", lat: `53.1`, lon: `158.4`, ok: true},
		{name: "strings", lat: `"53.1"`, lon: `" 158.4 "`, ok: true},
		{name: "non numeric", lat: `"north"`, lon: `158.4`, ok: false},
		{name: "null", lat: `null`, lon: `158.4`, ok: false},
		{name: "missing", lat: ``, lon: ``, ok: false},
		{name: "nan", lat: `"NaN"`, lon: `158.4`, ok: false},
		{name: "infinity", lat: `53.1`, lon: `"Inf"`, ok: false},
		{name: "negative infinity", lat: `"-Infinity"`, lon: `158.4`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := GeoResult{Lat: json.RawMessage(tt.lat), Lon: json.RawMessage(tt.lon)}
			_, _, ok := r.Coordinates()
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 20*time.Millisecond, zap.NewNop())
	_, err := client.GetUser(context.Background(), domain.PlatformTelegram, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
