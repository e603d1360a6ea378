package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"encore-rentals/internal/gateway"
	"encore-rentals/internal/mockbackend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKey = "anon-key"

type staticToken string

func (s staticToken) AccessToken() (string, bool) { return string(s), s != "" }

type instrumentRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	IsAvailable bool   `json:"is_available"`
}

func newBackend(t *testing.T, autoConfirm bool) (*mockbackend.Server, *gateway.Client) {
	t.Helper()
	backend := mockbackend.New(mockbackend.Config{APIKey: apiKey, JWTSecret: "secret", AutoConfirm: autoConfirm})
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	client, err := gateway.New(gateway.Config{URL: ts.URL + "/", APIKey: apiKey})
	require.NoError(t, err)
	return backend, client
}

func TestNew_Validation(t *testing.T) {
	_, err := gateway.New(gateway.Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = gateway.New(gateway.Config{URL: "http://localhost"})
	assert.Error(t, err)
}

func TestClient_FetchInsertUpdate(t *testing.T) {
	backend, client := newBackend(t, true)
	ctx := context.Background()
	backend.Seed("instruments",
		map[string]any{"id": "i1", "name": "Cello", "category": "Strings", "is_available": true},
		map[string]any{"id": "i2", "name": "Flute", "category": "Woodwinds", "is_available": true},
	)

	var rows []instrumentRow
	err := client.Fetch(ctx, "instruments", gateway.Where().Eq("category", "Strings"), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cello", rows[0].Name)

	var all []instrumentRow
	require.NoError(t, client.Fetch(ctx, "instruments", nil, &all))
	assert.Len(t, all, 2)

	var created instrumentRow
	err = client.Insert(ctx, "instruments", map[string]any{"name": "Drum Kit", "category": "Percussion"}, &created)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Drum Kit", created.Name)

	var updated instrumentRow
	err = client.Update(ctx, "instruments", "i2", map[string]any{"is_available": false}, &updated)
	require.NoError(t, err)
	assert.Equal(t, "Flute", updated.Name)
	assert.False(t, updated.IsAvailable)

	err = client.Update(ctx, "instruments", "missing", map[string]any{"is_available": false}, &updated)
	assert.ErrorIs(t, err, gateway.ErrNoRows)
}

func TestClient_UpdateWhere_ComparesCurrentValue(t *testing.T) {
	backend, client := newBackend(t, true)
	ctx := context.Background()
	backend.Seed("rentals", map[string]any{"id": "r1", "status": "pending"})

	var row struct {
		Status string `json:"status"`
	}
	pending := gateway.Where().Eq("id", "r1").Eq("status", "pending")
	require.NoError(t, client.UpdateWhere(ctx, "rentals", pending, map[string]any{"status": "confirmed"}, &row))
	assert.Equal(t, "confirmed", row.Status)

	err := client.UpdateWhere(ctx, "rentals", pending, map[string]any{"status": "cancelled"}, &row)
	assert.ErrorIs(t, err, gateway.ErrNoRows)
	assert.Equal(t, "confirmed", backend.Rows("rentals")[0]["status"])

	err = client.UpdateWhere(ctx, "rentals", gateway.Where(), map[string]any{"status": "cancelled"}, nil)
	assert.Error(t, err)
}

func TestClient_AuthErrors(t *testing.T) {
	_, client := newBackend(t, true)
	ctx := context.Background()

	_, err := client.SignInWithPassword(ctx, "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, gateway.KindAuth, gateway.KindOf(err))
	assert.Equal(t, "Invalid login credentials", gateway.Message(err))

	var rows []instrumentRow
	err = client.WithTokenSource(staticToken("not-a-jwt")).Fetch(ctx, "instruments", nil, &rows)
	require.Error(t, err)
	assert.Equal(t, gateway.KindAuth, gateway.KindOf(err))
}

func TestClient_SignUpSession(t *testing.T) {
	_, client := newBackend(t, true)
	ctx := context.Background()

	resp, err := client.SignUp(ctx, gateway.SignUpRequest{
		Email:    "host@example.com",
		Password: "secret1",
		Data:     gateway.UserMetadata{Name: "Hana", Role: "host"},
	})
	require.NoError(t, err)
	session, ok := resp.ActiveSession()
	require.True(t, ok)
	require.NotNil(t, session.User)
	assert.Equal(t, "host", session.User.UserMetadata.Role)

	// The issued token authorises table calls.
	var rows []map[string]any
	err = client.WithTokenSource(staticToken(session.AccessToken)).Fetch(ctx, "users", nil, &rows)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	signedIn, err := client.SignInWithPassword(ctx, "host@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, signedIn.User.ID)
}

func TestClient_SignUpPendingConfirmation(t *testing.T) {
	_, client := newBackend(t, false)

	resp, err := client.SignUp(context.Background(), gateway.SignUpRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, ok := resp.ActiveSession()
	assert.False(t, ok)
}

func TestClient_RemoteAndDecodeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/broken":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"relation does not exist"}`))
		default:
			_, _ = w.Write([]byte(`{not json`))
		}
	}))
	defer srv.Close()

	client, err := gateway.New(gateway.Config{URL: srv.URL, APIKey: apiKey})
	require.NoError(t, err)

	var rows []instrumentRow
	err = client.Fetch(context.Background(), "broken", nil, &rows)
	require.Error(t, err)
	assert.Equal(t, gateway.KindRemote, gateway.KindOf(err))
	assert.Equal(t, "relation does not exist", gateway.Message(err))

	err = client.Fetch(context.Background(), "garbled", nil, &rows)
	assert.Equal(t, gateway.KindDecode, gateway.KindOf(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := gateway.New(gateway.Config{URL: srv.URL, APIKey: apiKey})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var rows []instrumentRow
	err = client.Fetch(ctx, "instruments", nil, &rows)
	require.Error(t, err)
	assert.Equal(t, gateway.KindTransport, gateway.KindOf(err))
}
