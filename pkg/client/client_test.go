package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClientSendsHeaders(t *testing.T) {
	var gotKey, gotUser, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotUser = r.Header.Get("X-User-ID")
		gotAgent = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode([]Policy{})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithAPIKey("sekrit"), WithUserID("alice"))
	require.NoError(t, err)

	_, err = c.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sekrit", gotKey)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "insuraiq-go-sdk/1.0", gotAgent)
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"POL_001","message":"policy not found"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.GetPolicy(context.Background(), 42)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "POL_001", apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.True(t, apiErr.IsNotFound())
	assert.Contains(t, apiErr.Error(), "POL_001")
}

func TestCompareRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/compare", r.URL.Path)

		var body map[string][]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{1, 2}, body["policy_ids"])

		_ = json.NewEncoder(w).Encode(CompareResult{
			Policies:        []Policy{{ID: 1}, {ID: 2}},
			Recommendations: []string{"Policy 1 offers the lowest premium"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	result, err := c.Compare(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, result.Policies, 2)
	assert.Len(t, result.Recommendations, 1)
}

func TestQuotesQueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "home", q.Get("product_type"))
		assert.Equal(t, "300000", q.Get("coverage_limit"))
		_ = json.NewEncoder(w).Encode([]Quote{{Insurer: "Alpha", Monthly: 29.0}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	offers, err := c.Quotes(context.Background(), "home", 300000, 500)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Alpha", offers[0].Insurer)
}
