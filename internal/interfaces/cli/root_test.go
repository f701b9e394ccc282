package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/pkg/client"
)

// execute runs the CLI against the given fake API server and returns stdout.
func execute(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", serverURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func fakeAPI(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		v, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"COMMON_005","message":"not found"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDefaultServerMatchesAPIPort(t *testing.T) {
	f := NewRootCommand().PersistentFlags().Lookup("server")
	require.NotNil(t, f)

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, fmt.Sprintf("http://localhost:%d", cfg.Server.Port), f.DefValue)
}

func TestPoliciesListCommand(t *testing.T) {
	srv := fakeAPI(t, map[string]any{
		"GET /api/policies": []client.Policy{
			{ID: 1, PolicyNumber: "POL-100", Insurer: "Acme", ProductType: "auto", PremiumMonthly: 120.5, CoverageLimit: 250000},
		},
	})

	out, err := execute(t, srv.URL, "policies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "POL-100")
	assert.Contains(t, out, "Acme")
}

func TestPoliciesListJSONOutput(t *testing.T) {
	srv := fakeAPI(t, map[string]any{
		"GET /api/policies": []client.Policy{{ID: 7, PolicyNumber: "POL-7"}},
	})

	out, err := execute(t, srv.URL, "policies", "list", "-o", "json")
	require.NoError(t, err)

	var decoded []client.Policy
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(7), decoded[0].ID)
}

func TestPoliciesCreateCommand(t *testing.T) {
	srv := fakeAPI(t, map[string]any{
		"POST /api/policies": client.Policy{ID: 3, PolicyNumber: "POL-300"},
	})

	dir := t.TempDir()
	file := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"owner_name":"Dana","insurer":"Acme","product_type":"auto","policy_number":"POL-300"}`), 0o644))

	out, err := execute(t, srv.URL, "policies", "create", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Created policy 3")
}

func TestCompareCommandRequiresTwoIDs(t *testing.T) {
	srv := fakeAPI(t, nil)
	_, err := execute(t, srv.URL, "compare", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 policy ids")
}

func TestCompareCommand(t *testing.T) {
	srv := fakeAPI(t, map[string]any{
		"POST /api/compare": client.CompareResult{
			Policies:        []client.Policy{{ID: 1, Insurer: "Acme", PolicyNumber: "POL-1"}, {ID: 2, Insurer: "Beta", PolicyNumber: "POL-2"}},
			Recommendations: []string{"Policy 1 offers the lowest premium"},
		},
	})

	out, err := execute(t, srv.URL, "compare", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Compared 2 policies")
	assert.Contains(t, out, "lowest premium")
}

func TestAdviseSummaryCommand(t *testing.T) {
	srv := fakeAPI(t, map[string]any{
		"GET /api/portfolio/summary": client.PortfolioSummary{
			ByType: map[string]client.TypeTotals{
				"auto": {Count: 2, Premium: 200, Coverage: 350000},
			},
			TotalPremium: 200,
		},
	})

	out, err := execute(t, srv.URL, "advise", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "auto")
	assert.Contains(t, out, "Total monthly premium: 200.00")
}

func TestQuotesCommand(t *testing.T) {
	srv := fakeAPI(t, map[string]any{
		"GET /api/quotes": []client.Quote{
			{Insurer: "Alpha", Monthly: 28.0, Deductible: 500, Coverage: 100000},
		},
	})

	out, err := execute(t, srv.URL, "quotes", "--type", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
}

func TestExtractCommandOffline(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "car_policy.txt")
	doc := `Insurance Policy
Policy Number: POL-2024-555
Insurer: Alpha Insurance Ltd
Owner Name: Dana Levi
Monthly Premium: 120.50
`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o644))

	// No server needed; extraction runs locally.
	srv := fakeAPI(t, nil)
	out, err := execute(t, srv.URL, "extract", file)
	require.NoError(t, err)
	assert.Contains(t, out, "POL-2024-555")
	assert.Contains(t, out, "Alpha Insurance Ltd")
}

func TestAPIErrorSurfacesToUser(t *testing.T) {
	srv := fakeAPI(t, nil)
	_, err := execute(t, srv.URL, "policies", "get", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMON_005")
}
