package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepath/internal/pathing"
	"tilepath/internal/tilemap"
)

func TestRegisterPathfinderMetrics(t *testing.T) {
	pf := pathing.New(pathing.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, pf.Build(tilemap.NewTwoLayer(30, 10)))

	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterPathfinderMetrics(reg, pf))

	pf.FindPath(pathing.Pt(1, 1), pathing.Pt(28, 8))
	pf.FindPath(pathing.Pt(28, 8), pathing.Pt(1, 1))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 8)

	values := make(map[string]float64)
	for _, mf := range families {
		m := mf.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			values[mf.GetName()] = c.GetValue()
		} else if g := m.GetGauge(); g != nil {
			values[mf.GetName()] = g.GetValue()
		}
	}

	assert.Equal(t, 1.0, values["pathing_cache_misses_total"])
	assert.Equal(t, 1.0, values["pathing_cache_hits_reverse_total"])
	assert.Equal(t, 0.0, values["pathing_shared_searches_total"])
	assert.Positive(t, values["pathing_graph_nodes"])

	// Registering twice is a configuration error
	assert.Error(t, RegisterPathfinderMetrics(reg, pf))
}

func TestDebugMuxBasicAuth(t *testing.T) {
	ts := httptest.NewServer(debugMux(ObservabilityConfig{BasicAuthUser: "ops", BasicAuthPass: "pw"}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest("GET", ts.URL+"/health", nil)
	require.NoError(t, err)
	req.SetBasicAuth("ops", "pw")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIsLoopbackAddr(t *testing.T) {
	for addr, want := range map[string]bool{
		"127.0.0.1:6060": true,
		"localhost:6060": true,
		"[::1]:6060":     true,
		"0.0.0.0:6060":   false,
		":6060":          false,
	} {
		assert.Equal(t, want, isLoopbackAddr(addr), "addr %q", addr)
	}
}
