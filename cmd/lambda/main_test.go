package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meur/teamforge/internal/teams"
	"github.com/meur/teamforge/internal/testhelpers"
)

func invoke(t *testing.T, body string, base64Encoded bool) events.LambdaFunctionURLResponse {
	t.Helper()
	h := newHandler(testhelpers.Dataset(t), zaptest.NewLogger(t))
	if base64Encoded {
		body = base64.StdEncoding.EncodeToString([]byte(body))
	}
	resp, err := h(context.Background(), events.LambdaFunctionURLRequest{Body: body, IsBase64Encoded: base64Encoded})
	require.NoError(t, err)
	return resp
}

func TestHandler_Recommend(t *testing.T) {
	req := map[string]interface{}{
		"pool":  testhelpers.AllIDs(),
		"focal": []string{testhelpers.Acheron},
		"mode":  "moc",
		"investments": []map[string]interface{}{
			{"unit_id": testhelpers.Acheron, "ownership": "owned", "eidolon": 2},
		},
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	for _, encoded := range []bool{false, true} {
		resp := invoke(t, string(raw), encoded)
		require.Equal(t, 200, resp.StatusCode, resp.Body)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])

		var result recommendResult
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
		assert.Equal(t, testhelpers.FixtureVersion, result.Version)
		assert.Equal(t, teams.ViewFocused, result.View)
		require.NotEmpty(t, result.Teams)
		for _, team := range result.Teams {
			assert.True(t, team.Contains(testhelpers.Acheron), team.Key())
		}
	}
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing pool", `{"focal":["acheron"]}`},
		{"unknown mode", `{"pool":["acheron"],"mode":"boss"}`},
		{"unknown view", `{"pool":["acheron"],"view":"grid"}`},
		{"bad investment", `{"pool":["acheron"],"investments":[{"unit_id":"acheron","ownership":"owned","eidolon":9}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := invoke(t, tt.body, false)
			assert.Equal(t, 400, resp.StatusCode)
			assert.Contains(t, resp.Body, "error")
		})
	}
}

func TestHandler_LogsServedRecommendation(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := newHandler(testhelpers.Dataset(t), zap.New(core))

	body := `{"pool":["acheron","pela","silverwolf","aventurine","fuxuan"],"focal":["acheron"]}`
	resp, err := h(context.Background(), events.LambdaFunctionURLRequest{Body: body})
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode, resp.Body)

	entries := logs.FilterMessage("Recommendation served").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(5), fields["pool"])
	assert.Equal(t, "moc", fields["mode"])
}
