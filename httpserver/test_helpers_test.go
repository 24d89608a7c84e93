//nolint:unused
package httpserver_test

import (
	"contactform/pkg/config"
	"contactform/pkg/jwt"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type testAPIResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func testConfig() *config.Config {
	cfg := &config.Config{
		DraftTTL:   time.Minute,
		DraftLimit: 10,
	}
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Auth.TokenTTL = time.Hour
	return cfg
}

func signTestToken() (string, error) {
	return jwt.NewJWTProvider(testJWTSecret, time.Hour).GenerateStaffToken("staff@example.com")
}

func decodeAPIResponse(t testing.TB, rec *httptest.ResponseRecorder) testAPIResponse {
	t.Helper()
	var resp testAPIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "response body: %s", rec.Body.String())
	return resp
}

func decodeAPIResult(t testing.TB, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), "result: %s", string(raw))
}
