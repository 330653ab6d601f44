package currency

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doConvert(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/currency/convert?"+query, nil)
	rec := httptest.NewRecorder()
	NewHTTPHandler().Convert(rec, req)
	return rec
}

func decodeConverted(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Converted string `json:"converted"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	return body.Data.Converted
}

func TestHTTPHandler_Convert(t *testing.T) {
	t.Run("numeric value", func(t *testing.T) {
		rec := doConvert(t, "value=100&currency=USD")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "$9", decodeConverted(t, rec))
	})

	t.Run("price range", func(t *testing.T) {
		rec := doConvert(t, "range=1200-1500+kr&currency=EUR")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "101-126 €", decodeConverted(t, rec))
	})

	t.Run("unparseable range passes through", func(t *testing.T) {
		rec := doConvert(t, "range=N%2FA&currency=USD")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "N/A", decodeConverted(t, rec))
	})

	t.Run("unknown currency is rejected", func(t *testing.T) {
		rec := doConvert(t, "value=100&currency=GBP")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CURRENCY")
	})

	t.Run("non-numeric value is rejected", func(t *testing.T) {
		rec := doConvert(t, "value=abc&currency=USD")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_VALUE")
	})

	t.Run("missing parameters are rejected", func(t *testing.T) {
		rec := doConvert(t, "currency=USD")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_PARAMETER")
	})
}
