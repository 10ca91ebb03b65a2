package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrei-cloud/go_arqc/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateBody(iad string) map[string]string {
	return map[string]string{
		"Pan":                           "4111111111111111",
		"PanSequenceNumber":             "00",
		"IssuerMasterKey":               "0123456789ABCDEFFEDCBA9876543210",
		"AmountAuthorised":              "12300",
		"AmountOther":                   "0",
		"TerminalCountryCode":           "784",
		"TerminalVerificationResults":   "8000048000",
		"TransactionCurrencyCode":       "840",
		"TransactionDate":               "2025-05-22",
		"TransactionType":               "00",
		"UnpredictableNumber":           "52BF4585",
		"ApplicationInterchangeProfile": "1800",
		"ApplicationTransactionCounter": "005E",
		"IssuerApplicationData":         iad,
	}
}

func post(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	jsonReq, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonReq))
	router.ServeHTTP(w, req)

	return w
}

func TestGenerateCryptogram(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(false)

	tests := []struct {
		name   string
		iad    string
		status int
		arqc   string
		code   string
	}{
		{"visa cvn18", "06011203A0B800", http.StatusOK, "FDBA87A3C606B92F", ""},
		{"visa cvn10", "06010A03A00000", http.StatusOK, "B0722197564D361E", ""},
		{"unsupported cvn", "06012203A00000", http.StatusUnprocessableEntity, "", "47"},
		{"malformed iad", "07011203A0B800", http.StatusUnprocessableEntity, "", "A7"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := post(t, router, "/CryptogramFunctions/GenerateCryptogram/Request", generateBody(tt.iad))
			require.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(api.RequestIDHeader))

			if tt.status == http.StatusOK {
				var resp api.GenerateResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.arqc, resp.ARQC)
				return
			}

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.ErrorCode)
			assert.NotEmpty(t, resp.ErrorMessage)
		})
	}
}

func TestGenerateCryptogramValidation(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(false)
	body := generateBody("06011203A0B800")
	body["Pan"] = "411111"
	body["TransactionDate"] = "22/05/2025"

	w := post(t, router, "/CryptogramFunctions/GenerateCryptogram/Request", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "15", resp.ErrorCode)
	require.Len(t, resp.Violations, 2)
	assert.Equal(t, "Pan", resp.Violations[0].Field)
	assert.Equal(t, "TransactionDate", resp.Violations[1].Field)
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(false)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/CryptogramFunctions/GenerateCryptogram/Request",
		strings.NewReader(`{"Pan": 4111`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ErrorCode":"15"`)
}

func TestVerifyCryptogram(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(false)

	body := generateBody("06011203A0B800")
	body["ARQC"] = "FDBA87A3C606B92F"
	w := post(t, router, "/CryptogramFunctions/VerifyCryptogram/Request", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Match)
	assert.Equal(t, "VISA", resp.Scheme)
	assert.Equal(t, "CVN18", resp.CVN)

	body["ARQC"] = "0000000000000000"
	w = post(t, router, "/CryptogramFunctions/VerifyCryptogram/Request", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Match)
}

func TestDeriveSessionKey(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(false)
	w := post(t, router, "/KeyFunctions/DeriveSessionKey/Request", map[string]string{
		"IssuerMasterKey":               "0123456789ABCDEFFEDCBA9876543210",
		"Pan":                           "4111111111111111",
		"PanSequenceNumber":             "00",
		"ApplicationTransactionCounter": "005E",
		"IssuerApplicationData":         "06011203A0B800",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.KeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "F05C5C15703F0AA93DBA010A463A7AED", resp.SessionKey)
	assert.Equal(t, "67DD0D", resp.SessionKeyKCV)
}

func TestLiveAndMetrics(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "arqc_http_request_total")
}
