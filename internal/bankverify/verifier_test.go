package bankverify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/logging"
)

const bankJSON = `{"data":{"bankName":"State Bank of India","bankBranchName":"Fort","address":"Horniman Circle","cityAndPincode":"Mumbai 400001","countryCode":"IN","networkType":"NEFT","routingNo":"400002001","stateCode":"MH"}}`

func newClient(t *testing.T, url string, timeout time.Duration) *HTTPClient {
	t.Helper()
	return NewHTTPClient(&http.Client{Timeout: timeout}, url, logging.Discard(), nil)
}

func TestVerifySuccess(t *testing.T) {
	var got verifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bankJSON))
	}))
	defer srv.Close()

	md, err := newClient(t, srv.URL, time.Second).Verify(context.Background(), "SBIN0000001")
	require.NoError(t, err)

	assert.Equal(t, "SBIN0000001", got.IFSC)
	assert.Equal(t, "State Bank of India", md.BankName)
	assert.Equal(t, "Fort", md.BankBranchName)
	assert.Equal(t, "Mumbai 400001", md.CityAndPincode)
	assert.Equal(t, "400002001", md.RoutingNo)
	assert.Equal(t, "MH", md.StateCode)
}

func TestVerifyDeclinedIsValidationError(t *testing.T) {
	for _, status := range []int{http.StatusUnprocessableEntity, http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"status":false,"message":"Invalid IFSC"}`))
		}))

		_, err := newClient(t, srv.URL, time.Second).Verify(context.Background(), "ABCD0123456")
		srv.Close()

		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "status %d", status)
		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, MsgUnverifiable, appErr.Message)
	}
}

func TestVerifyUnreachableIsExternalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url, time.Second).Verify(context.Background(), "ABCD0123456")
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternal, apperror.KindOf(err))
}

func TestVerifyTimeoutIsExternalError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newClient(t, srv.URL, 50*time.Millisecond).Verify(context.Background(), "ABCD0123456")
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternal, apperror.KindOf(err))
}

func TestVerifyMalformedBodyIsExternalError(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `<html>oops</html>`,
		"missing data": `{"status":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL, time.Second).Verify(context.Background(), "ABCD0123456")
			require.Error(t, err)
			assert.Equal(t, apperror.KindExternal, apperror.KindOf(err))
		})
	}
}
