package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackHandler_RepeatedRequestsDoNotBlock(t *testing.T) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)
	handler := callbackHandler("expected", codeChan, errChan)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 3 {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
		for range 2 {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/callback?state=expected&code=abc", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback handler blocked on a repeated request")
	}

	require.Len(t, errChan, 1)
	assert.ErrorContains(t, <-errChan, "state mismatch")
	require.Len(t, codeChan, 1)
	assert.Equal(t, "abc", <-codeChan)
}

func TestAuthenticateOAuth2Interactive_BadCallbacksReturn(t *testing.T) {
	announce := func(authURL string) {
		u, err := url.Parse(authURL)
		if !assert.NoError(t, err) {
			return
		}
		callback := u.Query().Get("redirect_uri") + "?state=forged&code=x"
		for range 2 {
			resp, err := http.Get(callback) // #nosec G107
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				_ = resp.Body.Close()
			}
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := AuthenticateOAuth2Interactive(context.Background(), OAuth2Config{
			ClientID:     "client",
			ClientSecret: "secret",
			ListenAddr:   "127.0.0.1:0",
			Timeout:      time.Minute,
		}, announce)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "state mismatch")
	case <-time.After(10 * time.Second):
		t.Fatal("authentication hung after repeated bad callbacks")
	}
}
