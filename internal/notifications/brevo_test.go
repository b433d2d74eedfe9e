package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrevoClientDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "shop@example.com", "", false))
	assert.Nil(t, NewBrevoClient("key", " ", "", false))
}

func TestBrevoSend(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("secret", "shop@example.com", "Shop", true)
	c.endpoint = srv.URL

	id, err := c.Send(context.Background(), Message{
		ToEmail: "ana@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "<abc@brevo>", id)

	assert.Equal(t, "Hello", got["subject"])
	assert.Equal(t, "hi", got["textContent"])
	assert.Equal(t, "drop", got["headers"].(map[string]any)["X-Sib-Sandbox"])
}

func TestBrevoSendReportsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("wrong", "shop@example.com", "", false)
	c.endpoint = srv.URL

	_, err := c.Send(context.Background(), Message{ToEmail: "ana@example.com", Subject: "x", Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}
