package sendgrid

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
)

func TestSender_Send(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewSender("SG.test", "noreply@spottythings.local", "SpottyThings", WithHost(srv.URL))
	require.NoError(t, err)

	err = sender.Send(context.Background(), domain.Message{To: "mailutentediprova@gmail.com", Subject: "Ciao", Body: "Testo"})
	require.NoError(t, err)
	assert.Equal(t, "Ciao", captured["subject"])
}

func TestSender_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	sender, err := NewSender("SG.bad", "noreply@spottythings.local", "SpottyThings", WithHost(srv.URL))
	require.NoError(t, err)

	err = sender.Send(context.Background(), domain.Message{To: "a@b.c"})
	var de *domain.DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusUnauthorized, de.StatusCode)
	assert.Contains(t, de.Message, "bad key")
}

func TestNewSender_RequiresKey(t *testing.T) {
	_, err := NewSender(" ", "a@b.c", "x")
	assert.Error(t, err)
}
