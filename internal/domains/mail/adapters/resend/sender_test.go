package resend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
)

func TestSender_Send(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/emails"))
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	sender, err := NewSender("re_test", "noreply@spottythings.local", "SpottyThings", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = sender.Send(context.Background(), domain.Message{To: "mailutentediprova@gmail.com", Subject: "Ciao", Body: "Testo"})
	require.NoError(t, err)
	assert.Equal(t, "SpottyThings <noreply@spottythings.local>", captured["from"])
	assert.Equal(t, "Testo", captured["text"])
}

func TestNewSender_RequiresKey(t *testing.T) {
	_, err := NewSender("", "a@b.c", "")
	assert.Error(t, err)
}
