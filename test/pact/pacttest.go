//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "spottythings-api"
	ConsumerName = "spottythings-web"

	StateNoUsers    = "no users are registered"
	StateUserExists = "user utentediprova exists"
)

const (
	Username        = "utentediprova"
	Password        = "prova123!"
	Email           = "mailutentediprova@gmail.com"
	MissingUsername = "utentenonesistente"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file written by the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleSignUpPayload is the registration body used across interactions.
func ExampleSignUpPayload() map[string]any {
	return map[string]any{
		"username":        Username,
		"nome":            "Mario",
		"cognome":         "Rossi",
		"datadinascita":   "2002-02-17",
		"indirizzo":       "via Roma 12, Povo, Trento",
		"email":           Email,
		"password":        Password,
		"metodiPagamento": "utentediprovapagamenti@gmail.com",
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
