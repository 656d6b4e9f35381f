package types

import (
	"fmt"
	"strings"
)

const resetMailSubject = "SpottyThings - ripristino password"

// ResetMail renders the message carrying a temporary password.
func ResetMail(reset PasswordReset, loginURL string) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Ciao %s,\n\n", reset.Username)
	fmt.Fprintf(&b, "la tua nuova password temporanea è: %s\n", reset.TemporaryPassword)
	if loginURL = strings.TrimSpace(loginURL); loginURL != "" {
		fmt.Fprintf(&b, "Accedi su %s e cambiala al più presto.\n", loginURL)
	} else {
		b.WriteString("Accedi e cambiala al più presto.\n")
	}
	return resetMailSubject, b.String()
}
