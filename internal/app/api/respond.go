package api

import (
	"github.com/gin-gonic/gin"

	maildomain "github.com/Apurer/spottythings-api/internal/domains/mail/domain"
)

const (
	msgBadRequest       = "Richiesta non valida"
	msgInternal         = "Errore interno del server"
	msgTooManyRequests  = "Troppe richieste, riprova più tardi"
	msgNoToken          = "No token provided."
	msgBadToken         = "Failed to authenticate token."
	msgForbidden        = "Operazione non consentita"
	msgUserNotFound     = "Nessun utente trovato"
	msgBadCredentials   = "Utente o password non corretti!"
	msgUsernameTaken    = "Username già in uso"
	msgSignedUp         = "Utente registrato!"
	msgDeleted          = "Utente eliminato"
	msgPasswordUpdated  = "Password aggiornata!"
	msgResetSent        = "Ti abbiamo inviato una email con la nuova password"
	msgLoggedOut        = "You logged out!"
	msgAlreadyLoggedOut = "You alreayd logged out!"
)

// apiResponse is the envelope every JSON endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Token   string `json:"token,omitempty"`
}

type mailFailureResponse struct {
	Success bool                      `json:"success"`
	Error   *maildomain.DeliveryError `json:"Error"`
}

func respondOK(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{Success: true, Message: message})
}

func respondFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiResponse{Success: false, Message: message})
}
