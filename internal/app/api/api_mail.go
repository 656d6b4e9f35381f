package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	maildomain "github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	mailports "github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

// MailAPI serves outbound e-mail under /api/m.
type MailAPI struct {
	mail mailports.Service
}

func NewMailAPI(mail mailports.Service) *MailAPI {
	return &MailAPI{mail: mail}
}

type sendEmailRequest struct {
	ToAddress string `json:"toAddress"`
	Subject   string `json:"subj"`
	Message   string `json:"message"`
}

// Post /api/m/sendEmail
func (api *MailAPI) SendEmail(c *gin.Context) {
	var payload sendEmailRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if _, err := api.mail.Send(c.Request.Context(), payload.ToAddress, payload.Subject, payload.Message); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, mailFailureResponse{
			Success: false,
			Error:   maildomain.AsDeliveryError(err),
		})
		return
	}
	c.Status(http.StatusNoContent)
}
