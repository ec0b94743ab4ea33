package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
)

const devTokenTTL = time.Hour

// IssueDevToken mints an HS256 token for any subject. Only mounted in
// development when tokens are verified with the shared secret.
func IssueDevToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Subject string `json:"sub" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		token, err := helpers.GenerateToken(secret, helpers.StringTrim(req.Subject), devTokenTTL)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int(devTokenTTL.Seconds()),
		}, ""))
	}
}
