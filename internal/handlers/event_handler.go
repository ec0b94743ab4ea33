package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/middleware"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
)

// respondError maps store errors onto HTTP statuses. Anything unexpected is
// handed to the ErrorHandler middleware.
func respondError(c *gin.Context, err error) {
	var (
		notFound *models.NotFoundError
		authErr  *models.NotAuthorizedError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(notFound.Msg))
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, models.ErrorResponseWithData(authErr.Msg, gin.H{"caller": authErr.Caller}))
	default:
		_ = c.Error(err)
	}
}

func callerFrom(c *gin.Context) (string, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return "", false
	}
	return claims.Caller(), true
}

func eventIDFrom(c *gin.Context) (uint64, bool) {
	id, err := helpers.ParseEventID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
		return 0, false
	}
	return id, true
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}

		var payload models.EventPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), caller, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventIDFrom(c)
		if !ok {
			return
		}

		event, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		id, ok := eventIDFrom(c)
		if !ok {
			return
		}

		var payload models.EventPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.UpdateEvent(c.Request.Context(), caller, id, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		id, ok := eventIDFrom(c)
		if !ok {
			return
		}

		event, err := es.DeleteEvent(c.Request.Context(), caller, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event deleted successfully"))
	}
}

func AttendEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		id, ok := eventIDFrom(c)
		if !ok {
			return
		}

		event, err := es.AttendEvent(c.Request.Context(), caller, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}
