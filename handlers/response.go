package handlers

import (
	"net/http"
	"strconv"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/models"
	"food-ordering-api/tracking"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var (
	publisher          events.Publisher = events.NopPublisher{}
	orderHub           *tracking.Hub
	allowPasswordReset = true
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		models.RegisterValidators(v)
	}
}

// SetEventPublisher sets where order lifecycle events are sent.
func SetEventPublisher(p events.Publisher) {
	if p == nil {
		p = events.NopPublisher{}
	}
	publisher = p
}

// SetOrderHub sets the hub that receives live order updates.
func SetOrderHub(h *tracking.Hub) {
	orderHub = h
}

// SetAllowPasswordReset toggles the unverified reset endpoint.
func SetAllowPasswordReset(allow bool) {
	allowPasswordReset = allow
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, models.Response[any]{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, models.Response[any]{Success: false, Message: message})
}

// respondBindError turns a binding failure into a 400 naming each bad field.
func respondBindError(c *gin.Context, err error) {
	fields := models.FieldErrors(err)
	if fields == nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	c.JSON(http.StatusBadRequest, models.Response[map[string]string]{
		Success: false,
		Message: models.SummarizeFieldErrors(fields),
		Data:    fields,
	})
}

// respondInternal logs the cause and answers with a generic 500.
func respondInternal(c *gin.Context, err error, message string) {
	logEntry(c).WithError(err).Error(message)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, message)
}

func logEntry(c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{"route": c.FullPath()}
	if id, ok := c.Get("requestID"); ok {
		fields["request_id"] = id
	}
	return config.Logger.WithFields(fields)
}

// paramID reads a positive numeric path parameter, answering 400 if it is
// missing or malformed.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
