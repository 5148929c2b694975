package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cemetery_api/internal/apperrors"
)

var details = map[int]string{
	http.StatusUnauthorized:        "Authentication credentials were not provided.",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "Not found.",
	http.StatusInternalServerError: "A server error occurred.",
}

// AbortStatus writes the error envelope and stops the chain.
func AbortStatus(c *gin.Context, status int, detail any) {
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer realm="api"`)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail, "statusCode": status})
}

// Abort maps err onto its status and writes the envelope. Validation errors
// carry their field map; unexpected errors are logged and genericized.
func Abort(c *gin.Context, err error) {
	status := apperrors.Status(err)
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		AbortStatus(c, status, verr.Fields)
		return
	}
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
	}
	AbortStatus(c, status, details[status])
}

// Recovery turns panics into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		logrus.WithField("panic", rec).WithField("path", c.Request.URL.Path).Error("recovered from panic")
		AbortStatus(c, http.StatusInternalServerError, details[http.StatusInternalServerError])
	})
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	AbortStatus(c, http.StatusNotFound, details[http.StatusNotFound])
}
