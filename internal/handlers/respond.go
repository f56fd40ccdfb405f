package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"launchpad/internal/apierr"
)

// fail renders an error response. Internal errors log the full cause and
// return a generic message; client errors log at warn with the stable code.
func fail(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"path": c.FullPath(),
		"code": apiErr.Code,
	})
	if apiErr.Status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
