package inspect

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lockstep/catalog"
	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/registry"
	"github.com/kbukum/lockstep/runner"
	"github.com/kbukum/lockstep/version"
)

type handlers struct {
	serviceName    string
	registry       *registry.Registry
	runner         *runner.Runner
	requestTimeout time.Duration
}

func (h *handlers) listTypes(c *gin.Context) {
	RespondOK(c, h.registry.Infos())
}

func (h *handlers) getType(c *gin.Context) {
	t, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, t.Info())
}

func (h *handlers) listFunctions(c *gin.Context) {
	RespondOK(c, catalog.Entries())
}

func (h *handlers) eval(c *gin.Context) {
	var req runner.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		if appErr := toAppError(err); appErr.HTTPStatus == http.StatusRequestEntityTooLarge {
			RespondWithError(c, appErr)
			return
		}
		RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	out, err := h.runner.Run(ctx, req)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, out)
}

func (h *handlers) version(c *gin.Context) {
	RespondOK(c, version.GetVersionInfo())
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   h.serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"types":     len(h.registry.List()),
	})
}
