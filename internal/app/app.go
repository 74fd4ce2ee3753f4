package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rawen554/geofeed/internal/config"
	"github.com/rawen554/geofeed/internal/logic"
	"go.uber.org/zap"
)

const collectionCacheControl = "public, max-age=300"

type App struct {
	config *config.ServerConfig
	logic  *logic.CoreLogic
	logger *zap.SugaredLogger
}

func NewApp(config *config.ServerConfig, coreLogic *logic.CoreLogic, logger *zap.SugaredLogger) *App {
	return &App{
		config: config,
		logic:  coreLogic,
		logger: logger,
	}
}

func (a *App) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// GetNetworks serves the whole table as a GeoJSON FeatureCollection. Either
// the complete collection comes back or a single top-level error does;
// records are only ever missing because they had no usable geometry.
func (a *App) GetNetworks(c *gin.Context) {
	collection, err := a.logic.BuildCollection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", collectionCacheControl)
	c.JSON(http.StatusOK, collection)
}

// RedirectImage resolves one attachment slot and redirects to it. The proxy
// indirection exists because upstream attachment URLs are signed and expire
// faster than the collection response's cache lifetime.
func (a *App) RedirectImage(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := c.Writer

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil || index < 0 {
			res.WriteHeader(http.StatusBadRequest)
			return
		}

		target, err := a.logic.ResolveImage(c.Request.Context(), kind, c.Param("id"), index)
		if err != nil {
			if errors.Is(err, logic.ErrNotFound) {
				res.WriteHeader(http.StatusNotFound)
			} else {
				res.WriteHeader(http.StatusInternalServerError)
			}
			return
		}

		c.Redirect(http.StatusFound, target)
	}
}
