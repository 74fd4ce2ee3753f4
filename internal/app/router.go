package app

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rawen554/geofeed/internal/logic"
	"github.com/rawen554/geofeed/internal/middleware/compress"
	ginLogger "github.com/rawen554/geofeed/internal/middleware/logger"
	"github.com/rawen554/geofeed/internal/middleware/requestid"
)

func (a *App) SetupRouter() (*gin.Engine, error) {
	r := gin.New()
	if a.config.ProfileMode {
		pprof.Register(r)
	}

	r.Use(requestid.RequestID())
	r.Use(ginLogger.Logger(a.logger.Named("middleware")))
	r.Use(compress.Compress())

	r.GET("/", a.HealthCheck)
	r.GET("/networks.geojson", a.GetNetworks)
	r.GET("/img/:id/:index", a.RedirectImage(logic.KindPhoto))
	r.GET("/image/:id/:index", a.RedirectImage(logic.KindImage))

	return r, nil
}
