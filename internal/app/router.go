package app

import (
	"compress/gzip"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rawen554/userdir/internal/middleware/compress"
	ginLogger "github.com/rawen554/userdir/internal/middleware/logger"
	"github.com/rawen554/userdir/internal/middleware/requestid"
)

const (
	pingPath   = "/ping"
	statusPath = "/api/status"
	usersPath  = "/api/users"
	exportPath = "/api/export/users.pdf"
	draftsPath = "/api/drafts"
)

func (a *App) SetupRouter() *gin.Engine {
	r := gin.New()
	if a.config.ProfileMode {
		pprof.Register(r)
	}

	r.Use(gin.Recovery())
	r.Use(requestid.RequestID())
	r.Use(ginLogger.Logger(a.logger.Named("middleware")))
	r.Use(compress.Compress(gzip.DefaultCompression, a.logger.Named("compress")))

	r.GET(pingPath, a.Ping)
	r.GET(statusPath, a.Status)
	r.GET(exportPath, a.ExportUsers)

	usersAPI := r.Group(usersPath)
	{
		usersAPI.GET("", a.ListUsers)
		usersAPI.POST("", a.CreateUser)
		usersAPI.GET("/:id", a.GetUser)
		usersAPI.PUT("/:id", a.CommitEdit)
		usersAPI.DELETE("/:id", a.RemoveUser)
		usersAPI.GET("/:id/draft", a.BeginEdit)
	}

	draftsAPI := r.Group(draftsPath)
	{
		draftsAPI.GET("/new", a.NewDraft)
		draftsAPI.POST("/field", a.SetField)
	}

	return r
}
