package app

import (
	"bytes"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rawen554/userdir/internal/config"
	"github.com/rawen554/userdir/internal/directory"
	"github.com/rawen554/userdir/internal/models"
	"github.com/rawen554/userdir/internal/prompt"
	"github.com/rawen554/userdir/internal/report"
	"go.uber.org/zap"
)

const (
	applicationCBOR = "application/cbor"
	applicationPDF  = "application/pdf"
	contentType     = "Content-Type"

	idParam      = "id"
	keywordQuery = "q"
	confirmQuery = "confirm"
)

type App struct {
	config    *config.ServerConfig
	directory *directory.UserDirectory
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewApp(config *config.ServerConfig, directory *directory.UserDirectory, logger *zap.SugaredLogger) *App {
	return &App{
		config:    config,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *App) writeError(c *gin.Context, err error) {
	var vErr *directory.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: err.Error(), Missing: vErr.Missing})
	case errors.Is(err, directory.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorRes{Error: err.Error()})
	case errors.Is(err, directory.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, models.ErrorRes{Error: err.Error()})
	case errors.Is(err, directory.ErrUnknownField):
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: err.Error()})
	default:
		a.logger.Errorf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorRes{Error: "internal server error"})
	}
}

func (a *App) userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param(idParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: "user id must be an integer"})
		return 0, false
	}
	return id, true
}

func (a *App) Ping(c *gin.Context) {
	if a.directory.State() != directory.StateReady {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}

func (a *App) Status(c *gin.Context) {
	c.JSON(http.StatusOK, a.directory.Status())
}

func (a *App) ListUsers(c *gin.Context) {
	if a.directory.State() != directory.StateReady {
		a.writeError(c, directory.ErrNotReady)
		return
	}

	users := slices.Collect(a.directory.Search(c.Query(keywordQuery)))
	if users == nil {
		users = []models.User{}
	}

	switch c.NegotiateFormat(binding.MIMEJSON, applicationCBOR) {
	case applicationCBOR:
		b, err := cbor.Marshal(users)
		if err != nil {
			a.writeError(c, err)
			return
		}
		c.Data(http.StatusOK, applicationCBOR, b)
	default:
		c.JSON(http.StatusOK, users)
	}
}

func (a *App) ExportUsers(c *gin.Context) {
	if a.directory.State() != directory.StateReady {
		a.writeError(c, directory.ErrNotReady)
		return
	}

	keyword := c.Query(keywordQuery)
	buf := &bytes.Buffer{}
	if err := report.WriteUsersPDF(buf, a.directory.Search(keyword), keyword, a.now()); err != nil {
		a.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.pdf"`)
	c.Data(http.StatusOK, applicationPDF, buf.Bytes())
}

func (a *App) GetUser(c *gin.Context) {
	id, ok := a.userID(c)
	if !ok {
		return
	}

	u, err := a.directory.Get(id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *App) CreateUser(c *gin.Context) {
	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: err.Error()})
		return
	}

	u, err := a.directory.Create(draft)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (a *App) NewDraft(c *gin.Context) {
	c.JSON(http.StatusOK, directory.NewDraft())
}

func (a *App) BeginEdit(c *gin.Context) {
	id, ok := a.userID(c)
	if !ok {
		return
	}

	draft, err := a.directory.BeginEdit(id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (a *App) SetField(c *gin.Context) {
	var req models.SetFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: err.Error()})
		return
	}

	draft, err := directory.SetField(req.Draft, req.Field, req.Value)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (a *App) CommitEdit(c *gin.Context) {
	id, ok := a.userID(c)
	if !ok {
		return
	}

	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: err.Error()})
		return
	}
	if draft.ID == 0 {
		draft.ID = id
	}
	if draft.ID != id {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Error: "draft id does not match path id"})
		return
	}

	updated, err := a.directory.CommitEdit(draft)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if !updated {
		a.writeError(c, directory.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, models.User(draft))
}

func (a *App) RemoveUser(c *gin.Context) {
	id, ok := a.userID(c)
	if !ok {
		return
	}

	answer := prompt.ParseAnswer(c.Query(confirmQuery))
	removed, err := a.directory.Remove(id, prompt.Static(answer))
	if err != nil {
		a.writeError(c, err)
		return
	}
	if answer && !removed {
		a.writeError(c, directory.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, models.RemoveRes{ID: id, Removed: removed})
}
