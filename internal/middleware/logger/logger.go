package logger

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rawen554/userdir/internal/middleware/requestid"
	"go.uber.org/zap"
)

// Logger logs every request once it has been served. Request bodies are logged at debug level.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := c.Request.RequestURI
		method := c.Request.Method

		var body []byte
		if c.Request.Body != nil && logger.Desugar().Core().Enabled(zap.DebugLevel) {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				logger.Errorf("error reading request body: %v", err)
				c.AbortWithStatus(500)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		t := time.Now()
		c.Next()
		duration := time.Since(t)

		logger.Infoln(
			"URI", uri,
			"Method", method,
			"Duration", duration,
			"Status", c.Writer.Status(),
			"Size", c.Writer.Size(),
			"RequestID", c.GetString(requestid.Key),
		)
		if len(body) > 0 {
			logger.Debugln("Data", string(body))
		}
	}
}
