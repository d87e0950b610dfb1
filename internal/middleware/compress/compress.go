package compress

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type compressWriter struct {
	gin.ResponseWriter
	zw    *gzip.Writer
	wrote bool
}

func newCompressWriter(w gin.ResponseWriter, level int) (*compressWriter, error) {
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	return &compressWriter{
		ResponseWriter: w,
		zw:             zw,
	}, nil
}

func (c *compressWriter) Write(p []byte) (int, error) {
	c.wrote = true
	return c.zw.Write(p)
}

func (c *compressWriter) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

func (c *compressWriter) WriteHeader(statusCode int) {
	c.Header().Del("Content-Length")
	c.Header().Set("Content-Encoding", "gzip")
	c.Header().Add("Vary", "Accept-Encoding")
	c.ResponseWriter.WriteHeader(statusCode)
}

// Close flushes the remaining compressed data. Empty responses stay empty.
func (c *compressWriter) Close() error {
	if !c.wrote {
		return nil
	}
	return c.zw.Close()
}

// compressReader transparently decompresses a gzip request body.
type compressReader struct {
	io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &compressReader{
		ReadCloser: r,
		zr:         zr,
	}, nil
}

func (c compressReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

func (c *compressReader) Close() error {
	if err := c.zr.Close(); err != nil {
		return err
	}
	return c.ReadCloser.Close()
}

// Compress gzips responses for clients that accept it and inflates gzip request bodies.
func Compress(level int, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.Contains(c.Request.Header.Get("Content-Encoding"), "gzip") {
			cr, err := newCompressReader(c.Request.Body)
			if err != nil {
				logger.Errorf("error reading gzip body: %v", err)
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.Request.Body = cr
			defer func() {
				if err := cr.Close(); err != nil {
					logger.Debugf("error closing gzip body: %v", err)
				}
			}()
		}

		if strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			cw, err := newCompressWriter(c.Writer, level)
			if err != nil {
				logger.Errorf("error creating gzip writer: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Writer = cw
			defer func() {
				if err := cw.Close(); err != nil {
					logger.Errorf("error flushing gzip writer: %v", err)
				}
			}()
		}

		c.Next()
	}
}
