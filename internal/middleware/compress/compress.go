package compress

import (
	"compress/gzip"
	"strings"

	"github.com/gin-gonic/gin"
)

type compressWriter struct {
	gin.ResponseWriter
	zw *gzip.Writer
}

func newCompressWriter(w gin.ResponseWriter) *compressWriter {
	return &compressWriter{
		ResponseWriter: w,
		zw:             gzip.NewWriter(w),
	}
}

func (c *compressWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

func (c *compressWriter) WriteString(s string) (int, error) {
	return c.zw.Write([]byte(s))
}

func (c *compressWriter) WriteHeader(statusCode int) {
	// the length of the compressed body is unknown up front
	c.Header().Del("Content-Length")
	c.Header().Set("Content-Encoding", "gzip")
	c.ResponseWriter.WriteHeader(statusCode)
}

func (c *compressWriter) Close() error {
	return c.zw.Close()
}

// Compress gzips the response for clients that accept it. GeoJSON bodies are
// highly repetitive, so this pays off on the collection endpoint.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		acceptEncoding := c.Request.Header.Get("Accept-Encoding")
		if !strings.Contains(acceptEncoding, "gzip") {
			c.Next()
			return
		}

		cw := newCompressWriter(c.Writer)
		c.Writer = cw
		defer func() {
			if err := cw.Close(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}
