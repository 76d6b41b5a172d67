package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// 压缩的 MIME 类型（前缀匹配，忽略 charset）
var compressibleTypes = []string{
	"text/plain",
	"text/css",
	"text/html",
	"text/markdown",
	"text/xml",
	"text/json",
	"text/javascript",
	"application/javascript",
	"application/json",
	"application/xml",
	"application/wasm",
}

func compressible(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, t := range compressibleTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// negotiate br 优先，其次 gzip；q=0 视为拒绝
func negotiate(acceptEncoding string) string {
	var br, gz bool
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if q := strings.ReplaceAll(params, " ", ""); q == "q=0" || q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "br":
			br = true
		case "gzip":
			gz = true
		}
	}
	switch {
	case br:
		return "br"
	case gz:
		return "gzip"
	}
	return ""
}

type compressWriter struct {
	gin.ResponseWriter
	encoding string
	enc      io.WriteCloser
	decided  bool
}

func (w *compressWriter) decide(status int) {
	if w.decided {
		return
	}
	w.decided = true
	h := w.Header()
	if !compressible(h.Get("Content-Type")) {
		return
	}
	h.Add("Vary", "Accept-Encoding")
	if h.Get("Content-Encoding") != "" || status == http.StatusNoContent ||
		status == http.StatusNotModified || status == http.StatusPartialContent {
		return
	}
	h.Set("Content-Encoding", w.encoding)
	h.Del("Content-Length")
	if w.encoding == "br" {
		w.enc = brotli.NewWriterLevel(w.ResponseWriter, brotli.BestSpeed)
	} else {
		w.enc, _ = gzip.NewWriterLevel(w.ResponseWriter, gzip.BestSpeed)
	}
}

// gin 的 c.Render 先写状态码再设 Content-Type，所以推迟到首次 Write 再决定
func (w *compressWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.decide(w.ResponseWriter.Status())
	}
	if w.enc != nil {
		return w.enc.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *compressWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

// Compress 文本类响应按 Accept-Encoding 压缩（brotli > gzip）
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := negotiate(c.GetHeader("Accept-Encoding"))
		if encoding == "" || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		w := &compressWriter{ResponseWriter: c.Writer, encoding: encoding}
		c.Writer = w
		defer func() {
			if w.enc != nil {
				_ = w.enc.Close()
			}
		}()
		c.Next()
	}
}
