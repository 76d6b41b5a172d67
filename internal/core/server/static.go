package server

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// 扩展名覆盖（mime 包默认不认识 .md）
var contentTypes = map[string]string{
	".md": "text/markdown; charset=utf-8",
}

// Static 静态站点：默认文档 index.html、Cache-Control、.md 内容类型。
// 作为 NoRoute 处理器挂载，API 路由优先
func Static(root string, maxAgeSec int) gin.HandlerFunc {
	fs := http.FileServer(http.Dir(root))
	cacheControl := "public, max-age=" + strconv.Itoa(maxAgeSec)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		p := path.Clean("/" + c.Request.URL.Path)
		if strings.HasSuffix(c.Request.URL.Path, "/") {
			p = path.Join(p, "index.html")
		}
		if ct, ok := contentTypes[strings.ToLower(path.Ext(p))]; ok {
			c.Header("Content-Type", ct)
		}
		fs.ServeHTTP(&cacheWriter{ResponseWriter: c.Writer, value: cacheControl}, c.Request)
	}
}

// cacheWriter 只给成功响应加 Cache-Control
type cacheWriter struct {
	gin.ResponseWriter
	value string
}

func (w *cacheWriter) WriteHeader(code int) {
	if code < http.StatusBadRequest {
		w.Header().Set("Cache-Control", w.value)
	}
	w.ResponseWriter.WriteHeader(code)
}
