package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func site(t *testing.T) *gin.Engine {
	t.Helper()
	root := t.TempDir()
	page := "<html><body>" + strings.Repeat("TRally ", 200) + "</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(page), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# 토론\n"+strings.Repeat("- item\n", 100)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "logo.png"), []byte{0x89, 'P', 'N', 'G', 0, 0, 0, 0}, 0o644))

	r := NewRouter(zap.NewNop(), nil)
	r.Use(Compress())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.NoRoute(Static(root, 86400))
	return r
}

func get(r http.Handler, target, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatic_DefaultDocumentAndCacheControl(t *testing.T) {
	w := get(site(t), "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TRally")
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestStatic_MarkdownContentType(t *testing.T) {
	w := get(site(t), "/notes.md", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestStatic_MissingFileHasNoCacheHeader(t *testing.T) {
	w := get(site(t), "/nope.txt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestCompress_PrefersBrotli(t *testing.T) {
	w := get(site(t), "/notes.md", "gzip, deflate, br")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	body, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "# 토론"))
}

func TestCompress_GzipFallback(t *testing.T) {
	w := get(site(t), "/", "gzip")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Empty(t, w.Header().Get("Content-Length"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "TRally")
}

func TestCompress_JSONAndBinary(t *testing.T) {
	r := site(t)

	w := get(r, "/health", "br")
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))

	w = get(r, "/logo.png", "br, gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))

	w = get(r, "/", "identity")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, "br", negotiate("gzip, br"))
	assert.Equal(t, "gzip", negotiate("gzip;q=0.8, br;q=0"))
	assert.Equal(t, "", negotiate("deflate"))
	assert.Equal(t, "", negotiate(""))
}

func TestCompressible(t *testing.T) {
	assert.True(t, compressible("text/html; charset=utf-8"))
	assert.True(t, compressible("application/json"))
	assert.False(t, compressible("image/png"))
	assert.False(t, compressible(""))
}
