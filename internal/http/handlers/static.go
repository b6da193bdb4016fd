package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves a built single-page UI: existing files are sent as-is and
// every other GET falls back to index.html so client-side routes survive a reload.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Enabled reports whether dir holds an index.html to fall back to.
func (h *StaticHandler) Enabled() bool {
	if h.dir == "" {
		return false
	}

	info, err := os.Stat(filepath.Join(h.dir, "index.html"))

	return err == nil && !info.IsDir()
}

// NoRoute is installed as the router's fallback. API paths and non-GET methods
// always get the JSON 404.
func (h *StaticHandler) NoRoute(ctx *gin.Context) {
	p := ctx.Request.URL.Path
	method := ctx.Request.Method

	if strings.HasPrefix(p, "/api/") || p == "/api" ||
		(method != http.MethodGet && method != http.MethodHead) || !h.Enabled() {
		RespondNotFound(ctx, "Route "+method+" "+p+" not found")
		return
	}

	// path.Clean on a rooted path never climbs above the root
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")

	if rel != "" {
		file := filepath.Join(h.dir, filepath.FromSlash(rel))

		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			ctx.File(file)
			return
		}
	}

	ctx.File(filepath.Join(h.dir, "index.html"))
}
