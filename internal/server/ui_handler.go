package server

import (
	"embed"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed web
var webAssets embed.FS

type UIHandler struct {
	uiAssets embed.FS
}

func NewUIHandler(assets embed.FS) *UIHandler {
	return &UIHandler{
		uiAssets: assets,
	}
}

// ServePage returns a handler for one top-level page.
func (h *UIHandler) ServePage(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := h.uiAssets.ReadFile("web/" + name)
		if err != nil {
			return c.String(http.StatusNotFound, "Page not found")
		}
		return c.Blob(http.StatusOK, getContentType(name), data)
	}
}

// ServeAsset serves static files from the embedded web/assets directory
func (h *UIHandler) ServeAsset(c echo.Context) error {
	assetPath := path.Clean("/" + c.Param("*"))
	if strings.Contains(assetPath, "..") {
		return c.String(http.StatusNotFound, "Asset not found")
	}

	assetPath = "web/assets" + assetPath
	data, err := h.uiAssets.ReadFile(assetPath)
	if err != nil {
		return c.String(http.StatusNotFound, "Asset not found")
	}
	return c.Blob(http.StatusOK, getContentType(assetPath), data)
}

func getContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(name, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(name, ".js"):
		return "application/javascript"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	case strings.HasSuffix(name, ".mp3"):
		return "audio/mpeg"
	}
	return "application/octet-stream"
}
