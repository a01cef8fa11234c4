package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

const fallbackPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Task Board</title>
    <style>
        body { font-family: Arial, sans-serif; padding: 2rem; text-align: center; }
        .notice { color: #dc2626; background: #fef2f2; padding: 1rem; border-radius: 0.5rem; margin: 1rem 0; }
    </style>
</head>
<body>
    <h1>Task Board</h1>
    <div class="notice">
        <p>Static assets not available. Set server.public_dir to serve the web UI.</p>
        <p>MCP endpoints are available at /mcp and /sse</p>
        <p>The JSON API is available under /api</p>
    </div>
</body>
</html>`

func registerStatic(e *echo.Echo, publicDir string) {
	index := func(c echo.Context) error {
		if publicDir != "" {
			path := filepath.Join(publicDir, "index.html")
			if _, err := os.Stat(path); err == nil {
				c.Response().Header().Set("Cache-Control", "no-cache")
				return c.File(path)
			}
		}
		return c.HTML(http.StatusOK, fallbackPage)
	}
	e.GET("/", index)
	e.GET("/index.html", index)

	e.GET("/public/*", func(c echo.Context) error {
		if publicDir == "" {
			return c.String(http.StatusNotFound, "Asset not found")
		}
		rel := filepath.Clean("/" + c.Param("*"))
		path := filepath.Join(publicDir, strings.TrimPrefix(rel, "/"))
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return c.String(http.StatusNotFound, "Asset not found")
		}
		c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
		return c.File(path)
	})
}
