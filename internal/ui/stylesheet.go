package ui

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"sync"

	"textbook-admin/internal/ui/assets"
)

const stylesheetPath = "/ui/static/app.css"

var (
	stylesheetOnce sync.Once
	stylesheetURL  = stylesheetPath
)

// stylesheetHref is the console stylesheet URL with a content version, so a
// redeploy with new CSS is never served from a stale browser cache.
func stylesheetHref() string {
	stylesheetOnce.Do(func() {
		data, err := fs.ReadFile(assets.StaticFS(), "static/app.css")
		if err != nil {
			return
		}
		sum := sha256.Sum256(data)
		stylesheetURL = stylesheetPath + "?v=" + hex.EncodeToString(sum[:4])
	})
	return stylesheetURL
}
