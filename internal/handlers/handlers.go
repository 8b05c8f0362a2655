package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
	"github.com/cristianadrielbraun/qrstudio/web/pages"
)

// Handler holds the renderer and the commit ledger shared by the HTTP routes.
type Handler struct {
	renderer *qrcode.Renderer
	ledger   *Ledger

	// commitMu serialises committing generations.
	commitMu sync.Mutex
}

// New returns a Handler rendering with r.
func New(r *qrcode.Renderer) *Handler {
	return &Handler{renderer: r, ledger: NewLedger(defaultLedgerSize)}
}

// Ledger exposes the commit ledger.
func (h *Handler) Ledger() *Ledger { return h.ledger }

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.HomePage)
	r.GET("/sitemap.xml", h.SitemapXML)

	api := r.Group("/api")
	{
		api.POST("/qrcode", h.Commit)
		api.POST("/qrcode/query", h.Query)
		api.GET("/qrcode/stats", h.Stats)
		api.POST("/htmx/generate", h.HTMXGenerate)
		api.POST("/htmx/toast", h.GenericToast)
	}
}

// HomePage renders the generator form.
func (h *Handler) HomePage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pages.HomePage(h.ledger.Stats().Commits).Render(c.Request.Context(), c.Writer); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	scheme := "https"
	host := c.Request.Host
	if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
		scheme = xf
	} else if c.Request.TLS == nil {
		scheme = "http"
	}
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + scheme + "://" + host + "/" + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}
