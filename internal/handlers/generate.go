package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

// Commit generates through the committing path: generations are serialised
// and every one, successful or not, is recorded in the ledger.
func (h *Handler) Commit(c *gin.Context) {
	var req qrcode.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, commit := h.commit(req.Input, req.Options)
	c.Header(qrcode.CommitHeader, commit.ID)
	c.JSON(http.StatusOK, res)
}

// Query generates through the read-only path. It never touches the ledger.
func (h *Handler) Query(c *gin.Context) {
	var req qrcode.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.renderer.Generate(req.Input, req.Options))
}

// Stats reports how many generations were committed.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Stats())
}

func (h *Handler) commit(input string, opts qrcode.Options) (qrcode.Result, Commit) {
	h.commitMu.Lock()
	defer h.commitMu.Unlock()

	res := h.renderer.Generate(input, opts)
	return res, h.ledger.Record(len(input), len(res.Images))
}
