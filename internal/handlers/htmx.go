package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
	"github.com/cristianadrielbraun/qrstudio/web/components"
)

// HTMXGenerate runs one generation from the home page form and returns the
// status toast plus the image, or every frame of an animation.
func (h *Handler) HTMXGenerate(c *gin.Context) {
	fields := studio.Fields{
		Text:        c.PostForm("text"),
		Logo:        c.PostForm("logo") == "on",
		Gradient:    c.PostForm("gradient") == "on",
		Transparent: c.PostForm("transparent") == "on",
		Animated:    c.PostForm("animated") == "on",
		Frames:      c.DefaultPostForm("frames", "10"),
		Colors:      c.PostFormArray("color"),
		Consensus:   c.PostForm("consensus") == "on",
	}

	props := h.htmxResult(c, fields)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := components.Result(props).Render(c.Request.Context(), c.Writer); err != nil {
		log.Printf("[QR] render fragment: %v", err)
	}
}

func (h *Handler) htmxResult(c *gin.Context, fields studio.Fields) components.ResultProps {
	req, err := studio.BuildRequest(fields)
	if err != nil {
		return failure("Failed to generate QR code: " + err.Error())
	}

	var res qrcode.Result
	if req.Committing(fields.Consensus) {
		var commit Commit
		res, commit = h.commit(req.Text, req.Options)
		c.Header(qrcode.CommitHeader, commit.ID)
	} else {
		res = h.renderer.Generate(req.Text, req.Options)
	}

	out, err := studio.Interpret(res)
	if err != nil {
		var berr *studio.BackendError
		if errors.As(err, &berr) && berr.Message == "" {
			return failure("Error: Failed to generate QR code")
		}
		return failure("Error: " + err.Error())
	}

	var urls studio.DataURLs
	images := out.Frames
	if !out.Animated() {
		images = [][]byte{out.Single}
	}
	props := components.ResultProps{
		Toast: components.ToastProps{
			Title:       "QR code generated successfully!",
			Variant:     components.VariantSuccess,
			Dismissible: true,
		},
	}
	if out.Animated() {
		props.Toast.Description = "Animation is playing..."
	}
	for _, img := range images {
		url, err := urls.ToURL(c.Request.Context(), img)
		if err != nil {
			return failure("Error: " + err.Error())
		}
		props.Frames = append(props.Frames, url)
	}
	return props
}

func failure(msg string) components.ResultProps {
	return components.ResultProps{Toast: components.ToastProps{
		Title:       msg,
		Variant:     components.VariantError,
		Dismissible: true,
	}}
}
