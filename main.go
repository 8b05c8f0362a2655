package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/config"
	"github.com/cristianadrielbraun/qrstudio/internal/handlers"
	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"POST", "GET", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{qrcode.CommitHeader},
	}))

	renderer := qrcode.NewRenderer(cfg.Render.ImageSize, cfg.Render.MaxFrames)
	if cfg.Render.Workers > 0 {
		renderer.Workers = cfg.Render.Workers
	}
	h := handlers.New(renderer)
	h.Register(r)

	log.Printf("qrstudio listening on %s", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
