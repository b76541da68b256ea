package main

import (
	"net/http"

	"github.com/angeloszaimis/bingo-gateway/internal/handler"
	"github.com/angeloszaimis/bingo-gateway/internal/render"
)

func setupRouter(configHandler *handler.ConfigHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /config", configHandler.Document(render.FormatJSON))
	mux.HandleFunc("GET /config.yaml", configHandler.Document(render.FormatYAML))
	mux.HandleFunc("GET /rewrites/lookup", configHandler.Lookup)
	mux.HandleFunc("GET /healthz", configHandler.Healthz)

	return mux
}
