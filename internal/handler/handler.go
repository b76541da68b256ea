package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/angeloszaimis/bingo-gateway/internal/render"
	"github.com/angeloszaimis/bingo-gateway/internal/rewrite"
)

type ConfigHandler struct {
	logger   *slog.Logger
	document render.Document
	rewrites *rewrite.Table
}

type lookupResponse struct {
	Path        string `json:"path"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func NewConfigHandler(logger *slog.Logger, doc render.Document, rewrites *rewrite.Table) *ConfigHandler {
	return &ConfigHandler{
		logger:   logger,
		document: doc,
		rewrites: rewrites,
	}
}

// Document serves the resolved configuration in format.
func (h *ConfigHandler) Document(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := render.Write(&buf, h.document, format); err != nil {
			h.logger.Error("Failed to render configuration",
				slog.String("format", format),
				slog.Any("err", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", render.ContentType(format))
		if _, err := w.Write(buf.Bytes()); err != nil {
			h.logger.Warn("Failed to write configuration response",
				slog.String("format", format),
				slog.Any("err", err))
		}
	}
}

// Lookup reports where the path given in the "path" query parameter would be
// rewritten to.
func (h *ConfigHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("path")
	if !strings.HasPrefix(raw, "/") {
		http.Error(w, "path query parameter must be an absolute path", http.StatusBadRequest)
		return
	}

	target, err := url.Parse(raw)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	m, ok, err := h.rewrites.Lookup(target)
	if err != nil {
		h.logger.Error("Rewrite lookup failed",
			slog.String("path", raw),
			slog.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		h.logger.Debug("No rewrite rule matched", slog.String("path", raw))
		http.Error(w, "no rewrite rule matches", http.StatusNotFound)
		return
	}

	h.logger.Debug("Rewrite rule matched",
		slog.String("path", raw),
		slog.String("source", m.Rule.Source),
		slog.String("destination", m.Destination.String()))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(lookupResponse{
		Path:        raw,
		Source:      m.Rule.Source,
		Destination: m.Destination.String(),
	}); err != nil {
		h.logger.Warn("Failed to write lookup response",
			slog.String("path", raw),
			slog.Any("err", err))
	}
}

func (h *ConfigHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.Warn("Failed to write health response", slog.Any("err", err))
	}
}
