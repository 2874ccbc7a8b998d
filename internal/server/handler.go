package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

const defaultListLimit = 5

// PodcastGenerator runs one generation job to its terminal state.
type PodcastGenerator interface {
	Generate(ctx context.Context) (domain.Podcast, error)
}

// Handler exposes the generation trigger and podcast lookups.
type Handler struct {
	generator  PodcastGenerator
	repository ports.PodcastRepository
	logger     *slog.Logger
}

// NewHandler wires the use case and repository into the HTTP surface.
func NewHandler(generator PodcastGenerator, repository ports.PodcastRepository, logger *slog.Logger) *Handler {
	return &Handler{
		generator:  generator,
		repository: repository,
		logger:     logger,
	}
}

// Attach registers all routes on the router.
func (h *Handler) Attach(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
	r.Get("/podcasts", h.handleList)
	r.Get("/podcasts/{id}", h.handleGet)
}

type generatedResponse struct {
	ID       string          `json:"id"`
	AudioURL string          `json:"audio_url"`
	Script   string          `json:"script"`
	Sources  []domain.Source `json:"sources"`
	Status   domain.Status   `json:"status"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	// The bearer credential is forwarded by callers and validated upstream;
	// here it is only observed.
	if r.Header.Get("Authorization") == "" {
		h.logger.Debug("generate invoked without credential")
	}

	podcast, err := h.generator.Generate(r.Context())
	if err != nil {
		h.logger.Error("podcast generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, generatedResponse{
		ID:       podcast.ID,
		AudioURL: podcast.AudioURL,
		Script:   podcast.Script,
		Sources:  podcast.Sources,
		Status:   podcast.Status,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be between 1 and 50"))
			return
		}
		limit = parsed
	}

	podcasts, err := h.repository.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list podcasts failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if podcasts == nil {
		podcasts = []domain.Podcast{}
	}
	writeJson(w, podcasts)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	podcast, err := h.repository.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		h.logger.Error("get podcast failed", "podcast", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, podcast)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	message := http.StatusText(code)
	if err != nil {
		message = err.Error()
	}

	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
