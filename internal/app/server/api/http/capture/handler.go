package capture

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"clipvault/internal/domain/note"
)

type Handler struct {
	service    note.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service note.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	n, err := h.service.Add(ctx, input.Body.Content, input.Body.Source, input.Body.URL, input.Body.CapturedAt)
	if err != nil {
		if errors.Is(err, note.ErrNotInitialized) {
			return nil, huma.NewError(http.StatusLocked, "note store is locked")
		}

		return nil, err
	}

	return &output{
		Body: response{
			ID:     n.ID,
			Status: "Ok",
		},
	}, nil
}
