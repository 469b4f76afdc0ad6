package note

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
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.searchOp(), h.search)
	huma.Register(api, h.countOp(), h.count)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.purgeOp(), h.purge)
	huma.Register(api, h.sensitiveOp(), h.sensitive)
	huma.Register(api, h.historyOp(), h.history)
	huma.Register(api, h.restoreOp(), h.restore)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	result, err := h.service.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, mapErr(err)
	}

	return &listOutput{Body: *result}, nil
}

func (h *Handler) search(ctx context.Context, input *searchInput) (*listOutput, error) {
	result, err := h.service.Search(ctx, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, mapErr(err)
	}

	return &listOutput{Body: *result}, nil
}

func (h *Handler) count(ctx context.Context, _ *struct{}) (*countOutput, error) {
	count, err := h.service.Count(ctx)
	if err != nil {
		return nil, mapErr(err)
	}

	return &countOutput{Body: countResponse{Count: count}}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*noteOutput, error) {
	n, err := h.service.Update(ctx, input.ID, input.Body.Content)
	if err != nil {
		return nil, mapErr(err)
	}

	return &noteOutput{
		Body: noteResponse{
			Status: "Ok",
			Note:   n,
		},
	}, nil
}

// delete soft-deletes. Deleting an already deleted note reports failure in
// the body rather than an error status.
func (h *Handler) delete(ctx context.Context, input *idInput) (*statusOutput, error) {
	err := h.service.Delete(ctx, input.ID)
	if err != nil {
		if errors.Is(err, note.ErrNoteDeleted) {
			return &statusOutput{
				Body: statusResponse{Success: false, Status: "already deleted"},
			}, nil
		}

		return nil, mapErr(err)
	}

	return &statusOutput{
		Body: statusResponse{Success: true, Status: "Ok"},
	}, nil
}

func (h *Handler) purge(ctx context.Context, input *idInput) (*statusOutput, error) {
	if err := h.service.Purge(ctx, input.ID); err != nil {
		return nil, mapErr(err)
	}

	return &statusOutput{
		Body: statusResponse{Success: true, Status: "Ok"},
	}, nil
}

func (h *Handler) sensitive(ctx context.Context, input *idInput) (*sensitiveOutput, error) {
	sensitive, err := h.service.ToggleSensitive(ctx, input.ID)
	if err != nil {
		return nil, mapErr(err)
	}

	return &sensitiveOutput{
		Body: sensitiveResponse{
			Status:      "Ok",
			IsSensitive: sensitive,
		},
	}, nil
}

func (h *Handler) history(ctx context.Context, input *idInput) (*historyOutput, error) {
	versions, err := h.service.History(ctx, input.ID)
	if err != nil {
		return nil, mapErr(err)
	}

	return &historyOutput{Body: historyResponse{Versions: versions}}, nil
}

func (h *Handler) restore(ctx context.Context, input *restoreInput) (*noteOutput, error) {
	n, err := h.service.Restore(ctx, input.ID, input.Body.Version)
	if err != nil {
		return nil, mapErr(err)
	}

	return &noteOutput{
		Body: noteResponse{
			Status: "Ok",
			Note:   n,
		},
	}, nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, note.ErrNotInitialized):
		return huma.NewError(http.StatusLocked, "note store is locked")
	case errors.Is(err, note.ErrNotFound):
		return huma.Error404NotFound("note not found")
	case errors.Is(err, note.ErrNoteDeleted):
		return huma.Error409Conflict("note is deleted")
	case errors.Is(err, note.ErrVersionNotFound):
		return huma.Error404NotFound("note version not found")
	default:
		return err
	}
}
