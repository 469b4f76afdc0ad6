package vault

import (
	"context"
	"errors"

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
	huma.Register(api, h.statusOp(), h.status)
	huma.Register(api, h.unlockOp(), h.unlock)
	huma.Register(api, h.lockOp(), h.lock)
	huma.Register(api, h.changePasswordOp(), h.changePassword)
}

func (h *Handler) status(ctx context.Context, _ *struct{}) (*statusOutput, error) {
	status, err := h.service.Status(ctx)
	if err != nil {
		return nil, err
	}

	return &statusOutput{
		Body: statusResponse{
			IsEnabled: status.Encrypted,
			HasKey:    status.HasKey,
			Unlocked:  status.Unlocked,
		},
	}, nil
}

func (h *Handler) unlock(ctx context.Context, input *unlockInput) (*unlockOutput, error) {
	isNew, err := h.service.Unlock(ctx, input.Body.Password)
	if err != nil {
		if errors.Is(err, note.ErrInvalidPassword) {
			return nil, huma.Error401Unauthorized("invalid password")
		}

		return nil, err
	}

	return &unlockOutput{
		Body: unlockResponse{
			Success:  true,
			IsNewKey: isNew,
		},
	}, nil
}

func (h *Handler) lock(_ context.Context, _ *struct{}) (*lockOutput, error) {
	if err := h.service.Lock(); err != nil {
		if errors.Is(err, note.ErrEncryptionOff) {
			return nil, huma.Error409Conflict("encryption is not enabled")
		}

		return nil, err
	}

	return &lockOutput{Body: statusMessage{Status: "locked"}}, nil
}

func (h *Handler) changePassword(ctx context.Context, input *changePasswordInput) (*lockOutput, error) {
	err := h.service.ChangePassword(ctx, input.Body.OldPassword, input.Body.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrInvalidPassword):
			return nil, huma.Error401Unauthorized("invalid password")
		case errors.Is(err, note.ErrEncryptionOff):
			return nil, huma.Error409Conflict("encryption is not enabled")
		case errors.Is(err, note.ErrNotInitialized):
			return nil, huma.Error409Conflict("store is locked")
		default:
			return nil, err
		}
	}

	return &lockOutput{Body: statusMessage{Status: "password changed"}}, nil
}
