package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Daemon liveness",
		Description: "Reports whether the clipvault daemon is running and answering requests. Says nothing about the vault's lock state; use /api/v1/vault/status for that.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
