package vault

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) statusOp() huma.Operation {
	return huma.Operation{
		OperationID: "vault-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/vault/status",
		Summary:     "Encryption status",
		Description: "Reports whether the store is encrypted, whether a key file exists and whether it is unlocked.",
		Tags:        []string{"vault"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) unlockOp() huma.Operation {
	return huma.Operation{
		OperationID: "vault-unlock",
		Method:      http.MethodPost,
		Path:        "/api/v1/vault/unlock",
		Summary:     "Unlock the store",
		Description: "Unlocks with the master password. The first unlock creates the key and encrypts existing notes.",
		Tags:        []string{"vault"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) lockOp() huma.Operation {
	return huma.Operation{
		OperationID: "vault-lock",
		Method:      http.MethodPost,
		Path:        "/api/v1/vault/lock",
		Summary:     "Lock the store",
		Description: "Drops the in-memory key. Data stays encrypted on disk.",
		Tags:        []string{"vault"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) changePasswordOp() huma.Operation {
	return huma.Operation{
		OperationID: "vault-change-password",
		Method:      http.MethodPost,
		Path:        "/api/v1/vault/change-password",
		Summary:     "Change the master password",
		Description: "Re-encrypts every stored note and history entry under a key derived from the new password.",
		Tags:        []string{"vault"},
		Middlewares: h.middleware,
	}
}
