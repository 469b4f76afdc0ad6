package capture

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "captures-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/captures",
		Summary:     "Store a captured snippet",
		Description: "Stores the given text with its provenance and records the first history version.",
		Tags:        []string{"captures"},
		Middlewares: h.middleware,
	}
}
