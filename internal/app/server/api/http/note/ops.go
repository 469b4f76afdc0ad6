package note

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns non-deleted notes ordered by capture time, newest first, with the total count.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) searchOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/search",
		Summary:     "Search notes",
		Description: "Case-insensitive substring search over content and source.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) countOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-count",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/count",
		Summary:     "Count notes",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note content",
		Description: "Replaces the content of a note and records a new history version.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Soft-delete a note",
		Description: "Hides the note from listings. The note and its history remain restorable.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) purgeOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-purge",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}/permanent",
		Summary:     "Permanently delete a note",
		Description: "Removes the note and its whole version history. Cannot be undone.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) sensitiveOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-toggle-sensitive",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/{id}/sensitive",
		Summary:     "Toggle the sensitive flag",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}/history",
		Summary:     "Note version history",
		Description: "Returns every recorded version of the note, newest first.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) restoreOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-restore",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/{id}/restore",
		Summary:     "Restore a past version",
		Description: "Brings the note back to the state of the given version as a new version.",
		Tags:        []string{"notes"},
		Middlewares: h.middleware,
	}
}
