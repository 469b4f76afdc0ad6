// POST /api/v1/captures               # Store a captured snippet
// GET  /api/v1/notes                  # List notes (paged)
// GET  /api/v1/notes/search           # Substring search
// GET  /api/v1/notes/count            # Count notes
// PUT  /api/v1/notes/{id}             # Update content
// DELETE /api/v1/notes/{id}           # Soft delete
// DELETE /api/v1/notes/{id}/permanent # Purge note and history
// POST /api/v1/notes/{id}/sensitive   # Toggle sensitive flag
// GET  /api/v1/notes/{id}/history     # Version history
// POST /api/v1/notes/{id}/restore     # Restore a past version
// GET  /api/v1/vault/status           # Encryption status
// POST /api/v1/vault/unlock           # Unlock / first-time setup
// POST /api/v1/vault/lock             # Lock
// POST /api/v1/vault/change-password  # Rotate the master password

package api

import (
	captureAPI "clipvault/internal/app/server/api/http/capture"
	healthAPI "clipvault/internal/app/server/api/http/health"
	"clipvault/internal/app/server/api/http/middleware"
	"clipvault/internal/app/server/api/http/middleware/logger"
	noteAPI "clipvault/internal/app/server/api/http/note"
	vaultAPI "clipvault/internal/app/server/api/http/vault"
	"clipvault/internal/domain/note"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health  *healthAPI.Handler
	Capture *captureAPI.Handler
	Note    *noteAPI.Handler
	Vault   *vaultAPI.Handler
}

// New creates a *chi.Mux with every operation registered through huma.
func New(service note.Servicer, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Clipvault API", "1.0.0")

	API := humachi.New(mux, config)

	h := handlers(service, log)
	h.Health.SetupRoutes(API)
	h.Capture.SetupRoutes(API)
	h.Note.SetupRoutes(API)
	h.Vault.SetupRoutes(API)

	return mux
}

func handlers(service note.Servicer, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	captureHandler := captureAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	noteHandler := noteAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	vaultHandler := vaultAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		Capture: captureHandler,
		Note:    noteHandler,
		Vault:   vaultHandler,
	}
}
