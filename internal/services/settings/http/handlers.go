// Package http provides http transport for office settings
package http

import (
	stdhttp "net/http"

	"lexflow/internal/modkit/httpkit"
	"lexflow/internal/services/settings/domain"
	svc "lexflow/internal/services/settings/service"
)

// Register mounts the settings routes
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.get)
	httpkit.PutJSON[domain.OfficeSettings](r, "/", h.put)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /settings Settings getSettings
// @Summary Office settings
// @Tags settings
// @Produce json
// @Success 200 {object} domain.OfficeSettings "ok"
// @Router /settings [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context())
}

// swagger:route PUT /settings Settings putSettings
// @Summary Replace office settings
// @Tags settings
// @Accept json
// @Produce json
// @Param payload body domain.OfficeSettings true "Settings"
// @Success 200 {object} domain.OfficeSettings "ok"
// @Router /settings [put]
func (h *handlers) put(r *stdhttp.Request, in domain.OfficeSettings) (any, error) {
	return h.svc.Put(r.Context(), in)
}
