// Package http provides http transport for publications
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lexflow/internal/modkit/httpkit"
	perr "lexflow/internal/platform/errors"

	pubdom "lexflow/internal/services/publications/domain"
	svc "lexflow/internal/services/publications/service"
	taskdom "lexflow/internal/services/tasks/domain"
)

// Register mounts the publications routes
func Register(r httpkit.Router, s svc.Service, converter taskdom.ConverterPort) {
	h := &handlers{svc: s, converter: converter}

	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[pubdom.SyncRequest](r, "/sync", h.sync)
	httpkit.Delete(r, "/{id}", h.delete)
	httpkit.PostJSON[taskdom.ConvertInput](r, "/{id}/create-task", h.createTask)
}

type handlers struct {
	svc       svc.Service
	converter taskdom.ConverterPort
}

func pathID(r *stdhttp.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "id must be a positive integer"), "id")
	}
	return id, nil
}

// swagger:route GET /publications Publications listPublications
// @Summary List stored publications, newest first
// @Tags publications
// @Produce json
// @Param status query string false "Filter by status (new|processed)"
// @Param limit query int false "Page size (default 100, max 500)"
// @Success 200 {array} pubdom.Publication "ok"
// @Router /publications [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := pubdom.ListQuery{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "limit must be an integer"), "limit")
		}
		q.Limit = n
	}
	return h.svc.List(r.Context(), q)
}

// swagger:route POST /publications/sync Publications syncPublications
// @Summary Run one portal acquisition pass
// @Tags publications
// @Accept json
// @Produce json
// @Param payload body pubdom.SyncRequest true "Date window"
// @Success 200 {object} pubdom.SyncReport "ok"
// @Failure 400 {object} httpkit.Envelope "bad window or missing configuration"
// @Failure 409 {object} httpkit.Envelope "run already in progress"
// @Failure 502 {object} httpkit.Envelope "portal failure"
// @Router /publications/sync [post]
func (h *handlers) sync(r *stdhttp.Request, in pubdom.SyncRequest) (any, error) {
	return h.svc.Sync(r.Context(), in)
}

// swagger:route DELETE /publications/{id} Publications deletePublication
// @Summary Delete a stored publication
// @Tags publications
// @Produce json
// @Param id path int true "Publication id"
// @Success 200 {object} httpkit.Envelope "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /publications/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id}, nil
}

// swagger:route POST /publications/{id}/create-task Publications createTask
// @Summary Convert a publication into a case-tracking task
// @Tags publications
// @Accept json
// @Produce json
// @Param id path int true "Publication id"
// @Param payload body taskdom.ConvertInput true "Task fields"
// @Success 200 {object} taskdom.Task "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Failure 409 {object} httpkit.Envelope "already converted"
// @Router /publications/{id}/create-task [post]
func (h *handlers) createTask(r *stdhttp.Request, in taskdom.ConvertInput) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	in.PublicationID = id
	return h.converter.Convert(r.Context(), in)
}
