package history

import (
	"context"
	"net/http"
	"strconv"

	"Sagitta/internal/calc/respond"
	"Sagitta/internal/repo"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Lister interface {
	ListCalculations(ctx context.Context, limit int) ([]repo.Record, error)
}

type Handler struct {
	Repo Lister
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxLimit {
			respond.Error(w, &respond.BadRequestError{Msg: "limit must be between 1 and 500", Field: "limit"})
			return
		}
		limit = n
	}
	records, err := h.Repo.ListCalculations(r.Context(), limit)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if records == nil {
		records = []repo.Record{}
	}
	respond.JSON(w, http.StatusOK, records)
}
