// README: Order handlers for submit/list/get/update/delete and quote history.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"linguaschool/internal/modules/order"
	"linguaschool/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type orderReq struct {
	CourseID int64 `json:"course_id"`
	TutorID  int64 `json:"tutor_id"`
	draftReq
}

// apiKey is forwarded to the order service untouched.
func apiKey(c *gin.Context) string {
	return c.Query("api_key")
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	placed, err := h.order.Submit(c.Request.Context(), order.SubmitCommand{
		APIKey:   apiKey(c),
		CourseID: types.ID(req.CourseID),
		TutorID:  types.ID(req.TutorID),
		Draft:    req.draft(),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, placed)
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.order.List(c.Request.Context(), apiKey(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.order.Get(c.Request.Context(), apiKey(c), id)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	placed, err := h.order.Update(c.Request.Context(), order.UpdateCommand{
		APIKey:   apiKey(c),
		OrderID:  id,
		CourseID: types.ID(req.CourseID),
		TutorID:  types.ID(req.TutorID),
		Draft:    req.draft(),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, placed)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.order.Delete(c.Request.Context(), apiKey(c), id); err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type snapshotResp struct {
	ID        int64     `json:"id"`
	Price     int64     `json:"price"`
	Options   string    `json:"options"`
	Breakdown []string  `json:"breakdown"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *OrderHandler) Quotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	snaps, err := h.order.Quotes(c.Request.Context(), apiKey(c), id)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	out := make([]snapshotResp, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, snapshotResp{
			ID:        s.ID,
			Price:     s.Quote.FinalPrice,
			Options:   s.Request.Options.String(),
			Breakdown: s.Quote.Breakdown,
			CreatedAt: s.CreatedAt,
		})
	}
	writeJSON(c, http.StatusOK, out)
}
