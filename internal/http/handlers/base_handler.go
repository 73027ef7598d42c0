// README: Base handler utilities (JSON helpers, lenient form values, error mapping).
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linguaschool/internal/modules/order"
	"linguaschool/internal/modules/pricing"
	"linguaschool/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrMissingKey):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrRejected):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, order.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, pricing.ErrNoStore):
		writeError(c, http.StatusNotImplemented, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "order service error")
	}
}

func pathID(c *gin.Context) (types.ID, bool) {
	id, ok := types.ParseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid order id")
	}
	return id, ok
}

// formValue is a form field that may arrive as a JSON string or number.
// It is kept as text so the pricing sanitizer decides what it means.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = formValue(n.String())
	}
	return nil
}

// draftReq is the booking form shared by quoting and order submission.
type draftReq struct {
	Kind          string    `json:"kind"`
	Date          formValue `json:"date"`
	Time          formValue `json:"time"`
	Persons       formValue `json:"persons"`
	Fee           formValue `json:"fee"`
	WeekLength    formValue `json:"week_length"`
	TotalLength   formValue `json:"total_length"`
	Duration      formValue `json:"duration"`
	Supplementary bool      `json:"supplementary"`
	Personalized  bool      `json:"personalized"`
	Excursions    bool      `json:"excursions"`
	Assessment    bool      `json:"assessment"`
	Interactive   bool      `json:"interactive"`
}

func (r draftReq) draft() pricing.Draft {
	return pricing.Draft{
		Kind:          pricing.Kind(r.Kind),
		Date:          string(r.Date),
		Time:          string(r.Time),
		Persons:       string(r.Persons),
		Fee:           string(r.Fee),
		WeekLength:    string(r.WeekLength),
		TotalLength:   string(r.TotalLength),
		Duration:      string(r.Duration),
		Supplementary: r.Supplementary,
		Personalized:  r.Personalized,
		Excursions:    r.Excursions,
		Assessment:    r.Assessment,
		Interactive:   r.Interactive,
	}
}

func validKind(k string) bool {
	return k == "" || k == string(pricing.KindCourse) || k == string(pricing.KindTutor)
}
