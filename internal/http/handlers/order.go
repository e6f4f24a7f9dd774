package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/http/response"
	"github.com/yungbote/orderdoc-backend/internal/modules/orders/lines"
	"github.com/yungbote/orderdoc-backend/internal/platform/apierr"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
	"github.com/yungbote/orderdoc-backend/internal/services"
)

const (
	msgInternal       = "Internal Server Error"
	msgInvalidOrderID = "Invalid orderId given"
	msgInvalidList    = "Invalid orderList given"
	validationPrefix  = "Validation Error: "

	// maxCSVBytes bounds an uploaded order-lines file.
	maxCSVBytes = 8 << 20
)

type OrderHandler struct {
	log *logger.Logger
	svc services.OrderService
}

func NewOrderHandler(log *logger.Logger, svc services.OrderService) *OrderHandler {
	return &OrderHandler{log: log.With("handler", "OrderHandler"), svc: svc}
}

// POST /v1/order/create/form and /v1/order/create/form-guest
func (h *OrderHandler) CreateForm(c *gin.Context) {
	agg, ok := h.bindAggregate(c)
	if !ok {
		return
	}
	res, err := h.svc.Create(c.Request.Context(), services.CreateInput{Aggregate: agg})
	if err != nil {
		h.respondServiceError(c, "create", err)
		return
	}
	response.RespondOK(c, res)
}

type bulkRequest struct {
	Orders json.RawMessage `json:"orders"`
}

// POST /v1/order/create/bulk
func (h *OrderHandler) CreateBulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "validation", msgInvalidList)
		return
	}
	raw := strings.TrimSpace(string(req.Orders))
	if !strings.HasPrefix(raw, "[") {
		response.RespondMessage(c, http.StatusBadRequest, "validation", msgInvalidList)
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(req.Orders, &items); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "validation", msgInvalidList)
		return
	}
	aggs := make([]order.Aggregate, 0, len(items))
	for i, item := range items {
		var agg order.Aggregate
		if err := json.Unmarshal(item, &agg); err != nil {
			response.RespondMessage(c, http.StatusBadRequest, "validation", fmt.Sprintf("%sorders[%d]: %s", validationPrefix, i, err.Error()))
			return
		}
		aggs = append(aggs, agg)
	}
	res, err := h.svc.CreateBulk(c.Request.Context(), aggs)
	if err != nil {
		h.respondServiceError(c, "create bulk", err)
		return
	}
	response.RespondOK(c, res)
}

// POST /v1/order/create/csv (multipart: json, file)
func (h *OrderHandler) CreateCSV(c *gin.Context) {
	var agg order.Aggregate
	if err := json.Unmarshal([]byte(c.PostForm("json")), &agg); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "validation", validationPrefix+"invalid json field: "+err.Error())
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "validation", validationPrefix+"missing file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.respondServiceError(c, "open upload", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxCSVBytes+1))
	if err != nil {
		h.respondServiceError(c, "read upload", err)
		return
	}
	if len(raw) > maxCSVBytes {
		response.RespondMessage(c, http.StatusBadRequest, "validation", fmt.Sprintf("%sfile exceeds %d bytes", validationPrefix, maxCSVBytes))
		return
	}
	csvText := string(raw)
	if res := lines.Validate(csvText); !res.Valid {
		response.RespondMessage(c, http.StatusBadRequest, "validation", res.Error)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), services.CreateInput{
		Aggregate: agg,
		CSV:       csvText,
		Policy:    lines.LinePolicyReplace,
	})
	if err != nil {
		h.respondServiceError(c, "create csv", err)
		return
	}
	response.RespondOK(c, out)
}

type listResponse struct {
	Orders []services.OrderSummary `json:"orders"`
}

// GET /v1/order/list
func (h *OrderHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "list", err)
		return
	}
	if out == nil {
		out = []services.OrderSummary{}
	}
	response.RespondOK(c, listResponse{Orders: out})
}

// GET /v1/order/:orderId
func (h *OrderHandler) GetXML(c *gin.Context) {
	orderID, ok := h.existingOrderID(c)
	if !ok {
		return
	}
	xml, err := h.svc.FetchXML(c.Request.Context(), orderID)
	if err != nil {
		h.respondServiceError(c, "fetch xml", err)
		return
	}
	c.Data(http.StatusOK, "application/xml", []byte(xml))
}

// PUT /v1/order/:orderId
func (h *OrderHandler) Replace(c *gin.Context) {
	agg, ok := h.bindAggregate(c)
	if !ok {
		return
	}
	if err := order.Validate(agg); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "validation", validationPrefix+err.Error())
		return
	}
	orderID, ok := h.existingOrderID(c)
	if !ok {
		return
	}
	res, err := h.svc.Replace(c.Request.Context(), orderID, agg)
	if err != nil {
		h.respondServiceError(c, "replace", err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /v1/order/:orderId
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.existingOrderID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), orderID); err != nil {
		h.respondServiceError(c, "delete", err)
		return
	}
	response.RespondOK(c, gin.H{})
}

func (h *OrderHandler) bindAggregate(c *gin.Context) (order.Aggregate, bool) {
	var agg order.Aggregate
	if err := c.ShouldBindJSON(&agg); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "validation", validationPrefix+err.Error())
		return agg, false
	}
	return agg, true
}

// existingOrderID parses :orderId and answers 400 unless it names a stored order.
func (h *OrderHandler) existingOrderID(c *gin.Context) (int, bool) {
	orderID, err := strconv.Atoi(strings.TrimSpace(c.Param("orderId")))
	if err != nil || orderID < 0 {
		response.RespondMessage(c, http.StatusBadRequest, "validation", msgInvalidOrderID)
		return 0, false
	}
	ok, err := h.svc.IsValid(c.Request.Context(), orderID)
	if err != nil {
		h.respondServiceError(c, "is valid", err)
		return 0, false
	}
	if !ok {
		response.RespondMessage(c, http.StatusBadRequest, "validation", msgInvalidOrderID)
		return 0, false
	}
	return orderID, true
}

// respondServiceError maps service failures onto the client-facing envelope.
// Store messages stay in the log; clients only see the generic 500 text.
func (h *OrderHandler) respondServiceError(c *gin.Context, action string, err error) {
	_ = c.Error(err)
	ae := apierr.FromError(err)
	switch ae.Code {
	case string(domainagg.CodeValidation):
		msg := err.Error()
		var aggErr *domainagg.Error
		if errors.As(err, &aggErr) && aggErr.Message != "" {
			msg = aggErr.Message
		}
		response.RespondMessage(c, http.StatusBadRequest, ae.Code, validationPrefix+msg)
	case string(domainagg.CodeNotFound):
		response.RespondMessage(c, http.StatusBadRequest, ae.Code, msgInvalidOrderID)
	default:
		h.log.Error("order request failed", "action", action, "code", ae.Code, "error", err)
		response.RespondMessage(c, http.StatusInternalServerError, "internal", msgInternal)
	}
}
