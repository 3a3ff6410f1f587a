package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/services"
	"github.com/mornivek/stafflane/pkg/response"
)

// BillHandler exposes payables over HTTP. The finance gates live in the
// service, so even a misrouted request cannot bypass them.
type BillHandler struct {
	bills *services.BillService
}

func NewBillHandler(bills *services.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

// GET /api/bills
func (h *BillHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	bills, total, err := h.bills.List(requestContext(c), identity, services.BillListOptions{
		Status: c.Query("status"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 50),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, bills, &response.Meta{
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "limit", 50),
		Total:   int(total),
	})
}

// GET /api/bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	bill, err := h.bills.Get(requestContext(c), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bill)
}

// POST /api/bills
func (h *BillHandler) Create(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.CreateBillInput
	if !bindAndValidate(c, &req) {
		return
	}

	bill, err := h.bills.Create(requestContext(c), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, bill)
}

// POST /api/bills/:id/approve
func (h *BillHandler) Approve(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	bill, err := h.bills.Approve(requestContext(c), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bill)
}

// POST /api/bills/:id/pay
func (h *BillHandler) MarkPaid(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	bill, err := h.bills.MarkPaid(requestContext(c), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bill)
}
