package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/medipos/internal/order/domain"
	"github.com/smallbiznis/medipos/internal/providers/pdf"
	storedomain "github.com/smallbiznis/medipos/internal/store/domain"
	"github.com/smallbiznis/medipos/internal/storecontext"
)

func (s *Server) SubmitOrder(c *gin.Context) {
	var req orderdomain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ValidateOrderLine(c *gin.Context) {
	var req orderdomain.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Validate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		From   string `form:"from"`
		To     string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}

	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListRequest{
		Status: strings.TrimSpace(query.Status),
		From:   from,
		To:     to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderReceipt(c *gin.Context) {
	ctx := c.Request.Context()

	order, err := s.orderSvc.Get(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var store storedomain.Store
	if storeID, ok := storecontext.StoreIDFromContext(ctx); ok {
		_ = s.db.WithContext(ctx).First(&store, "id = ?", storeID.Int64()).Error
	}
	if store.Name == "" {
		store.Name = s.cfg.AppName
	}

	reader, err := s.pdfProvider.GenerateReceipt(ctx, receiptData(store, order))
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", order.ID))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func receiptData(store storedomain.Store, order *orderdomain.Response) pdf.ReceiptData {
	customerName := "Walk-in customer"
	if order.CustomerName != nil && strings.TrimSpace(*order.CustomerName) != "" {
		customerName = *order.CustomerName
	}

	items := make([]pdf.ReceiptItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, pdf.ReceiptItem{
			Name:      item.Name,
			Batch:     item.BatchNumber,
			Qty:       item.Quantity,
			UnitPrice: formatMoney(item.UnitPrice),
			Amount:    formatMoney(item.LineTotal),
		})
	}

	return pdf.ReceiptData{
		StoreName:     store.Name,
		StoreAddress:  derefString(store.Address),
		StorePhone:    derefString(store.Phone),
		OrderNumber:   order.ID,
		Date:          order.CreatedAt.Format("2006-01-02 15:04"),
		CustomerName:  customerName,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Items:         items,
		Subtotal:      formatMoney(order.Subtotal),
		Discount:      formatMoney(order.DiscountAmount),
		GrandTotal:    formatMoney(order.GrandTotal),
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func isOrderValidationError(err error) bool {
	switch err {
	case orderdomain.ErrInvalidStore,
		orderdomain.ErrEmptyCart,
		orderdomain.ErrInvalidPayment,
		orderdomain.ErrInvalidQuantity,
		orderdomain.ErrInvalidDiscount,
		orderdomain.ErrInvalidMode,
		orderdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
