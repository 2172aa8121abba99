package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	purchasedomain "github.com/smallbiznis/medipos/internal/purchase/domain"
)

func (s *Server) CreatePurchaseOrder(c *gin.Context) {
	var req purchasedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchaseSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPurchaseOrders(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchaseSvc.List(c.Request.Context(), purchasedomain.ListRequest{
		Status: strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchaseOrderByID(c *gin.Context) {
	resp, err := s.purchaseSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReceivePurchaseOrder(c *gin.Context) {
	resp, err := s.purchaseSvc.Receive(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelPurchaseOrder(c *gin.Context) {
	resp, err := s.purchaseSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPurchaseValidationError(err error) bool {
	switch err {
	case purchasedomain.ErrInvalidStore,
		purchasedomain.ErrInvalidSupplier,
		purchasedomain.ErrEmptyOrder,
		purchasedomain.ErrInvalidQuantity,
		purchasedomain.ErrInvalidCost,
		purchasedomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
