package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	medicinedomain "github.com/smallbiznis/medipos/internal/medicine/domain"
)

func (s *Server) CreateMedicine(c *gin.Context) {
	var req medicinedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicineSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMedicines(c *gin.Context) {
	var query struct {
		Search       string `form:"search"`
		LowStock     string `form:"low_stock"`
		ExpiringDays int    `form:"expiring_days"`
		SortBy       string `form:"sort_by"`
		OrderBy      string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lowStock, err := parseOptionalBool(query.LowStock)
	if err != nil {
		AbortWithError(c, newValidationError("low_stock", "invalid_low_stock", "invalid low_stock"))
		return
	}

	resp, err := s.medicineSvc.List(c.Request.Context(), medicinedomain.ListRequest{
		Search:       strings.TrimSpace(query.Search),
		LowStock:     lowStock != nil && *lowStock,
		ExpiringDays: query.ExpiringDays,
		SortBy:       strings.TrimSpace(query.SortBy),
		OrderBy:      strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMedicineByID(c *gin.Context) {
	resp, err := s.medicineSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateMedicine(c *gin.Context) {
	var req medicinedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.medicineSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) RestockMedicine(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicineSvc.Restock(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type adjustRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) AdjustMedicineStock(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicineSvc.Adjust(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isMedicineValidationError(err error) bool {
	switch err {
	case medicinedomain.ErrInvalidStore,
		medicinedomain.ErrInvalidName,
		medicinedomain.ErrInvalidBatch,
		medicinedomain.ErrInvalidPrice,
		medicinedomain.ErrInvalidQuantity,
		medicinedomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
