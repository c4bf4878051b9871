package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	transferdomain "github.com/james21411/Projet-scolapp-sub004/internal/transfer/domain"
)

type transferRequest struct {
	NewClass        string `json:"newClass"`
	MigratePayments bool   `json:"migratePayments"`
}

func (s *Server) TransferStudent(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.transferSvc.ChangeClass(c.Request.Context(), transferdomain.Request{
		StudentID:       c.Param("id"),
		NewClass:        req.NewClass,
		MigratePayments: req.MigratePayments,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
