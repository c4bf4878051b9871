package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
)

type installmentRequest struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Amount  int64     `json:"amount"`
	DueDate time.Time `json:"dueDate"`
}

type upsertFeeStructureRequest struct {
	SchoolYear      string               `json:"schoolYear"`
	RegistrationFee int64                `json:"registrationFee"`
	Total           int64                `json:"total"`
	Installments    []installmentRequest `json:"installments"`
}

func (s *Server) GetFeeStructure(c *gin.Context) {
	className := c.Param("class")
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	structure, err := s.structureSvc.Get(c.Request.Context(), className, schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": structure})
}

func (s *Server) UpsertFeeStructure(c *gin.Context) {
	var req upsertFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	installments := make([]feestructuredomain.Installment, 0, len(req.Installments))
	for _, inst := range req.Installments {
		installments = append(installments, feestructuredomain.Installment{
			ID:      inst.ID,
			Name:    inst.Name,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
		})
	}

	structure, err := s.structureSvc.Upsert(c.Request.Context(), feestructuredomain.UpsertRequest{
		ClassName:       c.Param("class"),
		SchoolYear:      req.SchoolYear,
		RegistrationFee: req.RegistrationFee,
		Total:           req.Total,
		Installments:    installments,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": structure})
}

func (s *Server) EnsureDefaultStructures(c *gin.Context) {
	var req struct {
		SchoolYear string `json:"schoolYear"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.structureSvc.EnsureDefaults(c.Request.Context(), req.SchoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"created": created}})
}

func (s *Server) RepairInstallmentIDs(c *gin.Context) {
	var req struct {
		SchoolYear string `json:"schoolYear"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	repaired, err := s.structureSvc.RepairInstallmentIDs(c.Request.Context(), req.SchoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"repaired": repaired}})
}
