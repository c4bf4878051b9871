package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
)

type allocationEntryRequest struct {
	InstallmentID string `json:"installmentId"`
	Amount        int64  `json:"amount"`
}

type recordPaymentRequest struct {
	StudentID        string                   `json:"studentId"`
	SchoolYear       string                   `json:"schoolYear"`
	Amount           int64                    `json:"amount"`
	Method           string                   `json:"method"`
	Reason           string                   `json:"reason"`
	PaidAt           *time.Time               `json:"paidAt"`
	InstallmentsPaid []allocationEntryRequest `json:"installmentsPaid"`
}

type updatePaymentRequest struct {
	Amount           *int64                   `json:"amount"`
	Method           *string                  `json:"method"`
	Reason           *string                  `json:"reason"`
	InstallmentsPaid []allocationEntryRequest `json:"installmentsPaid"`
	ClearAllocation  bool                     `json:"clearAllocation"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	payment, err := s.paymentSvc.Record(c.Request.Context(), paymentdomain.RecordRequest{
		StudentID:        req.StudentID,
		SchoolYear:       req.SchoolYear,
		Amount:           req.Amount,
		Method:           paymentdomain.Method(strings.TrimSpace(req.Method)),
		Reason:           req.Reason,
		PaidAt:           req.PaidAt,
		InstallmentsPaid: toAllocationEntries(req.InstallmentsPaid),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) UpdatePayment(c *gin.Context) {
	id, err := parsePaymentID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payment id"))
		return
	}

	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := paymentdomain.UpdateRequest{
		Amount:           req.Amount,
		Reason:           req.Reason,
		InstallmentsPaid: toAllocationEntries(req.InstallmentsPaid),
		ClearAllocation:  req.ClearAllocation,
	}
	if req.Method != nil {
		method := paymentdomain.Method(strings.TrimSpace(*req.Method))
		update.Method = &method
	}

	payment, err := s.paymentSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) GetPayment(c *gin.Context) {
	id, err := parsePaymentID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payment id"))
		return
	}

	payment, err := s.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) ListStudentPayments(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	payments, err := s.paymentSvc.ListByStudent(c.Request.Context(), c.Param("id"), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

func (s *Server) GetRegistrationPayment(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	payment, err := s.paymentSvc.FindRegistrationPayment(c.Request.Context(), c.Param("id"), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func toAllocationEntries(entries []allocationEntryRequest) []paymentdomain.AllocationEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]paymentdomain.AllocationEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, paymentdomain.AllocationEntry{
			InstallmentID: entry.InstallmentID,
			Amount:        entry.Amount,
		})
	}
	return out
}

func parsePaymentID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
