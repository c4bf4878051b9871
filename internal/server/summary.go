package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	balancedomain "github.com/james21411/Projet-scolapp-sub004/internal/balance/domain"
)

func (s *Server) GetStudentSummary(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	summary, err := s.balanceSvc.Summarize(c.Request.Context(), c.Param("id"), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) GetClassSummary(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	summary, err := s.balanceSvc.ClassSummary(c.Request.Context(), c.Param("class"), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeClassSummaryCSV(c, summary)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) GetOverallSummary(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	summary, err := s.balanceSvc.OverallSummary(c.Request.Context(), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func writeClassSummaryCSV(c *gin.Context, summary *balancedomain.ClassSummary) {
	filename := fmt.Sprintf("%s_%s.csv", summary.ClassName, summary.SchoolYear)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{"student_id", "full_name", "total_due", "total_paid", "outstanding", "payment_rate"})
	for _, student := range summary.Students {
		_ = writer.Write([]string{
			student.StudentID,
			student.FullName,
			fmt.Sprintf("%d", student.TotalDue),
			fmt.Sprintf("%d", student.TotalPaid),
			fmt.Sprintf("%d", student.Outstanding),
			fmt.Sprintf("%.2f", student.PaymentRate),
		})
	}
	writer.Flush()
}
