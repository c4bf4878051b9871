package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	riskdomain "github.com/james21411/Projet-scolapp-sub004/internal/risk/domain"
)

func (s *Server) GetRiskSettings(c *gin.Context) {
	bands, err := s.riskSvc.Bands(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"levels": bands}})
}

func (s *Server) UpdateRiskSettings(c *gin.Context) {
	var req struct {
		Levels []riskdomain.Band `json:"levels"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.riskSvc.SaveBands(c.Request.Context(), req.Levels); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"levels": req.Levels}})
}

func (s *Server) GetStudentRisk(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	risk, err := s.riskSvc.ClassifyStudent(c.Request.Context(), c.Param("id"), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": risk})
}

func (s *Server) GetClassRisk(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	dist, err := s.riskSvc.ClassDistribution(c.Request.Context(), c.Param("class"), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dist})
}

func (s *Server) GetOverallRisk(c *gin.Context) {
	schoolYear := c.Query("school_year")
	if strings.TrimSpace(schoolYear) == "" {
		AbortWithError(c, newValidationError("school_year", "required", "school_year is required"))
		return
	}

	dist, err := s.riskSvc.OverallDistribution(c.Request.Context(), schoolYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dist})
}
