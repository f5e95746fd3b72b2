package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brandscope/internal/analyzer"
	"brandscope/internal/brand"
	"brandscope/internal/models"
)

const (
	msgBrandRequired    = "brandName parameter is required"
	msgAnalysisFailed   = "An error occurred during analysis."
	msgDeepScanMissing  = "Missing required parameter: brandName"
	msgNoCompetitors    = "No competitors found for analysis"
	msgNoCompetitorData = "No competitor data could be analyzed"
	msgDeepScanFailed   = "Deep scan failed"
	msgAnalyticsFailed  = "Error retrieving analytics"
)

// analyzeBrandHandler handles brand viability analysis requests
func (s *Server) analyzeBrandHandler(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindQuery(&req); err != nil || strings.TrimSpace(req.BrandName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status_code": http.StatusBadRequest,
			"message":     msgBrandRequired,
		})
		return
	}

	ctx, cancel := s.requestContext(c, analyzeTimeoutFactor)
	defer cancel()

	report, err := s.service.AnalyzeBrand(ctx, req.BrandName)
	if err != nil {
		if errors.Is(err, brand.ErrInvalidBrandName) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status_code": http.StatusBadRequest,
				"message":     msgBrandRequired,
			})
			return
		}
		s.logger.Error("Failed to analyze brand", "brand", req.BrandName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status_code": http.StatusInternalServerError,
			"message":     msgAnalysisFailed,
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// deepScanHandler handles competitor deep scan requests
func (s *Server) deepScanHandler(c *gin.Context) {
	var req models.DeepScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.BrandName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": msgDeepScanMissing,
		})
		return
	}

	ctx, cancel := s.requestContext(c, deepScanTimeoutFactor)
	defer cancel()

	report, err := s.service.DeepScan(ctx, req.BrandName)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    report,
		})
	case errors.Is(err, brand.ErrInvalidBrandName):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": msgDeepScanMissing,
		})
	case errors.Is(err, brand.ErrNoCompetitors):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": msgNoCompetitors,
		})
	case errors.Is(err, analyzer.ErrNoCompetitorData):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   msgNoCompetitorData,
		})
	default:
		s.logger.Error("Deep scan failed", "brand", req.BrandName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   msgDeepScanFailed,
		})
	}
}

// analyticsHandler reports usage and cache efficiency
func (s *Server) analyticsHandler(c *gin.Context) {
	report, err := s.service.Analytics(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to get analytics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status_code": http.StatusInternalServerError,
			"message":     msgAnalyticsFailed,
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
