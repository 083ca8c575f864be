package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	storefunneldomain "github.com/smallbiznis/storepulse/internal/storefunnel/domain"
)

const (
	reportFunnel  = "funnel"
	reportHeatmap = "heatmap"
)

// GetStoreReport serves the funnel, or the heatmap when mode=heatmap.
func (s *Server) GetStoreReport(c *gin.Context) {
	if reportMode(c) == reportHeatmap {
		s.GetStoreHeatmap(c)
		return
	}
	s.GetStoreFunnel(c)
}

func (s *Server) GetStoreFunnel(c *gin.Context) {
	if s.reportSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	start, end := parseDateRangeQuery(c)
	resp, err := s.reportSvc.GetFunnel(c.Request.Context(), storefunneldomain.FunnelRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetStoreHeatmap(c *gin.Context) {
	if s.reportSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	start, end := parseDateRangeQuery(c)
	resp, err := s.reportSvc.GetHeatmap(c.Request.Context(), storefunneldomain.HeatmapRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func reportMode(c *gin.Context) string {
	if tagged := c.GetString("report"); tagged != "" {
		return tagged
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("mode")), reportHeatmap) {
		return reportHeatmap
	}
	return reportFunnel
}
