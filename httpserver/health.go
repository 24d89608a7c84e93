package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthStatus struct {
	Status     string `json:"status"`
	OpenDrafts int    `json:"openDrafts"`
}

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive and how many contact forms are open
// @Tags health
// @Success 200 {object} APIResponse
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	return writeSuccess(c, http.StatusOK, healthStatus{
		Status:     "OK",
		OpenDrafts: s.Drafts.Len(),
	})
}
