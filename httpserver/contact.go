package httpserver

import (
	"contactform/contact"
	"contactform/errs"
	"contactform/pkg/sentry"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

// displayPolicy escapes submitted text for staff pages that render it as HTML.
var displayPolicy = bluemonday.StrictPolicy()

// SubmissionView is a stored submission plus an HTML-safe copy of its fields.
type SubmissionView struct {
	contact.Submission
	HTML contact.Fields `json:"html"`
}

func newSubmissionViews(submissions []contact.Submission) []SubmissionView {
	views := make([]SubmissionView, len(submissions))
	for i, s := range submissions {
		views[i] = SubmissionView{
			Submission: s,
			HTML: contact.Fields{
				Name:    displayPolicy.Sanitize(s.Fields.Name),
				Email:   displayPolicy.Sanitize(s.Fields.Email),
				Phone:   displayPolicy.Sanitize(s.Fields.Phone),
				Message: displayPolicy.Sanitize(s.Fields.Message),
			},
		}
	}
	return views
}

func (s *Server) RegisterPublicContactRoutes(g *echo.Group) {
	g.POST("/contacts", s.handleSubmitContact)
}

func (s *Server) RegisterPrivateContactRoutes(g *echo.Group) {
	g.GET("/contacts", s.handleListContacts)
}

// handleSubmitContact godoc
// @Summary Submit the contact form
// @Description Validate and record a whole contact form in one request
// @Tags contacts
// @Accept json
// @Produce json
// @Param form body SubmitContactRequest true "Form fields"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/contacts [post]
func (s *Server) handleSubmitContact(c echo.Context) error {
	var req SubmitContactRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}

	err := s.ContactService.SubmitContact(c.Request().Context(), req.ToFields())
	if errs.ErrorCode(err) == errs.EINTERNAL {
		sentry.SubmissionFailed(c, "", err)
		return contact.ErrSendFailed
	}
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusCreated, map[string]string{
		"acknowledgement": contact.Acknowledgement,
	})
}

// handleListContacts godoc
// @Summary List submissions
// @Description Staff only: received contact submissions, newest first, with
// @Description an HTML-escaped copy of each under "html"
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/contacts [get]
func (s *Server) handleListContacts(c echo.Context) error {
	submissions, err := s.ContactService.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	c.Logger().Infof("submissions listed by %v", c.Get(staffContextKey))
	return writeList(c, http.StatusOK, newSubmissionViews(submissions))
}
