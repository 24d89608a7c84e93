package httpserver

import (
	"contactform/contact"
	"contactform/errs"
	"contactform/pkg/sentry"
	"net/http"

	"github.com/labstack/echo/v4"
)

// FormView is what the page renders: the inputs, the inline field errors
// and, after a failed send, a general error.
type FormView struct {
	ID              string              `json:"id"`
	State           string              `json:"state"`
	Fields          contact.Fields      `json:"fields"`
	Errors          contact.FieldErrors `json:"errors"`
	Error           string              `json:"error,omitempty"`
	Outcome         string              `json:"outcome,omitempty"`
	Acknowledgement string              `json:"acknowledgement,omitempty"`
}

func newFormView(id string, ctrl *contact.Controller) FormView {
	v := FormView{
		ID:     id,
		State:  ctrl.State().String(),
		Fields: ctrl.Fields(),
		Errors: ctrl.Errors(),
	}
	if ctrl.SubmitErr() != nil {
		v.Error = contact.ErrSendFailed.Message
	}
	return v
}

func (s *Server) RegisterFormRoutes(g *echo.Group) {
	g.POST("", s.handleCreateForm)
	g.GET("/:id", s.handleGetForm)
	g.PUT("/:id/fields/:field", s.handleUpdateField)
	g.POST("/:id/submit", s.handleSubmitForm)
	g.DELETE("/:id", s.handleDiscardForm)
}

func (s *Server) bindForm(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	return c.Validate(req)
}

// handleCreateForm godoc
// @Summary Open a contact form
// @Tags contact-forms
// @Produce json
// @Success 201 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/contact-forms [post]
func (s *Server) handleCreateForm(c echo.Context) error {
	id, ctrl, err := s.Drafts.Create()
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusCreated, newFormView(id, ctrl))
}

// handleGetForm godoc
// @Summary Show a contact form
// @Tags contact-forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/contact-forms/{id} [get]
func (s *Server) handleGetForm(c echo.Context) error {
	var req FormRequest
	if err := s.bindForm(c, &req); err != nil {
		return err
	}
	ctrl, err := s.Drafts.Get(req.ID)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newFormView(req.ID, ctrl))
}

// handleUpdateField godoc
// @Summary Update one input
// @Description Stores the value as typed; validation only runs on submit
// @Tags contact-forms
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param field path string true "name, email, phone or message"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/contact-forms/{id}/fields/{field} [put]
func (s *Server) handleUpdateField(c echo.Context) error {
	var req UpdateFieldRequest
	if err := s.bindForm(c, &req); err != nil {
		return err
	}
	ctrl, err := s.Drafts.Get(req.ID)
	if err != nil {
		return err
	}
	if err := ctrl.UpdateField(contact.Field(req.Field), req.Value); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newFormView(req.ID, ctrl))
}

// handleSubmitForm godoc
// @Summary Submit a contact form
// @Tags contact-forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/contact-forms/{id}/submit [post]
func (s *Server) handleSubmitForm(c echo.Context) error {
	var req FormRequest
	if err := s.bindForm(c, &req); err != nil {
		return err
	}
	ctrl, err := s.Drafts.Get(req.ID)
	if err != nil {
		return err
	}

	res := ctrl.Submit(c.Request().Context())
	view := newFormView(req.ID, ctrl)
	view.Outcome = res.Outcome.String()

	switch res.Outcome {
	case contact.Accepted:
		view.Acknowledgement = contact.Acknowledgement
		return writeSuccess(c, http.StatusOK, view)
	case contact.Rejected:
		err := res.Errors.Err()
		return writeResult(c, http.StatusBadRequest, errs.ErrorMessage(err), view, err)
	case contact.Busy:
		return writeResult(c, http.StatusConflict, errs.ErrorMessage(res.Err), view, res.Err)
	default:
		sentry.SubmissionFailed(c, req.ID, res.Err)
		return writeResult(c, http.StatusServiceUnavailable, contact.ErrSendFailed.Message, view, contact.ErrSendFailed)
	}
}

// handleDiscardForm godoc
// @Summary Discard a contact form
// @Description Cancels a submission still in flight and forgets the form
// @Tags contact-forms
// @Param id path string true "Form ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /api/contact-forms/{id} [delete]
func (s *Server) handleDiscardForm(c echo.Context) error {
	var req FormRequest
	if err := s.bindForm(c, &req); err != nil {
		return err
	}
	if err := s.Drafts.Discard(req.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
