package httpserver

import (
	"contactform/contact"
)

// SubmitContactRequest carries a whole form. Field rules live in the
// contact package so the messages match the ones shown while editing.
type SubmitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (r SubmitContactRequest) ToFields() contact.Fields {
	return contact.Fields{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Message: r.Message,
	}
}

type FormRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

type UpdateFieldRequest struct {
	ID    string `param:"id" json:"-" validate:"required,uuid"`
	Field string `param:"field" json:"-" validate:"required,formfield"`
	Value string `json:"value"`
}
