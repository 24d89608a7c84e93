package contact

import (
	"regexp"
	"strings"
	"time"

	"contactform/errs"
)

// Field names a contact form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldMessage Field = "message"
)

// AllFields lists the form inputs in display order.
var AllFields = []Field{FieldName, FieldEmail, FieldPhone, FieldMessage}

// Validation messages are rendered verbatim next to the inputs.
const (
	MsgNameRequired    = "Name is required"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Invalid email format"
	MsgPhoneRequired   = "Phone number is required"
	MsgPhoneInvalid    = "Phone number must be 10 digits"
	MsgMessageRequired = "Message cannot be empty"
)

// Acknowledgement is shown to the visitor after an accepted submission.
const Acknowledgement = "Thank you! Your message has been sent."

var (
	ErrUnknownField = errs.Errorf(errs.EINVALID, "unknown form field")
	ErrSubmitting   = errs.Errorf(errs.ECONFLICT, "submission already in progress")
	ErrSendFailed   = errs.Errorf(errs.EUNAVAILABLE, "Your message could not be sent. Please try again.")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ParseField returns the Field for a raw input name.
func ParseField(name string) (Field, error) {
	for _, f := range AllFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

// Fields holds the draft values of the contact form. The zero value is the
// empty form.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Get returns the value of f.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Set stores value under field.
func (f *Fields) Set(field Field, value string) error {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldMessage:
		f.Message = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Validate runs every field rule and collects the failures. An empty result
// means the form can be submitted.
func (f Fields) Validate() FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(f.Name) == "" {
		fe[FieldName] = MsgNameRequired
	}

	if f.Email == "" {
		fe[FieldEmail] = MsgEmailRequired
	} else if !emailPattern.MatchString(f.Email) {
		fe[FieldEmail] = MsgEmailInvalid
	}

	if f.Phone == "" {
		fe[FieldPhone] = MsgPhoneRequired
	} else if !phonePattern.MatchString(f.Phone) {
		fe[FieldPhone] = MsgPhoneInvalid
	}

	if strings.TrimSpace(f.Message) == "" {
		fe[FieldMessage] = MsgMessageRequired
	}

	return fe
}

// FieldErrors maps a failing field to its message. Valid fields are absent.
type FieldErrors map[Field]string

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Err converts fe into an EINVALID application error carrying the field
// messages as details, or nil when fe is empty.
func (fe FieldErrors) Err() error {
	if fe.Valid() {
		return nil
	}
	details := make(map[string]string, len(fe))
	for f, msg := range fe {
		details[string(f)] = msg
	}
	return &errs.Error{
		Code:    errs.EINVALID,
		Message: "validation error",
		Details: details,
	}
}

func (fe FieldErrors) clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for f, msg := range fe {
		out[f] = msg
	}
	return out
}

// Submission is an accepted form as recorded by the sink.
type Submission struct {
	ID          string    `json:"id"`
	Fields      Fields    `json:"fields"`
	SubmittedAt time.Time `json:"submittedAt"`
}
