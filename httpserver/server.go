package httpserver

import (
	"context"
	"contactform/contact"
	"contactform/errs"
	"contactform/pkg/config"
	"contactform/pkg/jwt"
	"contactform/pkg/sentry"
	"fmt"
	"net/http"

	sentryecho "github.com/getsentry/sentry-go/echo"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// staffContextKey holds the staff subject set by the JWT middleware.
const staffContextKey = "staff"

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	ContactService contact.Service

	// Drafts holds the per-visitor forms driven through /api/contact-forms
	Drafts *contact.Drafts

	Tokens *jwt.JWTProvider
}

func Default(cfg *config.Config) *Server {
	s := &Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: cfg.Origins(),
		Tokens:       jwt.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}
	if len(s.AllowOrigins) == 0 {
		s.AllowOrigins = []string{"*"}
	}
	s.Drafts = contact.NewDrafts(
		contact.SinkFunc(s.record),
		contact.WithDraftTTL(cfg.DraftTTL),
		contact.WithDraftLimit(cfg.DraftLimit),
	)

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = customHTTPErrorHandler
	s.Router.Validator = NewValidator()
	s.RegisterGlobalMiddlewares()
	api := s.Router.Group("/api")

	// PUBLIC
	public := api.Group("")
	s.RegisterPublicRoutes(public)

	// PRIVATE
	private := api.Group("")
	private.Use(echojwt.WithConfig(echojwt.Config{
		ContextKey: staffContextKey,
		ParseTokenFunc: func(_ echo.Context, auth string) (interface{}, error) {
			return s.Tokens.ParseStaffToken(auth)
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return errs.Errorf(errs.EUNAUTHORIZED, "staff token required")
		},
	}))
	s.RegisterPrivateRoutes(private)
	s.RegisterHealthRoutes()
	return s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// record forwards accepted drafts to the contact service, which may be
// swapped after Default returns.
func (s *Server) record(ctx context.Context, f contact.Fields) error {
	if s.ContactService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "contact service is not configured")
	}
	return s.ContactService.Record(ctx, f)
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status codes
func customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"
	var result interface{}

	// Check if it's an Echo HTTPError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		// Map application error codes to HTTP status codes
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
			if details := errs.ErrorDetails(err); len(details) > 0 {
				result = map[string]interface{}{"errors": details}
			}
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		case errs.EUNAVAILABLE:
			code = http.StatusServiceUnavailable
			message = errs.ErrorMessage(err)
		case errs.EINTERNAL:
			code = http.StatusInternalServerError
			message = "Internal server error"
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
		// send failures are reported where they happen
		if code != http.StatusServiceUnavailable {
			sentry.WithContext(c).Error(err)
		}
	}

	// Don't write response if already committed
	if !c.Response().Committed {
		err = writeResult(c, code, message, result, err)
		if err != nil {
			c.Logger().Error(err)
		}
	}
}

func (s *Server) RegisterPublicRoutes(g *echo.Group) {
	s.RegisterPublicContactRoutes(g)
	s.RegisterFormRoutes(g.Group("/contact-forms"))
}

func (s *Server) RegisterPrivateRoutes(g *echo.Group) {
	s.RegisterPrivateContactRoutes(g)
}
