package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/transport"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// RequestValidator checks request bodies, parameters and queries against
// the OpenAPI document. Requests for operations the document does not
// describe pass through untouched.
type RequestValidator struct {
	router routers.Router
	base   *transport.BaseHandler
}

func NewRequestValidator(ctx context.Context, specPath string) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return newRequestValidator(ctx, doc)
}

// NewRequestValidatorFromData is NewRequestValidator for an in-memory document.
func NewRequestValidatorFromData(ctx context.Context, data []byte) (*RequestValidator, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return newRequestValidator(ctx, doc)
}

func newRequestValidator(ctx context.Context, doc *openapi3.T) (*RequestValidator, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	return &RequestValidator{router: router, base: transport.NewBaseHandler(nil)}, nil
}

func (v *RequestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				MultiError:         true,
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.base.WriteAppError(w, validationFailure(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validationFailure(err error) *internal.AppError {
	var details []internal.ValidationError
	collectIssues(err, &details)
	if len(details) == 0 {
		details = append(details, internal.ValidationError{Path: "body", Message: err.Error()})
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: details})
}

func collectIssues(err error, out *[]internal.ValidationError) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			collectIssues(e, out)
		}
		return
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		var nested openapi3.MultiError
		if errors.As(reqErr.Err, &nested) {
			collectIssues(nested, out)
			return
		}
		path := "body"
		if reqErr.Parameter != nil {
			path = reqErr.Parameter.Name
		}
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			if p := schemaErr.JSONPointer(); len(p) > 0 {
				path = strings.Join(p, ".")
			}
			*out = append(*out, internal.ValidationError{Path: path, Message: schemaErr.Reason})
			return
		}
		*out = append(*out, internal.ValidationError{Path: path, Message: reqErr.Error()})
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		path := "body"
		if p := schemaErr.JSONPointer(); len(p) > 0 {
			path = strings.Join(p, ".")
		}
		*out = append(*out, internal.ValidationError{Path: path, Message: schemaErr.Reason})
		return
	}
	*out = append(*out, internal.ValidationError{Path: "body", Message: err.Error()})
}
