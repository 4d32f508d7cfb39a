package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"clubsphere-backend/internal/domain"
)

var errMalformedBody = domain.NewValidationError("Invalid request body")

// newValidator returns a validator that reports fields by their JSON names
// and knows the notblank tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// decode reads a JSON body into dst and validates it. Validation failures
// become a *domain.ValidationError carrying message and the offending fields.
// An empty body is accepted when optional is set.
func (h *Handler) decode(r *http.Request, dst any, message string, optional bool) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return domain.NewValidationError("Request body too large")
			}
			return errMalformedBody
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return domain.NewValidationError(message, fields...)
	}
	return nil
}

type registerRequest struct {
	UserName string `json:"userName" validate:"notblank"`
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type createClubRequest struct {
	ClubName        string `json:"clubName" validate:"notblank,max=100"`
	ClubDescription string `json:"clubDescription" validate:"notblank,max=2000"`
}

type membershipRequestBody struct {
	RequestMessage string `json:"requestMessage" validate:"max=500"`
}

type createEventRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Location    string `json:"location" validate:"notblank"`
	ClubName    string `json:"clubName" validate:"notblank"`
	Date        string `json:"date" validate:"notblank"`
	Time        string `json:"time" validate:"notblank"`
}
