package user

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// addressShape is the minimal email check: one '@' between two non-empty runs that
// contain neither whitespace (unicode separators included) nor another '@'.
var addressShape = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	err := v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return addressShape.MatchString(fl.Field().String())
	})

	if err != nil {
		panic(err)
	}

	return v
}

func IsAddress(email string) bool {
	return validate.Var(email, "address") == nil
}

func present(s string) bool {
	return validate.Var(s, "required") == nil
}

func ValidateList() error {
	return nil
}

func ValidateLookup(email string) error {
	return checkAddress(email, "Email")
}

func ValidateDelete(email string) error {
	return checkAddress(email, "Email")
}

func ValidateCreate(req CreateRequest) error {
	if !present(req.Email) {
		return InvalidInput("You must specify an email address")
	}

	if !present(req.Name) {
		return InvalidInput("You must specify a username")
	}

	if err := checkAddress(req.Email, "Email"); err != nil {
		return err
	}

	return checkLengths(req.Email, req.Name, req.BioOrDefault())
}

// ValidateUpdate checks an update of the row currently stored under original.
func ValidateUpdate(original string, req UpdateRequest) error {
	if !present(req.Name) {
		return InvalidInput("You must specify a username")
	}

	if err := checkAddress(original, "Original email"); err != nil {
		return err
	}

	if req.Email != nil && *req.Email != "" {
		if err := checkAddress(*req.Email, "New email"); err != nil {
			return err
		}
	}

	u := req.Resolve(original)

	return checkLengths(u.Email, u.Name, u.Bio)
}

func checkAddress(email, label string) error {
	if !IsAddress(email) {
		// the value is quoted verbatim, not Go-escaped
		return InvalidInput("%s \"%s\" is not valid", label, email)
	}
	return nil
}

func checkLengths(email, name, bio string) error {
	fields := []struct {
		label string
		value string
		max   int
	}{
		{"Email", email, MaxEmailLen},
		{"Name", name, MaxNameLen},
		{"Bio", bio, MaxBioLen},
	}

	for _, f := range fields {
		if validate.Var(f.value, "max="+strconv.Itoa(f.max)) != nil {
			return InvalidInput("%s must be at most %d characters", f.label, f.max)
		}
	}

	return nil
}
