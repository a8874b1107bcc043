package feedback

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid feedback record")
	// ErrWriteFailed is returned when the log cannot be written.
	ErrWriteFailed = errors.New("feedback write failed")
)

// TimestampLayout is the serialized form of Record.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Field limits.
const (
	MaxNameLength     = 100
	MaxCommentsLength = 2000
	MinRating         = 1
	MaxRating         = 5
)

// Header is the first row of the feedback log.
var Header = []string{"timestamp", "name", "role", "rating", "comments"}

// Role is the viewer's relationship to the author.
type Role string

const (
	RoleProfessor Role = "Professor"
	RoleClassmate Role = "Classmate"
	RoleFriend    Role = "Friend"
	RoleOther     Role = "Other"
)

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{RoleProfessor, RoleClassmate, RoleFriend, RoleOther}
}

// Record is one feedback submission.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name" validate:"max=100"`
	Role      Role      `json:"role" validate:"required,oneof=Professor Classmate Friend Other"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comments  string    `json:"comments" validate:"max=2000"`
}

// NewRecord builds a record stamped with now, truncated to whole seconds in
// UTC. Name and comments are trimmed.
func NewRecord(name string, role Role, rating int, comments string, now time.Time) Record {
	return Record{
		Timestamp: now.UTC().Truncate(time.Second),
		Name:      strings.TrimSpace(name),
		Role:      role,
		Rating:    rating,
		Comments:  strings.TrimSpace(comments),
	}
}

// Strings returns the record as a log row aligned with Header.
func (r Record) Strings() []string {
	return []string{
		r.Timestamp.UTC().Format(TimestampLayout),
		r.Name,
		string(r.Role),
		strconv.Itoa(r.Rating),
		r.Comments,
	}
}

// parseRecord is the inverse of Record.Strings.
func parseRecord(row []string) (Record, error) {
	if len(row) != len(Header) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(row))
	}
	ts, err := time.Parse(TimestampLayout, row[0])
	if err != nil {
		return Record{}, fmt.Errorf("timestamp: %w", err)
	}
	rating, err := strconv.Atoi(row[3])
	if err != nil {
		return Record{}, fmt.Errorf("rating: %w", err)
	}
	return Record{
		Timestamp: ts,
		Name:      row[1],
		Role:      Role(row[2]),
		Rating:    rating,
		Comments:  row[4],
	}, nil
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a record. It matches
// ErrInvalidRecord with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

// Field returns the message for a field, if it failed.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

// Validator checks records using their struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate returns a *ValidationError when the record is not acceptable.
func (v *Validator) Validate(r Record) error {
	var fields []FieldError
	if r.Timestamp.IsZero() {
		fields = append(fields, FieldError{Field: "timestamp", Message: "timestamp is required"})
	}

	if err := v.validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		if field == "rating" {
			return fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating)
		}
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be between %d and %d", field, MinRating, MaxRating)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be between %d and %d", field, MinRating, MaxRating)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
