package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/domain"
)

// validate is shared; *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// taskField describes one accepted body field.
type taskField struct {
	key   string // JSON key
	label string // human name used in messages
	rule  string // validator tag applied to present values
	max   int
}

var taskFields = []taskField{
	{
		key:   "title",
		label: "task title",
		rule:  fmt.Sprintf("max=%d", domain.MaxTitleLength),
		max:   domain.MaxTitleLength,
	},
	{
		key:   "description",
		label: "task description",
		rule:  fmt.Sprintf("max=%d", domain.MaxDescriptionLength),
		max:   domain.MaxDescriptionLength,
	},
}

type parseMode int

const (
	createMode parseMode = iota
	updateMode
)

// ParseCreateTask validates a create payload. Both title and description
// are required non-empty strings. On success both fields of the result are set.
func ParseCreateTask(body []byte) (domain.TaskFields, error) {
	return parseTask(body, createMode)
}

// ParseUpdateTask validates an update payload. Each field is optional but
// must be a non-empty string when present. An empty result means "no change".
func ParseUpdateTask(body []byte) (domain.TaskFields, error) {
	return parseTask(body, updateMode)
}

func parseTask(body []byte, mode parseMode) (domain.TaskFields, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return domain.TaskFields{}, err
	}

	var (
		out  domain.TaskFields
		verr = &domain.ValidationError{}
	)
	for _, f := range taskFields {
		value, present, msg := checkField(raw, f)
		switch {
		case !present && mode == createMode:
			verr.Add(f.key, fmt.Sprintf("no %s provided", f.label))
		case msg != "":
			verr.Add(f.key, msg)
		case present:
			v := value
			switch f.key {
			case "title":
				out.Title = &v
			case "description":
				out.Description = &v
			}
		}
	}

	if verr.HasErrors() {
		return domain.TaskFields{}, verr
	}
	return out, nil
}

// decodeObject returns the top-level members of body. An empty body, or
// valid JSON that is not an object, yields no members.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, domain.NewValidationError("body", "request body must be valid JSON")
	}
	if trimmed[0] != '{' {
		return map[string]json.RawMessage{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, domain.NewValidationError("body", "request body must be valid JSON")
	}
	return raw, nil
}

// checkField reports the field's string value, whether it was present, and
// a validation message when the present value is unacceptable.
func checkField(raw map[string]json.RawMessage, f taskField) (string, bool, string) {
	msg, ok := raw[f.key]
	if !ok {
		return "", false, ""
	}

	var value string
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) || json.Unmarshal(msg, &value) != nil {
		return "", true, fmt.Sprintf("%s must be a string", f.label)
	}
	if strings.TrimSpace(value) == "" {
		return "", true, fmt.Sprintf("%s cannot be empty", f.label)
	}
	if err := validate.Var(value, f.rule); err != nil {
		return "", true, ruleMessage(err, f)
	}
	return value, true, ""
}

func ruleMessage(err error, f taskField) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return fmt.Sprintf("%s must be at most %d characters", f.label, f.max)
	}
	return fmt.Sprintf("%s is invalid", f.label)
}
