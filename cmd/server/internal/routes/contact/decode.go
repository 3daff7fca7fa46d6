package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/serviceegy/contact-api/internal/types"
)

var (
	errEmptyBody    = errors.New("request body is null")
	errTrailingData = errors.New("unexpected data after request body")
	errNotString    = errors.New("value is not a string")
)

// Targets of the submission keys. Keys are matched exactly.
func submissionFields(req *types.SubmissionRequest) []struct {
	key string
	dst *string
} {
	return []struct {
		key string
		dst *string
	}{
		{"name", &req.Name},
		{"address", &req.Address},
		{"phone", &req.Phone},
		{"whatsapp", &req.WhatsApp},
		{"issueType", &req.IssueType},
		{"deviceType", &req.DeviceType},
		{"details", &req.Details},
		{"serviceType", &req.ServiceType},
		{"brandName", &req.BrandName},
	}
}

// Decodes the body as a JSON object whatever the Content-Type, matching what the form sends.
//
// Falsy values (null, false, 0) read as an empty field so the required check rejects them.
// Any other non-string value is a parse error.
func decodeSubmission(body io.Reader) (*types.SubmissionRequest, error) {
	dec := json.NewDecoder(body)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errEmptyBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	req := &types.SubmissionRequest{}
	for _, field := range submissionFields(req) {
		value, err := fieldString(raw[field.key])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.key, err)
		}
		*field.dst = value
	}

	return req, nil
}

func fieldString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if !v {
			return "", nil
		}
	case float64:
		if v == 0 {
			return "", nil
		}
	}

	return "", errNotString
}
