package cmds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/serviceegy/contact-api/internal/types"
	"github.com/serviceegy/contact-api/internal/validator"
)

// Used when no file is given
var sampleSubmission = types.SubmissionRequest{
	Name:        "عميل تجريبي",
	Address:     "القاهرة",
	Phone:       "01000000000",
	WhatsApp:    "01000000000",
	IssueType:   "لا يعمل",
	DeviceType:  "غسالة",
	ServiceType: "صيانة منزلية",
	BrandName:   "Service Egy",
	Details:     "رسالة تجريبية من contactctl\nلا تحتاج متابعة",
}

// Reads a submission from path, "-" for stdin, or returns the sample when path is empty
func loadSubmission(path string, stdin io.Reader) (types.SubmissionRequest, error) {
	if path == "" {
		return sampleSubmission, nil
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return types.SubmissionRequest{}, fmt.Errorf("failed to open submission: %w", err)
		}
		defer f.Close()
		r = f
	}

	var submission *types.SubmissionRequest
	if err := json.NewDecoder(r).Decode(&submission); err != nil {
		return types.SubmissionRequest{}, fmt.Errorf("failed to parse submission: %w", err)
	}
	if submission == nil {
		return types.SubmissionRequest{}, errors.New("failed to parse submission: body is null")
	}

	validate := validator.Create()
	if err := validate.Validate(submission); err != nil {
		if missing := validator.MissingFields(err); len(missing) > 0 {
			return types.SubmissionRequest{}, fmt.Errorf(
				"submission is missing required fields: %s",
				strings.Join(missing, ", "),
			)
		}
		return types.SubmissionRequest{}, fmt.Errorf("invalid submission: %w", err)
	}

	return *submission, nil
}
