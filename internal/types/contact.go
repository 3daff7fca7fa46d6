package types

type (
	// Maintenance request as posted by the website contact form
	SubmissionRequest struct {
		Name       string `json:"name"        validate:"required"`
		Address    string `json:"address"     validate:"required"`
		Phone      string `json:"phone"       validate:"required"`
		WhatsApp   string `json:"whatsapp"    validate:"required"`
		IssueType  string `json:"issueType"   validate:"required"`
		DeviceType string `json:"deviceType"  validate:"required"`

		Details     string `json:"details,omitempty"`
		ServiceType string `json:"serviceType,omitempty"`
		BrandName   string `json:"brandName,omitempty"`
	}

	SubmissionResponse struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		MessageID string `json:"messageId"`
	}
)
