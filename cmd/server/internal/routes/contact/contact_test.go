package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/serviceegy/contact-api/cmd/server/internal/response"
	"github.com/serviceegy/contact-api/cmd/server/internal/routes"
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/email"
	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/mailer"
	mockmailer "github.com/serviceegy/contact-api/internal/mailer/mock"
	"github.com/serviceegy/contact-api/internal/types"
)

var requestTime = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:       "smtp.hostinger.com",
		Port:       465,
		User:       "bot@service-egy.com",
		Password:   "hunter2",
		To:         "info@service-egy.com",
		SenderName: "Service Egy",
	}
}

func validBody() map[string]any {
	return map[string]any{
		"name":       "A",
		"address":    "B",
		"phone":      "010",
		"whatsapp":   "010",
		"issueType":  "X",
		"deviceType": "Y",
	}
}

func encode(t *testing.T, body any) string {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return string(raw)
}

type fixture struct {
	e        *echo.Echo
	sender   *mockmailer.MockSender
	composer *email.Composer
}

func newFixture(t *testing.T, allowList []string, smtp config.SMTPConfig) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	sender := mockmailer.NewMockSender(ctrl)

	e, err := routes.BuildEcho(logger.Logger, routes.Options{
		AllowList: allowList,
		Now:       func() time.Time { return requestTime },
	})
	require.NoError(t, err)

	composer := email.NewComposer(time.UTC)
	h, err := NewHandler(sender, composer, smtp)
	require.NoError(t, err)
	h.AddRoutes(e)

	return &fixture{e: e, sender: sender, composer: composer}
}

func (f *fixture) do(method string, path string, body string, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if origin != "" {
		req.Header.Set(echo.HeaderOrigin, origin)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestPreflight(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())

	for _, path := range []string{"/", "/api/contact", "/api/contact/"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(http.MethodOptions, path, "", "https://x.example")

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Body.String())
			assert.Equal(t, "https://x.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.Equal(t, "POST,OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
			assert.Equal(t, "Content-Type", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
		})
	}
}

func TestSubmitMissingFields(t *testing.T) {
	f := newFixture(t, []string{"https://a.example"}, smtpConfig())

	for _, field := range []string{"name", "address", "phone", "whatsapp", "issueType", "deviceType"} {
		t.Run("Absent_"+field, func(t *testing.T) {
			body := validBody()
			delete(body, field)

			rec := f.do(http.MethodPost, "/", encode(t, body), "https://evil.example")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, response.MsgMissingFields, decodeBody(t, rec)["error"])
			assert.Equal(t, "https://a.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})

		t.Run("Empty_"+field, func(t *testing.T) {
			body := validBody()
			body[field] = ""

			rec := f.do(http.MethodPost, "/", encode(t, body), "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, response.MsgMissingFields, decodeBody(t, rec)["error"])
		})
	}

	t.Run("EmptyObject", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/", "{}", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitKeysAreExact(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())

	tests := []struct {
		name string
		body string
	}{
		{
			name: "UpperCaseOnly",
			body: `{"name": "A", "address": "B", "PHONE": "010", "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`,
		},
		{
			name: "EmptyThenVariant",
			body: `{"name": "A", "address": "B", "phone": "", "Phone": "010", "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`,
		},
		{
			name: "MixedCaseOnly",
			body: `{"Name": "A", "address": "B", "phone": "010", "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`,
		},
		{
			name: "DuplicateLastEmpty",
			body: `{"name": "A", "address": "B", "phone": "010", "phone": "", "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/", tt.body, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, response.MsgMissingFields, decodeBody(t, rec)["error"])
		})
	}
}

func TestSubmitFalsyValuesAreMissing(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())

	for _, value := range []any{nil, false, 0, 0.0} {
		t.Run(fmt.Sprintf("%v", value), func(t *testing.T) {
			body := validBody()
			body["name"] = value

			rec := f.do(http.MethodPost, "/", encode(t, body), "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, response.MsgMissingFields, decodeBody(t, rec)["error"])
		})
	}
}

func TestSubmitUnparsable(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())

	tests := []struct {
		name string
		body string
	}{
		{name: "NotJSON", body: "name=A"},
		{name: "Empty", body: ""},
		{name: "Null", body: "null"},
		{name: "Truncated", body: `{"name": "A"`},
		{name: "WrongType", body: `{"name": 1, "address": "B", "phone": "010", "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`},
		{name: "Array", body: `[]`},
		{name: "TrailingData", body: `{"name": "A"} {"name": "B"}`},
		{name: "TrailingBrace", body: `{"name": "A"}}`},
		{name: "TrueValue", body: `{"name": true, "address": "B", "phone": "010", "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`},
		{name: "ObjectValue", body: `{"name": "A", "address": "B", "phone": {"n": "010"}, "whatsapp": "010", "issueType": "X", "deviceType": "Y"}`},
		{name: "OptionalWrongType", body: `{"name": "A", "address": "B", "phone": "010", "whatsapp": "010", "issueType": "X", "deviceType": "Y", "details": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/", tt.body, "https://x.example")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, response.MsgSendFailed, decodeBody(t, rec)["error"])
			assert.Equal(t, "https://x.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestSubmitMisconfigured(t *testing.T) {
	for name, mutate := range map[string]func(*config.SMTPConfig){
		"NoUser":     func(c *config.SMTPConfig) { c.User = "" },
		"NoPassword": func(c *config.SMTPConfig) { c.Password = "" },
		"Neither":    func(c *config.SMTPConfig) { c.User, c.Password = "", "" },
	} {
		t.Run(name, func(t *testing.T) {
			smtp := smtpConfig()
			mutate(&smtp)
			f := newFixture(t, []string{"*"}, smtp)

			rec := f.do(http.MethodPost, "/", encode(t, validBody()), "")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, response.MsgMisconfigured, decodeBody(t, rec)["error"])
		})
	}

	t.Run("ValidationFirst", func(t *testing.T) {
		smtp := smtpConfig()
		smtp.Password = ""
		f := newFixture(t, []string{"*"}, smtp)

		rec := f.do(http.MethodPost, "/", "{}", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitDispatched(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())

	body := validBody()
	body["brandName"] = "توشيبا"

	var sent mailer.Message
	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg mailer.Message) (string, error) {
			sent = msg
			return "<abc@service-egy.com>", nil
		}).
		Times(1)

	rec := f.do(http.MethodPost, "/api/contact", encode(t, body), "https://y.example")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(
		t,
		`{"success":true,"message":"تم إرسال الطلب بنجاح","messageId":"<abc@service-egy.com>"}`,
		rec.Body.String(),
	)
	assert.Equal(t, "https://y.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	assert.Equal(t, "bot@service-egy.com", sent.From)
	assert.Equal(t, "Service Egy", sent.FromName)
	assert.Equal(t, "info@service-egy.com", sent.To)
	assert.Equal(t, "bot@service-egy.com", sent.ReplyTo)
	assert.Equal(t, "طلب صيانة جديد من A", sent.Subject)
	assert.Equal(t, map[string]string{"X-Mailer": "Service Egy Contact Form"}, sent.Headers)

	expected, err := f.composer.Compose(context.Background(), types.SubmissionRequest{
		Name:       "A",
		Address:    "B",
		Phone:      "010",
		WhatsApp:   "010",
		IssueType:  "X",
		DeviceType: "Y",
		BrandName:  "توشيبا",
	}, requestTime)
	require.NoError(t, err)
	assert.Equal(t, expected.Text, sent.Text, "rendered at the request time")
	assert.Equal(t, expected.HTML, sent.HTML)
}

func TestSubmitAnyContentType(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())
	f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("<id@x>", nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(encode(t, validBody())))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitDispatchFailed(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Auth",
			err:      &mailer.DispatchError{Kind: mailer.KindAuth, Err: errors.New("535 5.7.8 invalid credentials")},
			expected: response.MsgAuthFailed,
		},
		{
			name:     "Connection",
			err:      &mailer.DispatchError{Kind: mailer.KindConnection, Err: errors.New("dial tcp: connection refused")},
			expected: response.MsgConnectionFailed,
		},
		{
			name:     "Other",
			err:      &mailer.DispatchError{Kind: mailer.KindOther, Err: errors.New("552 message too large")},
			expected: "552 message too large",
		},
		{
			name:     "OtherEmpty",
			err:      &mailer.DispatchError{Kind: mailer.KindOther, Err: errors.New("")},
			expected: response.MsgSendFailed,
		},
		{
			name:     "Unclassified",
			err:      errors.New("boom"),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []string{"*"}, smtpConfig())
			f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("", tt.err).Times(1)

			rec := f.do(http.MethodPost, "/", encode(t, validBody()), "https://z.example")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.expected, decodeBody(t, rec)["error"])
			assert.Equal(t, "https://z.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestSubmitNotIdempotent(t *testing.T) {
	f := newFixture(t, []string{"*"}, smtpConfig())

	ids := []string{"<one@service-egy.com>", "<two@service-egy.com>"}
	calls := 0
	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, mailer.Message) (string, error) {
			id := ids[calls]
			calls++
			return id, nil
		}).
		Times(2)

	first := decodeBody(t, f.do(http.MethodPost, "/", encode(t, validBody()), ""))
	second := decodeBody(t, f.do(http.MethodPost, "/", encode(t, validBody()), ""))

	assert.Equal(t, 2, calls)
	assert.NotEqual(t, first["messageId"], second["messageId"])
}

func TestSubmitRequiresRequestTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	h, err := NewHandler(mockmailer.NewMockSender(ctrl), email.NewComposer(time.UTC), smtpConfig())
	require.NoError(t, err)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")), httptest.NewRecorder())

	assert.Equal(t, response.InternalServerError, h.Submit(c))
}
