package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serviceegy/contact-api/internal/types"
)

// Messages shown to the website visitor
const (
	MsgSubmitted        = "تم إرسال الطلب بنجاح"
	MsgMissingFields    = "جميع الحقول المطلوبة يجب ملؤها"
	MsgMisconfigured    = "إعدادات الإيميل غير مكتملة. يرجى التحقق من إعدادات SMTP."
	MsgAuthFailed       = "خطأ في بيانات الدخول SMTP. يرجى التحقق من اسم المستخدم وكلمة المرور."
	MsgConnectionFailed = "فشل الاتصال بخادم SMTP. يرجى التحقق من إعدادات SMTP."
	MsgSendFailed       = "حدث خطأ أثناء إرسال الإيميل"
)

var (
	InternalServerError = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError(MsgSendFailed),
	)
	NotFoundError      = echo.NewHTTPError(http.StatusNotFound, types.StringError("not found"))
	MissingFieldsError = echo.NewHTTPError(http.StatusBadRequest, types.StringError(MsgMissingFields))
	MisconfiguredError = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError(MsgMisconfigured),
	)
	AuthFailedError = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError(MsgAuthFailed),
	)
	ConnectionFailedError = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError(MsgConnectionFailed),
	)
)

// 500 carrying the relay's own error text, or the generic message when there is none
func SendFailedError(detail string) *echo.HTTPError {
	if detail == "" {
		return InternalServerError
	}
	return echo.NewHTTPError(http.StatusInternalServerError, types.StringError(detail))
}
