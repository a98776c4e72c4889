package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	msgOK            = "成功"
	msgInvalidFields = "欄位未填寫正確"
	msgServerError   = "伺服器錯誤"
	msgBadPage       = "頁數輸入錯誤"

	msgOrderAdded      = "加入成功"
	msgOrderFailed     = "加入失敗"
	msgCreated         = "新增成功"
	msgCreateFailed    = "新增失敗"
	msgUpdated         = "更新成功"
	msgUpdateFailed    = "更新失敗"
	msgDeleted         = "刪除成功"
	msgDeleteFailed    = "刪除失敗"
	msgUnknownCategory = "找不到該分類"
	msgProductNotFound = "找不到該商品"

	msgSignedUp         = "註冊成功"
	msgEmailTaken       = "註冊失敗，Email 已被使用"
	msgPasswordPolicy   = "密碼不符合規則，需要包含英文數字大小寫，最短8個字，最長32個字"
	msgSignedIn         = "登入成功"
	msgBadCredentials   = "使用者不存在或密碼輸入錯誤"
	msgFetched          = "取得成功"
	msgInvalidTel       = "手機號碼不符合規則"
	msgAddressTooLong   = "地址欄位超出最大字元，最大字元為 30 字元"
	msgNameUnchanged    = "使用者名稱未變更"
	msgProfileFailed    = "更新使用者資料失敗"
	msgSamePassword     = "新密碼不能與舊密碼相同"
	msgPasswordMismatch = "新密碼與驗證新密碼不一致"
	msgWrongPassword    = "舊密碼輸入錯誤"
	msgPasswordFailed   = "更新密碼失敗"
	msgRoleChanged      = "轉換成功"
	msgRoleChangeFailed = "轉換失敗"
)

// ErrorHandler renders every error as {"message": ...}. Errors that are not
// *echo.HTTPError never reach the client with their text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := msgServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Internal != nil && code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("internal_error", "error", he.Internal)
		}
		if s, ok := he.Message.(string); ok {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, transport.Response{Message: msg})
}

func ok(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, transport.Response{Message: msg, Data: data})
}
