// Package errcode 对外 API 的错误码定义
package errcode

import "fmt"

// Err 带业务码的错误
type Err struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

func NewErr(code int, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// NewCustomErr 业务自定义错误，统一使用通用错误码
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustom, msg)
}

const (
	CodeOK            = 200
	CodeCustom        = 7000
	CodeInvalidParams = 7001
	CodeInternal      = 7002
)

var (
	ErrInvalidParams = NewErr(CodeInvalidParams, "invalid params")
	ErrInternal      = NewErr(CodeInternal, "internal server error")
)
