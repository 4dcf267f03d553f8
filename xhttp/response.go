// Package xhttp 统一的 HTTP 响应包装
package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapEngine/errcode"
)

type response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson 成功响应
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Code: errcode.CodeOK, Msg: "ok", Data: data})
}

// Ok 无数据的成功响应
func Ok(c *gin.Context) {
	c.JSON(http.StatusOK, response{Code: errcode.CodeOK, Msg: "ok"})
}

// Error 失败响应，errcode.Err 按业务码返回，其余统一按内部错误处理
func Error(c *gin.Context, err error) {
	if e, ok := err.(*errcode.Err); ok {
		c.JSON(http.StatusOK, response{Code: e.Code, Msg: e.Msg})
		return
	}
	c.JSON(http.StatusOK, response{Code: errcode.CodeInternal, Msg: err.Error()})
}
