package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapEngine/errcode"
	"github.com/ProjectsTask/EasySwapEngine/service/svc"
	service "github.com/ProjectsTask/EasySwapEngine/service/v1"
	"github.com/ProjectsTask/EasySwapEngine/types/v1"
	"github.com/ProjectsTask/EasySwapEngine/xhttp"
)

// MakeOrdersHandler 批量创建订单
// 卖单托管 NFT，买单托管资金；资金或校验不通过的订单被跳过，
// 对应位置返回全零 Key
func MakeOrdersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MakeOrdersReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.MakeOrders(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// CancelOrdersHandler 批量取消订单
// 只有挂单人本人可以取消，取消即释放托管的资金或 NFT
func CancelOrdersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CancelOrdersReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.CancelOrders(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// EditOrdersHandler 批量编辑订单
// 编辑等价于取消旧单加创建新单，只允许改价格和数量
func EditOrdersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.EditOrdersReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.EditOrders(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// MatchOrderHandler 单笔撮合
// 任一环节失败整体回退，附带资金原路退回
func MatchOrderHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MatchOrderReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.MatchOrder(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.Ok(c)
	}
}

// MatchOrdersHandler 批量撮合
// 逐对执行，单对失败不影响其它对，结果与请求一一对应
func MatchOrdersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MatchOrdersReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.MatchOrders(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// OrderInfoHandler 查询订单详情
func OrderInfoHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderId := c.Param("order_id")
		if orderId == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.GetOrderInfo(c.Request.Context(), svcCtx, orderId)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// UserOrdersHandler 查询用户全部活跃订单
func UserOrdersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		userAddr := c.Param("address")
		if userAddr == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.GetUserOrders(c.Request.Context(), svcCtx, userAddr)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// ItemActivitiesHandler 查询某个 NFT 的活动流水
func ItemActivitiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Param("collection")
		tokenId := c.Param("token_id")
		if collection == "" || tokenId == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		res, err := service.GetItemActivities(c.Request.Context(), svcCtx, collection, tokenId, limit)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// ClaimItemsHandler 领取交割失败滞留的 NFT
func ClaimItemsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ClaimItemsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.ClaimItems(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// AdminWithdrawHandler 管理员提取累计协议费
func AdminWithdrawHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.WithdrawReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.Withdraw(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.Ok(c)
	}
}
