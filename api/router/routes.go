package router

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/ProjectsTask/EasySwapEngine/api/v1"
	"github.com/ProjectsTask/EasySwapEngine/service/svc"
)

// loadV1 挂载 v1 版本路由
func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	api := r.Group("/api/v1")

	orders := api.Group("/orders")
	{
		orders.POST("", v1.MakeOrdersHandler(svcCtx))              // 批量创建订单
		orders.DELETE("", v1.CancelOrdersHandler(svcCtx))          // 批量取消订单
		orders.PUT("", v1.EditOrdersHandler(svcCtx))               // 批量编辑订单
		orders.POST("/match", v1.MatchOrderHandler(svcCtx))        // 单笔撮合
		orders.POST("/match/batch", v1.MatchOrdersHandler(svcCtx)) // 批量撮合
		orders.POST("/claim", v1.ClaimItemsHandler(svcCtx))        // 领取滞留 NFT
		orders.GET("/:order_id", v1.OrderInfoHandler(svcCtx))      // 订单详情
	}

	// 数据库镜像的只读查询
	api.GET("/users/:address/orders", v1.UserOrdersHandler(svcCtx))
	api.GET("/collections/:collection/items/:token_id/activities", v1.ItemActivitiesHandler(svcCtx))

	admin := api.Group("/admin")
	{
		admin.POST("/withdraw", v1.AdminWithdrawHandler(svcCtx)) // 提取协议费
	}
}
