package types

// OrderParam 订单参数，创建和编辑订单时由客户端提交
type OrderParam struct {
	Side       uint8  `json:"side" binding:"oneof=0 1"`          // 0 卖单 / 1 买单
	SaleKind   uint8  `json:"sale_kind" binding:"oneof=0 1"`     // 0 集合出价 / 1 指定 Item
	Maker      string `json:"maker" binding:"required,eth_addr"` // 挂单人地址
	Collection string `json:"collection" binding:"required,eth_addr"`
	TokenId    string `json:"token_id"`                       // 十进制 Token ID
	Amount     int64  `json:"amount" binding:"required,gt=0"` // 数量
	Price      string `json:"price" binding:"required"`       // 十进制单价 (wei)
	Currency   string `json:"currency"`                       // 结算币种，空或零地址为原生币
	Expiry     uint64 `json:"expiry"`                         // 过期时间戳，0 永不过期
	Salt       uint64 `json:"salt" binding:"required"`        // 盐值，非零
}

// MakeOrdersReq 批量创建订单请求
type MakeOrdersReq struct {
	Caller   string       `json:"caller" binding:"required,eth_addr"` // 发起人地址
	Attached string       `json:"attached"`                           // 随请求附带的原生币金额 (wei)
	Orders   []OrderParam `json:"orders" binding:"required,min=1,dive"`
}

// MakeOrdersResp 批量创建订单响应
// 被跳过的订单对应位置为全零 Key
type MakeOrdersResp struct {
	OrderIDs []string `json:"order_ids"`
}

// CancelOrdersReq 批量取消订单请求
type CancelOrdersReq struct {
	Caller   string   `json:"caller" binding:"required,eth_addr"`
	OrderIDs []string `json:"order_ids" binding:"required,min=1"`
}

// CancelOrdersResp 批量取消订单响应，与请求一一对应
type CancelOrdersResp struct {
	Successes []bool `json:"successes"`
}

// EditDetailParam 单个订单编辑明细
type EditDetailParam struct {
	OldOrderID string     `json:"old_order_id" binding:"required"`
	NewOrder   OrderParam `json:"new_order" binding:"required"`
}

// EditOrdersReq 批量编辑订单请求
type EditOrdersReq struct {
	Caller   string            `json:"caller" binding:"required,eth_addr"`
	Attached string            `json:"attached"`
	Edits    []EditDetailParam `json:"edits" binding:"required,min=1,dive"`
}

// EditOrdersResp 批量编辑订单响应
type EditOrdersResp struct {
	OrderIDs []string `json:"order_ids"`
}

// MatchOrderReq 单笔撮合请求
type MatchOrderReq struct {
	Caller    string     `json:"caller" binding:"required,eth_addr"`
	Attached  string     `json:"attached"`
	SellOrder OrderParam `json:"sell_order" binding:"required"`
	BuyOrder  OrderParam `json:"buy_order" binding:"required"`
}

// MatchDetailParam 批量撮合中的单个买卖对
type MatchDetailParam struct {
	SellOrder OrderParam `json:"sell_order" binding:"required"`
	BuyOrder  OrderParam `json:"buy_order" binding:"required"`
}

// MatchOrdersReq 批量撮合请求
type MatchOrdersReq struct {
	Caller   string             `json:"caller" binding:"required,eth_addr"`
	Attached string             `json:"attached"`
	Details  []MatchDetailParam `json:"details" binding:"required,min=1,dive"`
}

// MatchOrdersResp 批量撮合响应，逐对返回成功与否
type MatchOrdersResp struct {
	Successes []bool `json:"successes"`
}

// OrderInfo 订单详情响应
type OrderInfo struct {
	OrderID           string `json:"order_id"`
	Status            int    `json:"status"` // 0 活跃 / 1 已成交 / 2 已取消 / 3 已过期
	Side              uint8  `json:"side"`
	SaleKind          uint8  `json:"sale_kind"`
	Maker             string `json:"maker"`
	Collection        string `json:"collection"`
	TokenId           string `json:"token_id"`
	Amount            int64  `json:"amount"`
	Filled            int64  `json:"filled"`
	Price             string `json:"price"`
	Currency          string `json:"currency"`
	Expiry            uint64 `json:"expiry"`
	Salt              uint64 `json:"salt"`
	EscrowedValue     string `json:"escrowed_value"`      // 该订单在托管账户里的剩余资金
	EscrowedItemOwner string `json:"escrowed_item_owner"` // 托管 NFT 的原持有人，空表示未托管
}

// UserOrdersResp 用户未结订单列表响应
type UserOrdersResp struct {
	Orders []OrderInfo `json:"orders"`
}

// ActivityInfo 订单活动流水
type ActivityInfo struct {
	ActivityType int    `json:"activity_type"`
	Maker        string `json:"maker"`
	Taker        string `json:"taker"`
	Collection   string `json:"collection"`
	TokenId      string `json:"token_id"`
	Currency     string `json:"currency"`
	Price        string `json:"price"`
	OrderID      string `json:"order_id"`
	EventTime    int64  `json:"event_time"`
}

// ItemActivitiesResp Item 活动流水响应
type ItemActivitiesResp struct {
	Activities []ActivityInfo `json:"activities"`
}

// ClaimItemsReq 领取滞留 NFT 请求
type ClaimItemsReq struct {
	Caller string `json:"caller" binding:"required,eth_addr"`
}

// ClaimItemsResp 领取滞留 NFT 响应
type ClaimItemsResp struct {
	Claimed int `json:"claimed"` // 成功送达的数量
}

// WithdrawReq 管理员提取协议费请求
type WithdrawReq struct {
	Caller    string `json:"caller" binding:"required,eth_addr"`
	Currency  string `json:"currency"`                              // 空或零地址为原生币
	Recipient string `json:"recipient" binding:"required,eth_addr"` // 接收地址
	Amount    string `json:"amount" binding:"required"`             // 十进制金额 (wei)
}
