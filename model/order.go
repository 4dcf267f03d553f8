package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 订单状态
const (
	OrderStatusActive    = 0 // 活跃
	OrderStatusFilled    = 1 // 已成交
	OrderStatusCancelled = 2 // 已取消
	OrderStatusExpired   = 3 // 已过期
)

// 订单类型
const (
	ListingOrder       = 1 // 挂单
	ItemBidOrder       = 2 // 针对单个 Item 的出价
	CollectionBidOrder = 3 // 集合级别出价
)

// MarketOrderBook 本撮合引擎的市场标识
const MarketOrderBook = 1

// Order 订单表模型，是引擎内存状态的查询镜像
// 权威状态在引擎内，表数据由 marketindexer 消费事件维护
type Order struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	MarketplaceId     int             `gorm:"column:marketplace_id"`
	OrderID           string          `gorm:"column:order_id;uniqueIndex"` // 订单 Key (0x 开头十六进制)
	OrderStatus       int             `gorm:"column:order_status"`
	OrderType         int64           `gorm:"column:order_type"`
	CollectionAddress string          `gorm:"column:collection_address"`
	TokenId           string          `gorm:"column:token_id"`
	CurrencyAddress   string          `gorm:"column:currency_address"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(65,0)"`
	Maker             string          `gorm:"column:maker"`
	Taker             string          `gorm:"column:taker"`
	QuantityRemaining int64           `gorm:"column:quantity_remaining"`
	Size              int64           `gorm:"column:size"`
	Salt              int64           `gorm:"column:salt"`
	EventTime         int64           `gorm:"column:event_time"`
	ExpireTime        int64           `gorm:"column:expire_time"`
}

// OrderTableName 按链名拆表
func OrderTableName(chain string) string {
	return fmt.Sprintf("ob_order_%s", chain)
}

// ItemTableName NFT 持有表，按链名拆表
func ItemTableName(chain string) string {
	return fmt.Sprintf("ob_item_%s", chain)
}

// Item NFT 持有表模型
type Item struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement"`
	CollectionAddress string `gorm:"column:collection_address"`
	TokenId           string `gorm:"column:token_id"`
	Owner             string `gorm:"column:owner"`
	UpdateTime        int64  `gorm:"column:update_time"`
}
