package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 活动类型
const (
	Listing             = 1 // 挂单
	Sale                = 2 // 成交
	CancelListing       = 3 // 取消挂单
	ItemBid             = 4 // Item 出价
	CollectionBid       = 5 // 集合出价
	CancelItemBid       = 6 // 取消 Item 出价
	CancelCollectionBid = 7 // 取消集合出价
	SkipOrder           = 8 // 订单被软跳过
	MatchInnerError     = 9 // 批量撮合内部失败
)

// Activity 活动流水表模型，面向前端历史记录展示
type Activity struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ActivityType      int             `gorm:"column:activity_type"`
	Maker             string          `gorm:"column:maker"`
	Taker             string          `gorm:"column:taker"`
	MarketplaceID     int             `gorm:"column:marketplace_id"`
	CollectionAddress string          `gorm:"column:collection_address"`
	TokenId           string          `gorm:"column:token_id"`
	CurrencyAddress   string          `gorm:"column:currency_address"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(65,0)"`
	OrderID           string          `gorm:"column:order_id"`
	Remark            string          `gorm:"column:remark"` // 跳过原因 / 内部错误信息
	EventTime         int64           `gorm:"column:event_time"`
}

// ActivityTableName 按链名拆表
func ActivityTableName(chain string) string {
	return fmt.Sprintf("ob_activity_%s", chain)
}
