package orderbook

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapEngine/order"
)

// 引擎事件，仅用于观测和索引，不参与撮合正确性
// 事件命名与字段保持和链上合约日志一致，索引服务可以无差别消费

// Event 所有引擎事件的标记接口
type Event interface {
	eventName() string
}

// LogMake 挂单成功
type LogMake struct {
	OrderKey order.Key
	Order    order.Order
}

// LogCancel 订单取消 (编辑订单时旧 Key 也会发出该事件)
type LogCancel struct {
	OrderKey order.Key
	Maker    common.Address
}

// LogMatch 撮合成交
// MakeOrder 为被动成交的一方 (resting)，TakeOrder 为发起撮合的一方
type LogMatch struct {
	MakeOrderKey order.Key
	TakeOrderKey order.Key
	MakeOrder    order.Order
	TakeOrder    order.Order
	FillPrice    *big.Int
}

// LogSkipOrder 批量操作中单个订单被软跳过
type LogSkipOrder struct {
	OrderKey order.Key
	Salt     uint64
	Reason   string
}

// LogBatchMatchInnerError 批量撮合中单对订单结算失败
type LogBatchMatchInnerError struct {
	Offset int
	Msg    string
}

// LogWithdraw 管理员资金归集
type LogWithdraw struct {
	Currency  common.Address
	Recipient common.Address
	Amount    *big.Int
}

func (LogMake) eventName() string                 { return "LogMake" }
func (LogCancel) eventName() string               { return "LogCancel" }
func (LogMatch) eventName() string                { return "LogMatch" }
func (LogSkipOrder) eventName() string            { return "LogSkipOrder" }
func (LogBatchMatchInnerError) eventName() string { return "LogBatchMatchInnerError" }
func (LogWithdraw) eventName() string             { return "LogWithdraw" }

const eventFeedBuffer = 4096

// emit 发送事件到事件通道
// 通道写满时直接丢弃: 事件只服务于索引与观测，不能反压撮合主流程
func (ob *OrderBook) emit(ev Event) {
	select {
	case ob.events <- ev:
	default:
	}
}

// EventFeed 返回引擎事件通道，由索引服务消费
func (ob *OrderBook) EventFeed() <-chan Event {
	return ob.events
}
