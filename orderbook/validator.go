package orderbook

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapEngine/order"
)

// Validator 订单校验器，全部为无状态谓词
// 谓词失败时由调用方决定硬失败 (回滚) 还是软跳过 (发事件后继续)
type Validator struct {
	store Store
	now   func() int64
}

func NewValidator(store Store, now func() int64) *Validator {
	return &Validator{store: store, now: now}
}

// IsMakerAuthentic 调用方是否为订单挂单人
func (v *Validator) IsMakerAuthentic(o order.Order, caller common.Address) bool {
	return o.Maker == caller
}

// IsFresh 订单是否可以作为新订单创建:
// 价格与盐值非零、未过期、且该 Key 从未发生过成交
func (v *Validator) IsFresh(o order.Order) bool {
	if o.Price == nil || o.Price.Sign() <= 0 || o.Salt == 0 {
		return false
	}
	if o.IsExpired(v.now()) {
		return false
	}
	return v.store.Filled(order.Hash(o)) == 0
}

// IsOpen 该 Key 是否仍有剩余可成交数量，取消/撮合前必须满足
func (v *Validator) IsOpen(key order.Key, amount int64) bool {
	return v.store.Filled(key) < amount
}

// ValidateForMatch 撮合前的单边校验
// 订单不在存储中时 (taker 临时构造的 ad hoc 订单) 仍要满足 IsFresh 式检查，
// 保证被编辑/取消后的旧 Key 无法借撮合通道复活；在存储中时只要求仍然 open
func (v *Validator) ValidateForMatch(o order.Order) error {
	key := order.Hash(o)
	if _, ok := v.store.Get(key); ok {
		if !v.IsOpen(key, o.Nft.Amount) {
			return ErrOrderNotOpen
		}
		return nil
	}
	if o.Price == nil || o.Price.Sign() <= 0 {
		return ErrZeroPrice
	}
	if o.Salt == 0 {
		return ErrZeroSalt
	}
	if o.IsExpired(v.now()) {
		return ErrExpiredOrder
	}
	if v.store.Filled(key) != 0 {
		return ErrKeyUsed
	}
	return nil
}
