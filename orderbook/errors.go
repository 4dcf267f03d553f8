package orderbook

import "github.com/pkg/errors"

// 引擎错误分为两类:
// 硬错误 —— 调用方自身请求非法 (金额不足、资产不匹配、下溢等)，整个调用失败
// 软跳过 —— 批量中的某个订单未通过守卫检查，发出 LogSkipOrder 事件后继续处理其余订单
var (
	ErrReentrantCall     = errors.New("orderbook: reentrant call rejected")
	ErrPaused            = errors.New("orderbook: paused")
	ErrNotAdmin          = errors.New("orderbook: caller is not admin")
	ErrNotOrderMaker     = errors.New("orderbook: caller is not order maker")
	ErrZeroPrice         = errors.New("orderbook: zero price")
	ErrZeroSalt          = errors.New("orderbook: zero salt")
	ErrExpiredOrder      = errors.New("orderbook: order expired")
	ErrInvalidAmount     = errors.New("orderbook: invalid nft amount")
	ErrKeyUsed           = errors.New("orderbook: order key already used")
	ErrOrderExists       = errors.New("orderbook: order already exists")
	ErrOrderNotFound     = errors.New("orderbook: order not found")
	ErrOrderNotOpen      = errors.New("orderbook: order not open")
	ErrBadCurrency       = errors.New("orderbook: unsupported currency")
	ErrBadCollection     = errors.New("orderbook: collection not whitelisted")
	ErrInvalidEdit       = errors.New("orderbook: edit changes immutable fields")
	ErrSideMismatch      = errors.New("orderbook: order sides do not match")
	ErrSaleKindDenied    = errors.New("orderbook: list order must target a specific item")
	ErrSelfMatch         = errors.New("orderbook: sell and buy orders are not distinct")
	ErrAssetMismatch     = errors.New("orderbook: asset identity mismatch")
	ErrCurrencyMismatch  = errors.New("orderbook: settlement currency mismatch")
	ErrPriceMismatch     = errors.New("orderbook: bid price below list price")
	ErrInsufficientValue = errors.New("orderbook: insufficient attached value")
	ErrRoyaltyOverflow   = errors.New("orderbook: fee and royalty exceed fill price")
	ErrItemNotOwned      = errors.New("orderbook: seller does not hold the item")

	ErrVaultUnderflow = errors.New("vault: balance underflow")
	ErrVaultItemOwner = errors.New("vault: item id mismatch")
	ErrVaultNoItem    = errors.New("vault: no item under order key")
)
