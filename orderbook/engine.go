package orderbook

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapEngine/order"
)

// OrderBook 撮合引擎
// 公开入口: MakeOrders / CancelOrders / EditOrders / MatchOrder / MatchOrders
// 每个订单 Key 的状态机: absent -> open -> {filled, cancelled, replaced}
// 终态只保留 FilledAmount 计数，用于阻止旧 Key 复活
type OrderBook struct {
	mu        sync.Mutex
	guard     *bridgeGuard
	cfg       *AdminConfig
	store     Store
	vault     *Vault
	val       *Validator
	funds     FundBridge
	items     ItemBridge
	royalties RoyaltySource
	events    chan Event
	now       func() int64

	// 协议费池，按币种累计，由管理员归集
	feesNative *big.Int
	feesToken  map[common.Address]*big.Int
}

// matchSession 撮合会话凭证
// 只有两个公开撮合入口能构造它，内部结算函数只接受该凭证，
// 以此取代合约里的全局 "内部撮合中" 标志: 外部调用方拿不到凭证，
// 就永远无法直接触达内部结算入口
type matchSession struct {
	caller common.Address
	pool   *big.Int // 随调用附带、尚未消耗的原生币
}

type Option func(*OrderBook)

// WithClock 注入时钟，测试用
func WithClock(now func() int64) Option {
	return func(ob *OrderBook) { ob.now = now }
}

// WithStore 注入订单存储实现
func WithStore(store Store) Option {
	return func(ob *OrderBook) { ob.store = store }
}

func New(cfg *AdminConfig, funds FundBridge, items ItemBridge, royalties RoyaltySource, opts ...Option) *OrderBook {
	ob := &OrderBook{
		guard:      &bridgeGuard{},
		cfg:        cfg,
		store:      NewMemoryStore(),
		events:     make(chan Event, eventFeedBuffer),
		now:        func() int64 { return time.Now().Unix() },
		feesNative: new(big.Int),
		feesToken:  make(map[common.Address]*big.Int),
	}
	// 所有对协作方的出站调用都经过守卫包装, 执行窗口内的顶层进入按重入拒绝
	ob.funds = &guardedFunds{g: ob.guard, inner: funds}
	ob.items = &guardedItems{g: ob.guard, inner: items}
	if royalties != nil {
		ob.royalties = &guardedRoyalties{g: ob.guard, inner: royalties}
	}
	for _, opt := range opts {
		opt(ob)
	}
	ob.vault = NewVault(cfg.VaultAddress(), ob.funds, ob.items)
	ob.val = NewValidator(ob.store, func() int64 { return ob.now() })
	return ob
}

// Config 管理面配置，变更本身由管理员地址把关
func (ob *OrderBook) Config() *AdminConfig {
	return ob.cfg
}

// enter 顶层入口守卫
// 并发的顶层调用排队串行执行；协作方调用执行期间发起的进入按重入
// 拒绝 —— 这种进入若去排队, 回调重入会在同一 goroutine 上死锁
func (ob *OrderBook) enter() error {
	if ob.guard.busy() {
		return ErrReentrantCall
	}
	ob.mu.Lock()
	return nil
}

func (ob *OrderBook) leave() {
	ob.mu.Unlock()
}

// collectAttached 把随调用附带的原生币划入托管账户
// 返回本次调用的资金池，结束时未消耗部分原路退回
func (ob *OrderBook) collectAttached(caller common.Address, attached *big.Int) (*big.Int, error) {
	pool := new(big.Int)
	if attached == nil || attached.Sign() <= 0 {
		return pool, nil
	}
	if err := ob.funds.NativeTransferFrom(caller, ob.vault.Self(), attached); err != nil {
		return nil, errors.Wrap(err, "failed on collect attached value")
	}
	return pool.Set(attached), nil
}

func (ob *OrderBook) refundRemaining(caller common.Address, pool *big.Int) error {
	if pool.Sign() <= 0 {
		return nil
	}
	if err := ob.funds.NativeTransferFrom(ob.vault.Self(), caller, pool); err != nil {
		return errors.Wrap(err, "failed on refund remaining value")
	}
	return nil
}

// MakeOrders 批量挂单
// 单个订单未通过守卫检查时软跳过并返回哨兵 Key，其余订单继续处理；
// 原生币买单的托管金额跨批次累加，结尾一次性退还多付部分
func (ob *OrderBook) MakeOrders(caller common.Address, orders []order.Order, attached *big.Int) ([]order.Key, error) {
	if err := ob.enter(); err != nil {
		return nil, err
	}
	defer ob.leave()
	if ob.cfg.Paused() {
		return nil, ErrPaused
	}

	pool, err := ob.collectAttached(caller, attached)
	if err != nil {
		return nil, err
	}

	keys := make([]order.Key, len(orders))
	for i, o := range orders {
		key, consumed, err := ob.tryMake(caller, o, pool)
		if err != nil {
			keys[i] = order.KeySentinel
			ob.emit(LogSkipOrder{OrderKey: order.Hash(o), Salt: o.Salt, Reason: err.Error()})
			continue
		}
		pool.Sub(pool, consumed)
		keys[i] = key
		ob.emit(LogMake{OrderKey: key, Order: o})
	}
	return keys, ob.refundRemaining(caller, pool)
}

func (ob *OrderBook) tryMake(caller common.Address, o order.Order, pool *big.Int) (order.Key, *big.Int, error) {
	zero := new(big.Int)
	if !ob.val.IsMakerAuthentic(o, caller) {
		return order.KeySentinel, zero, ErrNotOrderMaker
	}
	if o.Price == nil || o.Price.Sign() <= 0 {
		return order.KeySentinel, zero, ErrZeroPrice
	}
	if o.Salt == 0 {
		return order.KeySentinel, zero, ErrZeroSalt
	}
	if o.IsExpired(ob.now()) {
		return order.KeySentinel, zero, ErrExpiredOrder
	}
	if o.Nft.Amount <= 0 || o.Nft.TokenId == nil {
		return order.KeySentinel, zero, ErrInvalidAmount
	}
	if !ob.cfg.CurrencySupported(o.Currency) {
		return order.KeySentinel, zero, ErrBadCurrency
	}
	if !ob.cfg.CollectionAllowed(o.Nft.Collection) {
		return order.KeySentinel, zero, ErrBadCollection
	}

	key := order.Hash(o)
	if ob.store.Filled(key) != 0 {
		return order.KeySentinel, zero, ErrKeyUsed
	}
	if _, exists := ob.store.Get(key); exists {
		// 字段完全相同的订单共享同一个 Key, 重复挂单在这里被去重
		return order.KeySentinel, zero, ErrOrderExists
	}

	consumed := new(big.Int)
	switch o.Side {
	case order.List:
		if o.Nft.Amount != 1 {
			return order.KeySentinel, zero, ErrInvalidAmount
		}
		if err := ob.vault.DepositItem(key, o.Maker, o.Nft); err != nil {
			return order.KeySentinel, zero, err
		}
	case order.Bid:
		total := o.TotalPrice()
		if o.IsNative() {
			if pool.Cmp(total) < 0 {
				return order.KeySentinel, zero, ErrInsufficientValue
			}
			if err := ob.vault.DepositETH(key, total, total); err != nil {
				return order.KeySentinel, zero, err
			}
			consumed.Set(total)
		} else {
			if err := ob.vault.DepositToken(key, o.Currency, o.Maker, total); err != nil {
				return order.KeySentinel, zero, err
			}
		}
	default:
		return order.KeySentinel, zero, ErrSideMismatch
	}

	ob.store.Add(key, Record{Order: o})
	return key, consumed, nil
}

// CancelOrders 批量取消
// 返回的 successes 与入参一一对应；重复取消软跳过且不会二次放币
func (ob *OrderBook) CancelOrders(caller common.Address, keys []order.Key) ([]bool, error) {
	if err := ob.enter(); err != nil {
		return nil, err
	}
	defer ob.leave()
	if ob.cfg.Paused() {
		return nil, ErrPaused
	}

	successes := make([]bool, len(keys))
	for i, key := range keys {
		if err := ob.tryCancel(caller, key); err != nil {
			ob.emit(LogSkipOrder{OrderKey: key, Reason: err.Error()})
			continue
		}
		successes[i] = true
		ob.emit(LogCancel{OrderKey: key, Maker: caller})
	}
	return successes, nil
}

func (ob *OrderBook) tryCancel(caller common.Address, key order.Key) error {
	rec, ok := ob.store.Get(key)
	if !ok {
		return ErrOrderNotFound
	}
	o := rec.Order
	if o.Maker != caller {
		return ErrNotOrderMaker
	}
	filled := ob.store.Filled(key)
	if !ob.val.IsOpen(key, o.Nft.Amount) {
		return ErrOrderNotOpen
	}

	// 先放托管资产，成功后再删记录；FilledAmount 保留为墓碑
	switch o.Side {
	case order.List:
		if err := ob.vault.WithdrawItem(key, o.Maker, o.Nft.Collection, o.Nft.TokenId); err != nil {
			return err
		}
	case order.Bid:
		remain := o.RemainTotalPrice(filled)
		if o.IsNative() {
			if err := ob.vault.WithdrawETH(key, remain, o.Maker); err != nil {
				return err
			}
		} else {
			if err := ob.vault.WithdrawToken(key, o.Currency, remain, o.Maker); err != nil {
				return err
			}
		}
	}
	ob.store.Delete(key)
	return nil
}

// EditOrders 批量编辑
// 编辑 = 旧 Key 记账迁移 + 新 Key 安装，不走完整的取消/重挂资金循环；
// 买单承诺金额的净增部分从批次资金池扣除，结尾统一退还多付
func (ob *OrderBook) EditOrders(caller common.Address, edits []order.EditDetail, attached *big.Int) ([]order.Key, error) {
	if err := ob.enter(); err != nil {
		return nil, err
	}
	defer ob.leave()
	if ob.cfg.Paused() {
		return nil, ErrPaused
	}

	pool, err := ob.collectAttached(caller, attached)
	if err != nil {
		return nil, err
	}

	keys := make([]order.Key, len(edits))
	for i, ed := range edits {
		newKey, consumed, err := ob.tryEdit(caller, ed, pool)
		if err != nil {
			keys[i] = order.KeySentinel
			ob.emit(LogSkipOrder{OrderKey: order.Hash(ed.NewOrder), Salt: ed.NewOrder.Salt, Reason: err.Error()})
			continue
		}
		pool.Sub(pool, consumed)
		keys[i] = newKey
		ob.emit(LogCancel{OrderKey: ed.OldOrderKey, Maker: caller})
		ob.emit(LogMake{OrderKey: newKey, Order: ed.NewOrder})
	}
	return keys, ob.refundRemaining(caller, pool)
}

func (ob *OrderBook) tryEdit(caller common.Address, ed order.EditDetail, pool *big.Int) (order.Key, *big.Int, error) {
	zero := new(big.Int)
	rec, ok := ob.store.Get(ed.OldOrderKey)
	if !ok {
		return order.KeySentinel, zero, ErrOrderNotFound
	}
	old := rec.Order
	n := ed.NewOrder
	if old.Maker != caller {
		return order.KeySentinel, zero, ErrNotOrderMaker
	}
	// 只允许改价格/数量/过期时间/盐值，资产标识必须原样保留
	if n.Side != old.Side || n.SaleKind != old.SaleKind || n.Maker != old.Maker ||
		n.Currency != old.Currency || !n.SameAsset(old) {
		return order.KeySentinel, zero, ErrInvalidEdit
	}
	filled := ob.store.Filled(ed.OldOrderKey)
	if filled >= old.Nft.Amount {
		return order.KeySentinel, zero, ErrOrderNotOpen
	}
	if n.Price == nil || n.Price.Sign() <= 0 {
		return order.KeySentinel, zero, ErrZeroPrice
	}
	if n.Salt == 0 {
		return order.KeySentinel, zero, ErrZeroSalt
	}
	if n.IsExpired(ob.now()) {
		return order.KeySentinel, zero, ErrExpiredOrder
	}
	if n.Nft.Amount <= 0 || (n.Side == order.List && n.Nft.Amount != 1) {
		return order.KeySentinel, zero, ErrInvalidAmount
	}

	newKey := order.Hash(n)
	if newKey == ed.OldOrderKey {
		return order.KeySentinel, zero, ErrOrderExists
	}
	if ob.store.Filled(newKey) != 0 {
		return order.KeySentinel, zero, ErrKeyUsed
	}
	if _, exists := ob.store.Get(newKey); exists {
		return order.KeySentinel, zero, ErrOrderExists
	}

	consumed := new(big.Int)
	switch n.Side {
	case order.List:
		if err := ob.vault.EditItem(ed.OldOrderKey, newKey); err != nil {
			return order.KeySentinel, zero, err
		}
	case order.Bid:
		oldRemain := old.RemainTotalPrice(filled)
		newRemain := n.TotalPrice() // 新 Key 从未成交, 剩余承诺即全额
		if n.IsNative() {
			if newRemain.Cmp(oldRemain) > 0 {
				delta := new(big.Int).Sub(newRemain, oldRemain)
				if pool.Cmp(delta) < 0 {
					return order.KeySentinel, zero, ErrInsufficientValue
				}
				consumed.Set(delta)
			}
			if err := ob.vault.EditETH(ed.OldOrderKey, newKey, oldRemain, newRemain, old.Maker); err != nil {
				return order.KeySentinel, zero, err
			}
		} else {
			if err := ob.vault.EditToken(ed.OldOrderKey, newKey, n.Currency, oldRemain, newRemain, old.Maker); err != nil {
				return order.KeySentinel, zero, err
			}
		}
	}

	ob.store.Delete(ed.OldOrderKey)
	ob.store.Add(newKey, Record{Order: n})
	return newKey, consumed, nil
}

// MatchOrder 单笔撮合，非批量入口
// 校验或资金入位失败会使整个调用失败，已收取的附带资金原路退回
func (ob *OrderBook) MatchOrder(caller common.Address, sell, buy order.Order, attached *big.Int) error {
	if err := ob.enter(); err != nil {
		return err
	}
	defer ob.leave()
	if ob.cfg.Paused() {
		return ErrPaused
	}

	pool, err := ob.collectAttached(caller, attached)
	if err != nil {
		return err
	}
	sess := &matchSession{caller: caller, pool: pool}
	consumed, err := ob.matchOrder(sess, sell, buy)
	if err != nil {
		// 结算未发生, 全额退回
		if rerr := ob.refundRemaining(caller, pool); rerr != nil {
			return rerr
		}
		return err
	}
	pool.Sub(pool, consumed)
	return ob.refundRemaining(caller, pool)
}

// MatchOrders 批量撮合
// 每一对订单独立结算: 单对失败只记一条 BatchMatchInnerError 事件，
// 不影响其余订单对；净消耗跨批次累计，结尾统一退还多付
func (ob *OrderBook) MatchOrders(caller common.Address, details []order.MatchDetail, attached *big.Int) ([]bool, error) {
	if err := ob.enter(); err != nil {
		return nil, err
	}
	defer ob.leave()
	if ob.cfg.Paused() {
		return nil, ErrPaused
	}

	pool, err := ob.collectAttached(caller, attached)
	if err != nil {
		return nil, err
	}
	sess := &matchSession{caller: caller, pool: pool}

	successes := make([]bool, len(details))
	for i, d := range details {
		consumed, err := ob.matchOrder(sess, d.SellOrder, d.BuyOrder)
		if err != nil {
			ob.emit(LogBatchMatchInnerError{Offset: i, Msg: err.Error()})
			continue
		}
		pool.Sub(pool, consumed)
		successes[i] = true
	}
	return successes, ob.refundRemaining(caller, pool)
}

// matchOrder 内部结算入口，只接受公开撮合入口铸造的会话凭证
// 结算步骤顺序是安全性的关键:
//  1. 全部校验 (无状态变更)
//  2. 资金入位 (托管扣账 / 外部拉取)，这是最后一个可失败的步骤
//  3. 资金分发 (卖家净得、版税、协议费)，推不出去的份额转入待认领
//  4. 成交计数与订单记录提交
//  5. NFT 交割，失败同样转入待认领
// 入位之后不再有任何能让结算半途而废的路径: 一对订单要么完整结算,
// 要么原样不动, 托管余额永远不会停在中间状态
func (ob *OrderBook) matchOrder(sess *matchSession, sell, buy order.Order) (*big.Int, error) {
	sellKey, buyKey := order.Hash(sell), order.Hash(buy)
	if err := ob.validateMatch(sess.caller, sell, buy, sellKey, buyKey); err != nil {
		return nil, err
	}

	_, sellResting := ob.store.Get(sellKey)
	buyRec, buyResting := ob.store.Get(buyKey)

	// 成交价恒为卖单价格；买单价格只是买家愿付的上限，
	// 价差在 ad hoc 买单场景退还买家，从不作为额外费用截留
	fillPrice := new(big.Int).Set(sell.Price)
	consumed := new(big.Int)

	// 资金来源校验
	fromVault := false
	if sess.caller == sell.Maker {
		// 卖方主动吃单: 对手买单必须已落簿、资金已在托管中
		if !buyResting {
			return nil, ErrOrderNotFound
		}
		fromVault = true
	} else {
		fromVault = buyResting
	}
	if fromVault {
		escrow := ob.vault.BalanceOf(buyKey)
		if !buy.IsNative() {
			escrow = ob.vault.TokenBalanceOf(buyKey)
		}
		if escrow.Cmp(fillPrice) < 0 {
			return nil, ErrVaultUnderflow
		}
	} else if buy.IsNative() {
		if sess.pool.Cmp(fillPrice) < 0 {
			return nil, ErrInsufficientValue
		}
	}

	// NFT 可交割性前置检查，避免资金分发后交割必然失败
	if sellResting {
		held := ob.vault.ItemOf(sellKey)
		if held == nil || held.Cmp(sell.Nft.TokenId) != 0 {
			return nil, ErrVaultNoItem
		}
	} else {
		if ob.items.ItemOwner(sell.Nft.Collection, sell.Nft.TokenId) != sell.Maker {
			return nil, ErrItemNotOwned
		}
	}

	// 费用拆分: fillPrice == fee + royalty + proceeds 严格守恒
	fee := new(big.Int).Div(
		new(big.Int).Mul(fillPrice, big.NewInt(ob.cfg.ProtocolShare())),
		big.NewInt(ProtocolShareDenominator),
	)
	royaltyTo, royalty := ob.royaltyInfo(sell.Nft.Collection, sell.Nft.TokenId, fillPrice)
	if new(big.Int).Add(fee, royalty).Cmp(fillPrice) > 0 {
		return nil, ErrRoyaltyOverflow
	}
	proceeds := new(big.Int).Sub(fillPrice, fee)
	proceeds.Sub(proceeds, royalty)

	// 资金入位: 成交价一次性全额就位
	buyer := buy.Maker
	if fromVault {
		if buy.IsNative() {
			if err := ob.vault.SettleETH(buyKey, fillPrice); err != nil {
				return nil, err
			}
		} else {
			if err := ob.vault.SettleToken(buyKey, fillPrice); err != nil {
				return nil, err
			}
		}
	} else if buy.IsNative() {
		// ad hoc 原生币买单: 附带资金已在托管账户, 从调用资金池消耗
		consumed.Set(fillPrice)
	} else {
		// ad hoc 代币买单: 把成交价拉到托管账户
		if err := ob.funds.TokenTransferFrom(buy.Currency, buyer, ob.vault.Self(), fillPrice); err != nil {
			return nil, errors.Wrap(err, "failed on pull taker funds")
		}
	}

	// 资金分发: 卖家净得 / 版税 / 协议费, 全部从托管账户推送
	ob.distribute(buy.Currency, sell.Maker, proceeds, royaltyTo, royalty, fee)

	// 成交计数: 卖单一次性成满，买单每次撮合只消耗 1 个
	ob.store.AddFilled(sellKey, sell.Nft.Amount-ob.store.Filled(sellKey))
	ob.store.AddFilled(buyKey, 1)
	if sellResting {
		ob.store.Delete(sellKey)
	}
	if buyResting && ob.store.Filled(buyKey) >= buyRec.Order.Nft.Amount {
		ob.store.Delete(buyKey)
	}

	// NFT 交割
	if sellResting {
		if err := ob.vault.WithdrawItem(sellKey, buyer, sell.Nft.Collection, sell.Nft.TokenId); err != nil {
			return nil, err
		}
	} else {
		if err := ob.vault.TransferItem(sell.Maker, buyer, sell.Nft); err != nil {
			return nil, err
		}
	}

	// 事件口径: make 为被动方 (resting), take 为发起方
	ev := LogMatch{MakeOrderKey: sellKey, TakeOrderKey: buyKey, MakeOrder: sell, TakeOrder: buy, FillPrice: fillPrice}
	if sess.caller == sell.Maker {
		ev = LogMatch{MakeOrderKey: buyKey, TakeOrderKey: sellKey, MakeOrder: buy, TakeOrder: sell, FillPrice: fillPrice}
	}
	ob.emit(ev)
	return consumed, nil
}

// validateMatch 订单对的静态兼容性检查
func (ob *OrderBook) validateMatch(caller common.Address, sell, buy order.Order, sellKey, buyKey order.Key) error {
	if sell.Side != order.List || buy.Side != order.Bid {
		return ErrSideMismatch
	}
	if sell.SaleKind != order.FixPriceForItem {
		return ErrSaleKindDenied
	}
	if sell.Maker == buy.Maker {
		return ErrSelfMatch
	}
	if sellKey == buyKey {
		return ErrSelfMatch
	}
	if sell.Currency != buy.Currency {
		return ErrCurrencyMismatch
	}
	if sell.Nft.TokenId == nil || sell.Nft.Collection != buy.Nft.Collection {
		return ErrAssetMismatch
	}
	if buy.SaleKind == order.FixPriceForItem &&
		(buy.Nft.TokenId == nil || sell.Nft.TokenId.Cmp(buy.Nft.TokenId) != 0) {
		return ErrAssetMismatch
	}
	if sell.Nft.Amount != 1 {
		return ErrInvalidAmount
	}
	if sell.IsExpired(ob.now()) || buy.IsExpired(ob.now()) {
		return ErrExpiredOrder
	}
	if sell.Price == nil || sell.Price.Sign() <= 0 || buy.Price == nil {
		return ErrZeroPrice
	}
	if buy.Price.Cmp(sell.Price) < 0 {
		return ErrPriceMismatch
	}
	if caller != sell.Maker && caller != buy.Maker {
		return ErrNotOrderMaker
	}
	if !ob.cfg.CurrencySupported(sell.Currency) {
		return ErrBadCurrency
	}
	if !ob.cfg.CollectionAllowed(sell.Nft.Collection) {
		return ErrBadCollection
	}
	if err := ob.val.ValidateForMatch(sell); err != nil {
		return err
	}
	return ob.val.ValidateForMatch(buy)
}

func (ob *OrderBook) royaltyInfo(collection common.Address, tokenId, salePrice *big.Int) (common.Address, *big.Int) {
	if ob.royalties == nil {
		return common.Address{}, new(big.Int)
	}
	recipient, amount := ob.royalties.RoyaltyInfo(collection, tokenId, salePrice)
	if recipient == (common.Address{}) || amount == nil || amount.Sign() <= 0 {
		return common.Address{}, new(big.Int)
	}
	return recipient, amount
}

// distribute 结算资金分发
// 成交价已全额位于托管账户名下; 推送失败的份额记入待认领账目,
// 接收方通过 Claim 重试, 协议费留在托管账户仅做池内记账
func (ob *OrderBook) distribute(currency common.Address, seller common.Address, proceeds *big.Int, royaltyTo common.Address, royalty, fee *big.Int) {
	if currency == order.NativeCurrency {
		ob.vault.PayETH(seller, proceeds)
		ob.vault.PayETH(royaltyTo, royalty)
	} else {
		ob.vault.PayToken(currency, seller, proceeds)
		ob.vault.PayToken(currency, royaltyTo, royalty)
	}
	if fee.Sign() > 0 {
		ob.accrueFee(currency, fee)
	}
}

func (ob *OrderBook) accrueFee(currency common.Address, fee *big.Int) {
	if currency == order.NativeCurrency {
		ob.feesNative.Add(ob.feesNative, fee)
		return
	}
	b, ok := ob.feesToken[currency]
	if !ok {
		b = new(big.Int)
		ob.feesToken[currency] = b
	}
	b.Add(b, fee)
}

// WithdrawETH 管理员归集原生币协议费
func (ob *OrderBook) WithdrawETH(caller, recipient common.Address, amount *big.Int) error {
	if err := ob.enter(); err != nil {
		return err
	}
	defer ob.leave()
	if caller != ob.cfg.Admin() {
		return ErrNotAdmin
	}
	if amount == nil || amount.Sign() <= 0 || ob.feesNative.Cmp(amount) < 0 {
		return ErrVaultUnderflow
	}
	ob.feesNative.Sub(ob.feesNative, amount)
	if err := ob.funds.NativeTransferFrom(ob.vault.Self(), recipient, amount); err != nil {
		ob.feesNative.Add(ob.feesNative, amount)
		return errors.Wrap(err, "failed on withdraw protocol fee")
	}
	ob.emit(LogWithdraw{Currency: order.NativeCurrency, Recipient: recipient, Amount: amount})
	return nil
}

// WithdrawToken 管理员归集代币协议费
func (ob *OrderBook) WithdrawToken(caller, token, recipient common.Address, amount *big.Int) error {
	if err := ob.enter(); err != nil {
		return err
	}
	defer ob.leave()
	if caller != ob.cfg.Admin() {
		return ErrNotAdmin
	}
	pool, ok := ob.feesToken[token]
	if !ok || amount == nil || amount.Sign() <= 0 || pool.Cmp(amount) < 0 {
		return ErrVaultUnderflow
	}
	pool.Sub(pool, amount)
	if err := ob.funds.TokenTransferFrom(token, ob.vault.Self(), recipient, amount); err != nil {
		pool.Add(pool, amount)
		return errors.Wrap(err, "failed on withdraw protocol fee")
	}
	ob.emit(LogWithdraw{Currency: token, Recipient: recipient, Amount: amount})
	return nil
}

// ClaimItems 重试交割调用方名下全部待认领 NFT 与滞留资金
func (ob *OrderBook) ClaimItems(caller common.Address) (int, error) {
	if err := ob.enter(); err != nil {
		return 0, err
	}
	defer ob.leave()
	return ob.vault.Claim(caller), nil
}

// GetOrder 查询订单记录
func (ob *OrderBook) GetOrder(key order.Key) (Record, bool) {
	return ob.store.Get(key)
}

// FilledAmount 查询 Key 累计成交数量
func (ob *OrderBook) FilledAmount(key order.Key) int64 {
	return ob.store.Filled(key)
}

// EscrowBalance 查询 Key 名下托管的原生币余额
func (ob *OrderBook) EscrowBalance(key order.Key) *big.Int {
	return ob.vault.BalanceOf(key)
}

// EscrowTokenBalance 查询 Key 名下托管的代币余额
func (ob *OrderBook) EscrowTokenBalance(key order.Key) *big.Int {
	return ob.vault.TokenBalanceOf(key)
}

// EscrowItem 查询 Key 名下托管的 tokenId, 未托管返回 nil
func (ob *OrderBook) EscrowItem(key order.Key) *big.Int {
	return ob.vault.ItemOf(key)
}

// Claimables 查询某地址待认领的 NFT
func (ob *OrderBook) Claimables(to common.Address) []order.Asset {
	return ob.vault.Claimables(to)
}

// AccruedFees 当前累计未归集的协议费
func (ob *OrderBook) AccruedFees(currency common.Address) *big.Int {
	if currency == order.NativeCurrency {
		return new(big.Int).Set(ob.feesNative)
	}
	if b, ok := ob.feesToken[currency]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}
