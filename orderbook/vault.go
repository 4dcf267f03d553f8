package orderbook

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapEngine/order"
)

// Vault 托管账本
// 以订单 Key 为维度记录原生币余额、代币余额和 NFT 持有
// 只允许 OrderBook 调用；所有扣账都发生在对外划转之前，
// 这是防御重入式双重提取的核心约束
type Vault struct {
	mu    sync.RWMutex
	self  common.Address // 托管账户地址, 外部资产实际挂在该地址名下
	funds FundBridge
	items ItemBridge

	eth    map[order.Key]*big.Int
	tokens map[order.Key]*big.Int
	nfts   map[order.Key]*big.Int // key -> tokenId, 缺失表示未托管

	// 交割失败的 NFT 暂存为可认领状态，由接收方事后重试
	claimables map[common.Address][]claimable

	// 推送失败滞留在托管账户的资金，按接收方记账，同样走认领重试
	ethDue   map[common.Address]*big.Int
	tokenDue map[common.Address]map[common.Address]*big.Int // token -> to -> amount
}

// claimable 一笔待认领的 NFT 及重试划转的来源持有人
// 托管中的 NFT 来源是托管账户自身, 直接交割的来源是卖家
type claimable struct {
	asset order.Asset
	from  common.Address
}

func NewVault(self common.Address, funds FundBridge, items ItemBridge) *Vault {
	return &Vault{
		self:       self,
		funds:      funds,
		items:      items,
		eth:        make(map[order.Key]*big.Int),
		tokens:     make(map[order.Key]*big.Int),
		nfts:       make(map[order.Key]*big.Int),
		claimables: make(map[common.Address][]claimable),
		ethDue:     make(map[common.Address]*big.Int),
		tokenDue:   make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Self 托管账户地址
func (v *Vault) Self() common.Address {
	return v.self
}

// BalanceOf 订单 Key 名下的原生币余额
func (v *Vault) BalanceOf(key order.Key) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if b, ok := v.eth[key]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// TokenBalanceOf 订单 Key 名下的代币余额
func (v *Vault) TokenBalanceOf(key order.Key) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if b, ok := v.tokens[key]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// ItemOf 订单 Key 名下托管的 tokenId，未托管返回 nil
func (v *Vault) ItemOf(key order.Key) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if id, ok := v.nfts[key]; ok {
		return new(big.Int).Set(id)
	}
	return nil
}

// DepositETH 原生币入账
// attached 为调用实际送达的金额，必须覆盖 amount；按实际送达金额记账
func (v *Vault) DepositETH(key order.Key, attached, amount *big.Int) error {
	if attached.Cmp(amount) < 0 {
		return ErrInsufficientValue
	}
	v.credit(v.eth, key, attached)
	return nil
}

// WithdrawETH 原生币出账: 先扣账再划转
func (v *Vault) WithdrawETH(key order.Key, amount *big.Int, to common.Address) error {
	if err := v.debit(v.eth, key, amount); err != nil {
		return err
	}
	if err := v.funds.NativeTransferFrom(v.self, to, amount); err != nil {
		v.credit(v.eth, key, amount) // 划转未发生, 回补账目
		return errors.Wrap(err, "failed on withdraw native funds")
	}
	return nil
}

// DepositToken 代币入账，从 from 拉取
func (v *Vault) DepositToken(key order.Key, token, from common.Address, amount *big.Int) error {
	if err := v.funds.TokenTransferFrom(token, from, v.self, amount); err != nil {
		return errors.Wrap(err, "failed on pull token funds")
	}
	v.credit(v.tokens, key, amount)
	return nil
}

// WithdrawToken 代币出账: 先扣账再划转
func (v *Vault) WithdrawToken(key order.Key, token common.Address, amount *big.Int, to common.Address) error {
	if err := v.debit(v.tokens, key, amount); err != nil {
		return err
	}
	if err := v.funds.TokenTransferFrom(token, v.self, to, amount); err != nil {
		v.credit(v.tokens, key, amount)
		return errors.Wrap(err, "failed on push token funds")
	}
	return nil
}

// DepositItem 拉取 NFT 托管，记录 key -> tokenId
func (v *Vault) DepositItem(key order.Key, from common.Address, asset order.Asset) error {
	if err := v.items.ItemTransferFrom(asset.Collection, from, v.self, asset.TokenId); err != nil {
		return errors.Wrap(err, "failed on pull item")
	}
	v.mu.Lock()
	v.nfts[key] = new(big.Int).Set(asset.TokenId)
	v.mu.Unlock()
	return nil
}

// WithdrawItem 释放托管 NFT 给 to
// 要求记录中的 tokenId 与入参一致，防止 Key 混淆后错误放币
// 对外交割失败时转入可认领暂存而不是让整笔结算失败
func (v *Vault) WithdrawItem(key order.Key, to common.Address, collection common.Address, tokenId *big.Int) error {
	v.mu.Lock()
	stored, ok := v.nfts[key]
	if !ok {
		v.mu.Unlock()
		return ErrVaultNoItem
	}
	if stored.Cmp(tokenId) != 0 {
		v.mu.Unlock()
		return ErrVaultItemOwner
	}
	delete(v.nfts, key)
	v.mu.Unlock()

	asset := order.Asset{TokenId: new(big.Int).Set(tokenId), Collection: collection, Amount: 1}
	if err := v.items.ItemTransferFrom(collection, v.self, to, tokenId); err != nil {
		v.addClaimable(to, claimable{asset: asset, from: v.self})
	}
	return nil
}

// SettleETH 结算扣账: 把订单 Key 的原生币承诺一次性出簿
// 资金仍留在托管账户名下, 由后续分发逐笔推送
func (v *Vault) SettleETH(key order.Key, amount *big.Int) error {
	return v.debit(v.eth, key, amount)
}

// SettleToken 结算扣账 (代币)
func (v *Vault) SettleToken(key order.Key, amount *big.Int) error {
	return v.debit(v.tokens, key, amount)
}

// PayETH 从托管账户向 to 推送原生币
// 推送失败不中断结算, 金额转入待认领账目由接收方事后 Claim
func (v *Vault) PayETH(to common.Address, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	if err := v.funds.NativeTransferFrom(v.self, to, amount); err != nil {
		v.addDueETH(to, amount)
	}
}

// PayToken 从托管账户向 to 推送代币
func (v *Vault) PayToken(token, to common.Address, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	if err := v.funds.TokenTransferFrom(token, v.self, to, amount); err != nil {
		v.addDueToken(token, to, amount)
	}
}

// DueETH to 名下待认领的原生币金额
func (v *Vault) DueETH(to common.Address) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if b, ok := v.ethDue[to]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// DueToken to 名下待认领的代币金额
func (v *Vault) DueToken(token, to common.Address) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if m, ok := v.tokenDue[token]; ok {
		if b, ok := m[to]; ok {
			return new(big.Int).Set(b)
		}
	}
	return new(big.Int)
}

// EditETH 编辑订单时的原生币重记账
// 旧 Key 剩余承诺转移到新 Key；金额减少的差额退还 refundTo，
// 金额增加的差额由调用方 (OrderBook) 保证已经送达托管账户
func (v *Vault) EditETH(oldKey, newKey order.Key, oldAmount, newAmount *big.Int, refundTo common.Address) error {
	if err := v.debit(v.eth, oldKey, oldAmount); err != nil {
		return err
	}
	v.credit(v.eth, newKey, newAmount)
	if oldAmount.Cmp(newAmount) > 0 {
		refund := new(big.Int).Sub(oldAmount, newAmount)
		if err := v.funds.NativeTransferFrom(v.self, refundTo, refund); err != nil {
			return errors.Wrap(err, "failed on refund native delta")
		}
	}
	return nil
}

// EditToken 编辑订单时的代币重记账
// 差额直接与 maker 结算: 增加则先从 maker 拉取，减少则把差额退还 maker
func (v *Vault) EditToken(oldKey, newKey order.Key, token common.Address, oldAmount, newAmount *big.Int, maker common.Address) error {
	if newAmount.Cmp(oldAmount) > 0 {
		delta := new(big.Int).Sub(newAmount, oldAmount)
		if err := v.funds.TokenTransferFrom(token, maker, v.self, delta); err != nil {
			return errors.Wrap(err, "failed on pull token delta")
		}
	}
	if err := v.debit(v.tokens, oldKey, oldAmount); err != nil {
		return err
	}
	v.credit(v.tokens, newKey, newAmount)
	if oldAmount.Cmp(newAmount) > 0 {
		delta := new(big.Int).Sub(oldAmount, newAmount)
		if err := v.funds.TokenTransferFrom(token, v.self, maker, delta); err != nil {
			return errors.Wrap(err, "failed on refund token delta")
		}
	}
	return nil
}

// EditItem 编辑订单时 NFT 从旧 Key 改挂到新 Key，托管人不变
func (v *Vault) EditItem(oldKey, newKey order.Key) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	id, ok := v.nfts[oldKey]
	if !ok {
		return ErrVaultNoItem
	}
	delete(v.nfts, oldKey)
	v.nfts[newKey] = id
	return nil
}

// TransferItem 无托管记账的直接交割
// 用于卖单未落簿 (ad hoc) 时 NFT 从卖家直达买家
// 交割失败同样进入可认领暂存, 前提是资金侧已经结清
func (v *Vault) TransferItem(from, to common.Address, asset order.Asset) error {
	if err := v.items.ItemTransferFrom(asset.Collection, from, to, asset.TokenId); err != nil {
		// 重试必须从当前持有人发起, 托管账户从未持有过这枚 NFT
		v.addClaimable(to, claimable{asset: asset, from: from})
	}
	return nil
}

// Claimables 某地址待认领的 NFT 列表
func (v *Vault) Claimables(to common.Address) []order.Asset {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]order.Asset, 0, len(v.claimables[to]))
	for _, c := range v.claimables[to] {
		out = append(out, c.asset)
	}
	return out
}

// Claim 重试交割 to 名下全部待认领 NFT 与滞留资金，返回成功送达的笔数
func (v *Vault) Claim(to common.Address) int {
	v.mu.Lock()
	pending := v.claimables[to]
	delete(v.claimables, to)
	ethDue := v.ethDue[to]
	delete(v.ethDue, to)
	var tokenDues map[common.Address]*big.Int
	for token, m := range v.tokenDue {
		if b, ok := m[to]; ok {
			if tokenDues == nil {
				tokenDues = make(map[common.Address]*big.Int)
			}
			tokenDues[token] = b
			delete(m, to)
		}
	}
	v.mu.Unlock()

	delivered := 0
	for _, c := range pending {
		if err := v.items.ItemTransferFrom(c.asset.Collection, c.from, to, c.asset.TokenId); err != nil {
			v.addClaimable(to, c)
			continue
		}
		delivered++
	}
	if ethDue != nil && ethDue.Sign() > 0 {
		if err := v.funds.NativeTransferFrom(v.self, to, ethDue); err != nil {
			v.addDueETH(to, ethDue)
		} else {
			delivered++
		}
	}
	for token, amount := range tokenDues {
		if err := v.funds.TokenTransferFrom(token, v.self, to, amount); err != nil {
			v.addDueToken(token, to, amount)
		} else {
			delivered++
		}
	}
	return delivered
}

func (v *Vault) addClaimable(to common.Address, c claimable) {
	v.mu.Lock()
	v.claimables[to] = append(v.claimables[to], c)
	v.mu.Unlock()
}

func (v *Vault) addDueETH(to common.Address, amount *big.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.ethDue[to]
	if !ok {
		b = new(big.Int)
		v.ethDue[to] = b
	}
	b.Add(b, amount)
}

func (v *Vault) addDueToken(token, to common.Address, amount *big.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	m, ok := v.tokenDue[token]
	if !ok {
		m = make(map[common.Address]*big.Int)
		v.tokenDue[token] = m
	}
	b, ok := m[to]
	if !ok {
		b = new(big.Int)
		m[to] = b
	}
	b.Add(b, amount)
}

func (v *Vault) credit(ledger map[order.Key]*big.Int, key order.Key, amount *big.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := ledger[key]
	if !ok {
		b = new(big.Int)
		ledger[key] = b
	}
	b.Add(b, amount)
}

func (v *Vault) debit(ledger map[order.Key]*big.Int, key order.Key, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := ledger[key]
	if !ok || b.Cmp(amount) < 0 {
		return ErrVaultUnderflow
	}
	b.Sub(b, amount)
	return nil
}
