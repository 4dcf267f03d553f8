// Package assets 提供引擎依赖的外部托管协作方的进程内实现:
// 原生币/代币/NFT 账本与版税注册表
package assets

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrInsufficientFunds = errors.New("assets: insufficient funds")
	ErrNotItemOwner      = errors.New("assets: transfer from non-owner")
	ErrItemUnknown       = errors.New("assets: unknown item")
)

// Ledger 进程内资产账本
// 实现引擎的 FundBridge / ItemBridge 划转原语；
// 划转是被动操作，绝不回调引擎
type Ledger struct {
	mu     sync.RWMutex
	native map[common.Address]*big.Int
	tokens map[common.Address]map[common.Address]*big.Int // token -> holder -> balance
	items  map[common.Address]map[string]common.Address   // collection -> tokenId -> owner
}

func NewLedger() *Ledger {
	return &Ledger{
		native: make(map[common.Address]*big.Int),
		tokens: make(map[common.Address]map[common.Address]*big.Int),
		items:  make(map[common.Address]map[string]common.Address),
	}
}

// MintNative 铸造原生币
func (l *Ledger) MintNative(to common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.creditNative(to, amount)
}

// MintToken 铸造代币
func (l *Ledger) MintToken(token, to common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.creditToken(token, to, amount)
}

// MintItem 铸造 NFT 并登记持有人
func (l *Ledger) MintItem(collection, to common.Address, tokenId *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owners, ok := l.items[collection]
	if !ok {
		owners = make(map[string]common.Address)
		l.items[collection] = owners
	}
	owners[tokenId.String()] = to
}

// NativeBalance 原生币余额
func (l *Ledger) NativeBalance(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.native[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// TokenBalance 代币余额
func (l *Ledger) TokenBalance(token, addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if holders, ok := l.tokens[token]; ok {
		if b, ok := holders[addr]; ok {
			return new(big.Int).Set(b)
		}
	}
	return new(big.Int)
}

// ItemOwner NFT 当前持有人，不存在返回零地址
func (l *Ledger) ItemOwner(collection common.Address, tokenId *big.Int) common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if owners, ok := l.items[collection]; ok {
		return owners[tokenId.String()]
	}
	return common.Address{}
}

// NativeTransferFrom 原生币划转，余额不足时整体失败
func (l *Ledger) NativeTransferFrom(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInsufficientFunds
	}
	if from == to || amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.native[from]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.Sub(b, amount)
	l.creditNative(to, amount)
	return nil
}

// TokenTransferFrom 代币划转，余额不足时整体失败
func (l *Ledger) TokenTransferFrom(token, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInsufficientFunds
	}
	if from == to || amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	holders, ok := l.tokens[token]
	if !ok {
		return ErrInsufficientFunds
	}
	b, ok := holders[from]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.Sub(b, amount)
	l.creditToken(token, to, amount)
	return nil
}

// ItemTransferFrom NFT 划转，from 非持有人时失败
func (l *Ledger) ItemTransferFrom(collection, from, to common.Address, tokenId *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	owners, ok := l.items[collection]
	if !ok {
		return ErrItemUnknown
	}
	owner, ok := owners[tokenId.String()]
	if !ok {
		return ErrItemUnknown
	}
	if owner != from {
		return ErrNotItemOwner
	}
	owners[tokenId.String()] = to
	return nil
}

func (l *Ledger) creditNative(to common.Address, amount *big.Int) {
	b, ok := l.native[to]
	if !ok {
		b = new(big.Int)
		l.native[to] = b
	}
	b.Add(b, amount)
}

func (l *Ledger) creditToken(token, to common.Address, amount *big.Int) {
	holders, ok := l.tokens[token]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		l.tokens[token] = holders
	}
	b, ok := holders[to]
	if !ok {
		b = new(big.Int)
		holders[to] = b
	}
	b.Add(b, amount)
}
