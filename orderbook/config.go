package orderbook

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// ProtocolShareDenominator 协议费分母 (万分比)
	ProtocolShareDenominator = 10000
)

// AdminConfig 管理面配置
// 协议费率、支持币种、集合白名单、暂停开关和托管账户地址
// 全部变更仅限管理员地址，引擎在撮合路径上只做只读查询
type AdminConfig struct {
	mu            sync.RWMutex
	admin         common.Address
	vaultAddr     common.Address
	protocolShare int64 // 万分比
	paused        bool
	currencies    map[common.Address]bool
	collections   map[common.Address]bool
}

func NewAdminConfig(admin, vaultAddr common.Address, protocolShare int64) *AdminConfig {
	if protocolShare < 0 || protocolShare > ProtocolShareDenominator {
		protocolShare = 0
	}
	return &AdminConfig{
		admin:         admin,
		vaultAddr:     vaultAddr,
		protocolShare: protocolShare,
		currencies:    make(map[common.Address]bool),
		collections:   make(map[common.Address]bool),
	}
}

// Admin 管理员地址
func (c *AdminConfig) Admin() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.admin
}

// VaultAddress 托管账户地址
func (c *AdminConfig) VaultAddress() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vaultAddr
}

// ProtocolShare 当前协议费率 (万分比)
func (c *AdminConfig) ProtocolShare() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.protocolShare
}

// SetProtocolShare 更新协议费率
func (c *AdminConfig) SetProtocolShare(caller common.Address, share int64) error {
	if share < 0 || share > ProtocolShareDenominator {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.admin {
		return ErrNotAdmin
	}
	c.protocolShare = share
	return nil
}

// Paused 引擎是否处于暂停状态
func (c *AdminConfig) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

// SetPaused 暂停/恢复引擎
func (c *AdminConfig) SetPaused(caller common.Address, paused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.admin {
		return ErrNotAdmin
	}
	c.paused = paused
	return nil
}

// AddCurrency 登记支持的结算代币，原生币无需登记
func (c *AdminConfig) AddCurrency(caller, token common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.admin {
		return ErrNotAdmin
	}
	c.currencies[token] = true
	return nil
}

// RemoveCurrency 移除结算代币
func (c *AdminConfig) RemoveCurrency(caller, token common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.admin {
		return ErrNotAdmin
	}
	delete(c.currencies, token)
	return nil
}

// CurrencySupported 币种是否可用于结算
func (c *AdminConfig) CurrencySupported(token common.Address) bool {
	if token == (common.Address{}) {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currencies[token]
}

// AddCollection 把集合加入白名单
// 白名单为空时视为对所有集合开放
func (c *AdminConfig) AddCollection(caller, collection common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.admin {
		return ErrNotAdmin
	}
	c.collections[collection] = true
	return nil
}

// RemoveCollection 把集合移出白名单
func (c *AdminConfig) RemoveCollection(caller, collection common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.admin {
		return ErrNotAdmin
	}
	delete(c.collections, collection)
	return nil
}

// CollectionAllowed 集合是否允许交易
func (c *AdminConfig) CollectionAllowed(collection common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.collections) == 0 {
		return true
	}
	return c.collections[collection]
}
