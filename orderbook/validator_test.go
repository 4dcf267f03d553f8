package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapEngine/order"
)

func newTestValidator(now int64) (*Validator, *MemoryStore) {
	store := NewMemoryStore()
	return NewValidator(store, func() int64 { return now }), store
}

func TestIsFresh(t *testing.T) {
	v, store := newTestValidator(1000)

	o := bidOrder(testBuyer, 7, 100, 1)
	assert.True(t, v.IsFresh(o))

	expired := o
	expired.Expiry = 999
	assert.False(t, v.IsFresh(expired))

	zeroSalt := o
	zeroSalt.Salt = 0
	assert.False(t, v.IsFresh(zeroSalt))

	// 有过成交记录的 Key 不再新鲜
	store.AddFilled(order.Hash(o), 1)
	assert.False(t, v.IsFresh(o))
}

func TestIsOpen(t *testing.T) {
	v, store := newTestValidator(1000)

	o := bidOrder(testBuyer, 7, 100, 1)
	o.Nft.Amount = 3
	key := order.Hash(o)

	assert.True(t, v.IsOpen(key, 3))
	store.AddFilled(key, 2)
	assert.True(t, v.IsOpen(key, 3))
	store.AddFilled(key, 1)
	assert.False(t, v.IsOpen(key, 3))
}

func TestValidateForMatch(t *testing.T) {
	v, store := newTestValidator(1000)

	// 落簿订单: 只要求仍然 open
	resting := bidOrder(testBuyer, 7, 100, 1)
	restingKey := order.Hash(resting)
	store.Add(restingKey, Record{Order: resting})
	require.NoError(t, v.ValidateForMatch(resting))

	store.AddFilled(restingKey, 1)
	require.ErrorIs(t, v.ValidateForMatch(resting), ErrOrderNotOpen)

	// ad hoc 订单: 走完整的新鲜度检查
	adhoc := bidOrder(testBuyer, 8, 100, 2)
	require.NoError(t, v.ValidateForMatch(adhoc))

	expired := adhoc
	expired.Expiry = 999
	require.ErrorIs(t, v.ValidateForMatch(expired), ErrExpiredOrder)

	// 墓碑 Key 不能借撮合通道复活
	tombed := bidOrder(testBuyer, 9, 100, 3)
	store.AddFilled(order.Hash(tombed), 1)
	require.ErrorIs(t, v.ValidateForMatch(tombed), ErrKeyUsed)
}
