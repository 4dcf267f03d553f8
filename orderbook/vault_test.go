package orderbook

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapEngine/assets"
	"github.com/ProjectsTask/EasySwapEngine/order"
)

func newTestVault() (*Vault, *assets.Ledger) {
	ledger := assets.NewLedger()
	return NewVault(testVault, ledger, ledger), ledger
}

func keyOf(salt uint64) order.Key {
	return order.Hash(bidOrder(testBuyer, 7, 100, salt))
}

func TestVaultNativeAccounting(t *testing.T) {
	v, ledger := newTestVault()
	ledger.MintNative(testVault, big.NewInt(100))

	key := keyOf(1)
	require.NoError(t, v.DepositETH(key, big.NewInt(100), big.NewInt(100)))
	assert.Equal(t, big.NewInt(100), v.BalanceOf(key))

	// 送达金额不足承诺金额
	require.ErrorIs(t, v.DepositETH(keyOf(2), big.NewInt(99), big.NewInt(100)), ErrInsufficientValue)

	require.NoError(t, v.WithdrawETH(key, big.NewInt(60), testSeller))
	assert.Equal(t, big.NewInt(40), v.BalanceOf(key))
	assert.Equal(t, big.NewInt(60), ledger.NativeBalance(testSeller))

	// 超出账目余额
	require.ErrorIs(t, v.WithdrawETH(key, big.NewInt(41), testSeller), ErrVaultUnderflow)
	assert.Equal(t, big.NewInt(40), v.BalanceOf(key))
}

func TestVaultWithdrawRecreditsOnTransferFailure(t *testing.T) {
	v, _ := newTestVault()

	// 账目有余额但托管账户实际没钱, 划转失败后账目必须回补
	key := keyOf(1)
	require.NoError(t, v.DepositETH(key, big.NewInt(100), big.NewInt(100)))
	err := v.WithdrawETH(key, big.NewInt(100), testSeller)
	require.Error(t, err)
	assert.Equal(t, big.NewInt(100), v.BalanceOf(key))
}

func TestVaultTokenAccounting(t *testing.T) {
	v, ledger := newTestVault()
	ledger.MintToken(testERC20, testBuyer, big.NewInt(500))

	key := keyOf(1)
	require.NoError(t, v.DepositToken(key, testERC20, testBuyer, big.NewInt(200)))
	assert.Equal(t, big.NewInt(200), v.TokenBalanceOf(key))
	assert.Equal(t, big.NewInt(300), ledger.TokenBalance(testERC20, testBuyer))

	require.NoError(t, v.WithdrawToken(key, testERC20, big.NewInt(200), testBuyer))
	assert.Equal(t, big.NewInt(0), v.TokenBalanceOf(key))
	assert.Equal(t, big.NewInt(500), ledger.TokenBalance(testERC20, testBuyer))
}

func TestVaultEditETH(t *testing.T) {
	v, ledger := newTestVault()
	ledger.MintNative(testVault, big.NewInt(150))

	oldKey, newKey := keyOf(1), keyOf(2)
	require.NoError(t, v.DepositETH(oldKey, big.NewInt(150), big.NewInt(150)))

	// 减少承诺: 差额退还挂单人
	require.NoError(t, v.EditETH(oldKey, newKey, big.NewInt(150), big.NewInt(80), testBuyer))
	assert.Equal(t, big.NewInt(0), v.BalanceOf(oldKey))
	assert.Equal(t, big.NewInt(80), v.BalanceOf(newKey))
	assert.Equal(t, big.NewInt(70), ledger.NativeBalance(testBuyer))
}

func TestVaultEditToken(t *testing.T) {
	v, ledger := newTestVault()
	ledger.MintToken(testERC20, testBuyer, big.NewInt(500))

	oldKey, newKey := keyOf(1), keyOf(2)
	require.NoError(t, v.DepositToken(oldKey, testERC20, testBuyer, big.NewInt(100)))

	// 增加承诺: 差额直接从挂单人拉取
	require.NoError(t, v.EditToken(oldKey, newKey, testERC20, big.NewInt(100), big.NewInt(180), testBuyer))
	assert.Equal(t, big.NewInt(180), v.TokenBalanceOf(newKey))
	assert.Equal(t, big.NewInt(320), ledger.TokenBalance(testERC20, testBuyer))

	// 再减少: 差额退回
	thirdKey := keyOf(3)
	require.NoError(t, v.EditToken(newKey, thirdKey, testERC20, big.NewInt(180), big.NewInt(60), testBuyer))
	assert.Equal(t, big.NewInt(60), v.TokenBalanceOf(thirdKey))
	assert.Equal(t, big.NewInt(440), ledger.TokenBalance(testERC20, testBuyer))
}

func TestVaultItemKeyBinding(t *testing.T) {
	v, ledger := newTestVault()
	ledger.MintItem(testCol, testSeller, big.NewInt(7))

	key := keyOf(1)
	asset := order.Asset{TokenId: big.NewInt(7), Collection: testCol, Amount: 1}
	require.NoError(t, v.DepositItem(key, testSeller, asset))
	assert.Equal(t, big.NewInt(7), v.ItemOf(key))

	// 记录中的 tokenId 与请求不一致时拒绝放币
	require.ErrorIs(t, v.WithdrawItem(key, testBuyer, testCol, big.NewInt(8)), ErrVaultItemOwner)
	require.ErrorIs(t, v.WithdrawItem(keyOf(2), testBuyer, testCol, big.NewInt(7)), ErrVaultNoItem)

	require.NoError(t, v.WithdrawItem(key, testBuyer, testCol, big.NewInt(7)))
	assert.Nil(t, v.ItemOf(key))
	assert.Equal(t, testBuyer, ledger.ItemOwner(testCol, big.NewInt(7)))
}

func TestVaultClaimRetry(t *testing.T) {
	v, ledger := newTestVault()

	// 直接交割失败 (卖家并不持有), 转入待认领并记录重试来源
	ledger.MintItem(testCol, testArtist, big.NewInt(7))
	asset := order.Asset{TokenId: big.NewInt(7), Collection: testCol, Amount: 1}
	require.NoError(t, v.TransferItem(testSeller, testBuyer, asset))
	require.Len(t, v.Claimables(testBuyer), 1)

	// 卖家仍未持有, 重试失败, 资产留在待认领列表
	assert.Equal(t, 0, v.Claim(testBuyer))
	require.Len(t, v.Claimables(testBuyer), 1)

	// 持有权回到卖家后重试成功: 划转从记录的来源持有人发起,
	// 而不是从从未持有过这枚 NFT 的托管账户发起
	ledger.MintItem(testCol, testSeller, big.NewInt(7))
	assert.Equal(t, 1, v.Claim(testBuyer))
	assert.Empty(t, v.Claimables(testBuyer))
	assert.Equal(t, testBuyer, ledger.ItemOwner(testCol, big.NewInt(7)))
}

func TestVaultEscrowedClaimRetriesFromSelf(t *testing.T) {
	v, ledger := newTestVault()
	ledger.MintItem(testCol, testSeller, big.NewInt(7))

	key := keyOf(1)
	asset := order.Asset{TokenId: big.NewInt(7), Collection: testCol, Amount: 1}
	require.NoError(t, v.DepositItem(key, testSeller, asset))

	// 托管后持有权被外部改掉, 放币划转失败转入待认领
	ledger.MintItem(testCol, testArtist, big.NewInt(7))
	require.NoError(t, v.WithdrawItem(key, testBuyer, testCol, big.NewInt(7)))
	require.Len(t, v.Claimables(testBuyer), 1)

	// 托管中的 NFT 重试来源是托管账户自身
	ledger.MintItem(testCol, testVault, big.NewInt(7))
	assert.Equal(t, 1, v.Claim(testBuyer))
	assert.Equal(t, testBuyer, ledger.ItemOwner(testCol, big.NewInt(7)))
}

func TestVaultPayDueFunds(t *testing.T) {
	v, ledger := newTestVault()

	// 托管账户余额不足, 原生币推送失败转入待认领账目
	v.PayETH(testSeller, big.NewInt(60))
	assert.Equal(t, big.NewInt(60), v.DueETH(testSeller))
	assert.Equal(t, big.NewInt(0), ledger.NativeBalance(testSeller))

	// 资金到位后认领补发
	ledger.MintNative(testVault, big.NewInt(60))
	assert.Equal(t, 1, v.Claim(testSeller))
	assert.Equal(t, big.NewInt(0), v.DueETH(testSeller))
	assert.Equal(t, big.NewInt(60), ledger.NativeBalance(testSeller))

	// 代币侧同样记账重试
	v.PayToken(testERC20, testArtist, big.NewInt(5))
	assert.Equal(t, big.NewInt(5), v.DueToken(testERC20, testArtist))
	ledger.MintToken(testERC20, testVault, big.NewInt(5))
	assert.Equal(t, 1, v.Claim(testArtist))
	assert.Equal(t, big.NewInt(5), ledger.TokenBalance(testERC20, testArtist))
	assert.Equal(t, big.NewInt(0), v.DueToken(testERC20, testArtist))
}
