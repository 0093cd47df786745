package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDPolygon  = 137
	ChainIDArbitrum = 42161
	ChainIDOptimism = 10
	ChainIDBase     = 8453
	ChainIDFiat     = 0 // Off-chain / fiat
)

// Well-known token addresses on Polygon PoS.
var (
	// Stablecoins
	AddrUSDCPolygon = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	AddrUSDTPolygon = common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F")
	AddrDAIPolygon  = common.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")

	// Wrapped
	AddrWMATICPolygon = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	AddrWETHPolygon   = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	AddrWBTCPolygon   = common.HexToAddress("0x1bfd67037b42cf73acf2047067bd4f2c47d9bfd6")

	// Other majors
	AddrLINKPolygon = common.HexToAddress("0x53E0bca35eC356BD5ddDFebbD1Fc0fD03FaBad39")
	AddrAAVEPolygon = common.HexToAddress("0xD6DF932A45C0f255f85145f286eA0b292B21C90B")
)

// Well-known AssetIDs.
var (
	IDPolygonMATIC  = NewNativeAssetID(ChainIDPolygon)
	IDPolygonUSDC   = NewTokenAssetID(ChainIDPolygon, AddrUSDCPolygon)
	IDPolygonUSDT   = NewTokenAssetID(ChainIDPolygon, AddrUSDTPolygon)
	IDPolygonDAI    = NewTokenAssetID(ChainIDPolygon, AddrDAIPolygon)
	IDPolygonWMATIC = NewTokenAssetID(ChainIDPolygon, AddrWMATICPolygon)
	IDPolygonWETH   = NewTokenAssetID(ChainIDPolygon, AddrWETHPolygon)
	IDPolygonWBTC   = NewTokenAssetID(ChainIDPolygon, AddrWBTCPolygon)
	IDPolygonLINK   = NewTokenAssetID(ChainIDPolygon, AddrLINKPolygon)
	IDPolygonAAVE   = NewTokenAssetID(ChainIDPolygon, AddrAAVEPolygon)

	IDUSD = NewFiatAssetID("USD")
)

// Well-known Assets (pre-created instances).
var (
	MATIC  = NewAssetWithName(IDPolygonMATIC, "MATIC", "Polygon", 18)
	USDC   = NewStablecoin(IDPolygonUSDC, "USDC", "USD Coin", 6)
	USDT   = NewStablecoin(IDPolygonUSDT, "USDT", "Tether USD", 6)
	DAI    = NewStablecoin(IDPolygonDAI, "DAI", "Dai Stablecoin", 18)
	WMATIC = NewAssetWithName(IDPolygonWMATIC, "WMATIC", "Wrapped MATIC", 18)
	WETH   = NewAssetWithName(IDPolygonWETH, "WETH", "Wrapped Ether", 18)
	WBTC   = NewAssetWithName(IDPolygonWBTC, "WBTC", "Wrapped Bitcoin", 8)
	LINK   = NewAssetWithName(IDPolygonLINK, "LINK", "Chainlink", 18)
	AAVE   = NewAssetWithName(IDPolygonAAVE, "AAVE", "Aave Token", 18)

	USD = NewAssetWithName(IDUSD, "USD", "US Dollar", 2)
)

// DefaultRegistry returns a registry pre-populated with well-known assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(MATIC)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	r.Register(WMATIC)
	r.Register(WETH)
	r.Register(WBTC)
	r.Register(LINK)
	r.Register(AAVE)

	r.Register(USD)

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
// This is a convenience function for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
