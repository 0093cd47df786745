// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"
	"time"

	"github.com/fd1az/flashloan-scanner/business/blockchain/domain"
)

// Fallback readings used when a probe fails. They sit just past the worst
// penalty thresholds so an unreachable node reads as degraded, not healthy.
const (
	veryStaleFallback = 60 * time.Second
	congestedFallback = 150.0
)

// BlockchainService coordinates blockchain interactions.
type BlockchainService struct {
	subscriber BlockSubscriber
	gasOracle  GasOracle
}

// NewBlockchainService creates a new BlockchainService.
func NewBlockchainService(subscriber BlockSubscriber, gasOracle GasOracle) *BlockchainService {
	return &BlockchainService{
		subscriber: subscriber,
		gasOracle:  gasOracle,
	}
}

// SubscribeBlocks starts the block subscription and returns the channel.
func (s *BlockchainService) SubscribeBlocks(ctx context.Context) (<-chan *domain.Block, error) {
	return s.subscriber.Subscribe(ctx)
}

// GetGasPrice retrieves the current gas price.
func (s *BlockchainService) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	return s.gasOracle.GetGasPrice(ctx)
}

// LatestBlock retrieves the most recent block.
func (s *BlockchainService) LatestBlock(ctx context.Context) (*domain.Block, error) {
	return s.subscriber.LatestBlock(ctx)
}

// EstimateGas estimates the gas needed for a transaction.
func (s *BlockchainService) EstimateGas(ctx context.Context, data []byte, to string) (uint64, error) {
	return s.gasOracle.EstimateGas(ctx, data, to)
}

// ConnectionState returns the current connection state.
func (s *BlockchainService) ConnectionState() domain.ConnectionState {
	return s.subscriber.State()
}

// NetworkHealth samples chain conditions and scores them. Errors from either
// probe degrade the score instead of failing the call so callers always get a
// usable reading.
func (s *BlockchainService) NetworkHealth(ctx context.Context) domain.NetworkHealth {
	health := domain.NetworkHealth{SampledAt: time.Now()}

	blockAge := veryStaleFallback
	if block, err := s.subscriber.LatestBlock(ctx); err == nil {
		blockAge = block.Age()
		health.LastBlock = block.Number
	}
	health.BlockAge = blockAge

	gasGwei := congestedFallback
	if price, err := s.gasOracle.GetGasPrice(ctx); err == nil {
		gasGwei = price.Gwei()
	}
	health.GasGwei = gasGwei

	health.Score = domain.ScoreNetworkHealth(blockAge, gasGwei)
	return health
}
