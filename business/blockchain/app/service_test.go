package app

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/fd1az/flashloan-scanner/business/blockchain/domain"
)

type fakeSubscriber struct {
	block *domain.Block
	err   error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context) (<-chan *domain.Block, error) {
	ch := make(chan *domain.Block)
	close(ch)
	return ch, nil
}

func (f *fakeSubscriber) LatestBlock(ctx context.Context) (*domain.Block, error) {
	return f.block, f.err
}

func (f *fakeSubscriber) State() domain.ConnectionState {
	return domain.StateConnected
}

type fakeGasOracle struct {
	price *domain.GasPrice
	err   error
}

func (f *fakeGasOracle) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	return f.price, f.err
}

func (f *fakeGasOracle) EstimateGas(ctx context.Context, data []byte, to string) (uint64, error) {
	return 450_000, nil
}

func TestNetworkHealth_HealthyChain(t *testing.T) {
	sub := &fakeSubscriber{block: &domain.Block{
		Number:    100,
		Timestamp: time.Now().Add(-2 * time.Second),
	}}
	oracle := &fakeGasOracle{price: domain.NewGasPrice(big.NewInt(30_000_000_000))}

	svc := NewBlockchainService(sub, oracle)
	health := svc.NetworkHealth(context.Background())

	if health.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", health.Score)
	}
	if health.LastBlock != 100 {
		t.Errorf("last block = %d, want 100", health.LastBlock)
	}
}

func TestNetworkHealth_ProbeFailuresDegrade(t *testing.T) {
	sub := &fakeSubscriber{err: errors.New("node unreachable")}
	oracle := &fakeGasOracle{err: errors.New("node unreachable")}

	svc := NewBlockchainService(sub, oracle)
	health := svc.NetworkHealth(context.Background())

	if health.Healthy() {
		t.Errorf("unreachable node should not read healthy, score = %v", health.Score)
	}
}
