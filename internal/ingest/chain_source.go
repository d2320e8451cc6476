package ingest

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"holderRaffle/internal/chain"
	"holderRaffle/internal/model"
)

// ChainReader is the chain access needed to discover holders from logs.
type ChainReader interface {
	chain.ContractCaller
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, address common.Address, topic0 common.Hash) ([]types.Log, error)
}

// ChainSourceConfig controls log-based holder discovery.
type ChainSourceConfig struct {
	// FromBlock should be at or before token deployment, or early holders are missed.
	FromBlock uint64
	// SnapshotBlock is "latest" or a block number; balances are read at this block.
	SnapshotBlock string
	BatchSize     uint64
}

// ChainSource discovers holders from Transfer logs and reads balanceOf at the
// snapshot block. Page n scans the n-th block range.
type ChainSource struct {
	cfg   ChainSourceConfig
	chain ChainReader

	mu       sync.Mutex
	snapshot uint64
	ranges   []BlockRange
	seen     map[string]map[common.Address]struct{}
}

func NewChainSource(cfg ChainSourceConfig, reader ChainReader) (*ChainSource, error) {
	if reader == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if cfg.BatchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if cfg.SnapshotBlock == "" {
		cfg.SnapshotBlock = "latest"
	}
	return &ChainSource{
		cfg:   cfg,
		chain: reader,
		seen:  make(map[string]map[common.Address]struct{}),
	}, nil
}

func (s *ChainSource) Name() string {
	return "chain"
}

// SnapshotBlock resolves and returns the block balances are read at.
func (s *ChainSource) SnapshotBlock(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.resolve(ctx); err != nil {
		return 0, err
	}
	return s.snapshot, nil
}

func (s *ChainSource) FetchPage(ctx context.Context, token model.Token, page int) (model.HolderPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolve(ctx); err != nil {
		return model.HolderPage{}, err
	}
	if page < 0 || page >= len(s.ranges) {
		return model.HolderPage{}, nil
	}
	if !common.IsHexAddress(token.Address) {
		return model.HolderPage{}, fmt.Errorf("invalid token address: %s", token.Address)
	}
	tokenAddr := common.HexToAddress(token.Address)
	blockRange := s.ranges[page]

	logs, err := s.chain.FilterLogs(ctx, blockRange.From, blockRange.To, tokenAddr, chain.TransferTopic)
	if err != nil {
		return model.HolderPage{}, fmt.Errorf("filter logs %d-%d: %w", blockRange.From, blockRange.To, err)
	}

	seen := s.seen[token.Symbol]
	if seen == nil {
		seen = make(map[common.Address]struct{})
		s.seen[token.Symbol] = seen
	}

	// only mark addresses seen once the whole page succeeds, so a retry re-reads them
	fresh := make(map[common.Address]struct{})
	var balances []model.TokenBalance
	snapshot := new(big.Int).SetUint64(s.snapshot)
	for _, log := range logs {
		if log.Removed {
			continue
		}
		_, to, err := chain.TransferParties(log)
		if err != nil {
			continue
		}
		if to == (common.Address{}) {
			continue
		}
		if _, ok := seen[to]; ok {
			continue
		}
		if _, ok := fresh[to]; ok {
			continue
		}
		fresh[to] = struct{}{}

		balance, err := chain.BalanceOf(ctx, s.chain, tokenAddr, to, snapshot)
		if err != nil {
			return model.HolderPage{}, fmt.Errorf("balance of %s: %w", to.Hex(), err)
		}
		balances = append(balances, model.TokenBalance{Address: to.Hex(), Balance: balance.String()})
	}
	for address := range fresh {
		seen[address] = struct{}{}
	}

	return model.HolderPage{
		Balances: balances,
		HasMore:  page < len(s.ranges)-1,
	}, nil
}

func (s *ChainSource) resolve(ctx context.Context) error {
	if s.ranges != nil {
		return nil
	}

	var snapshot uint64
	if s.cfg.SnapshotBlock == "latest" {
		latest, err := s.chain.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		snapshot = latest
	} else {
		parsed, err := strconv.ParseUint(s.cfg.SnapshotBlock, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid snapshot block: %s", s.cfg.SnapshotBlock)
		}
		snapshot = parsed
	}

	ranges, err := SplitRange(s.cfg.FromBlock, snapshot, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	s.snapshot = snapshot
	s.ranges = ranges
	return nil
}
