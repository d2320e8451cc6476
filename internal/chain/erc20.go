package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const erc20ABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"anonymous": false, "inputs": [{"indexed": true, "name": "from", "type": "address"}, {"indexed": true, "name": "to", "type": "address"}, {"indexed": false, "name": "value", "type": "uint256"}], "name": "Transfer", "type": "event"}
]`

// TransferTopic is topic0 of the ERC20 Transfer event.
var TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

var (
	erc20ABI     abi.ABI
	erc20ABIOnce sync.Once
	erc20ABIErr  error
)

// ERC20ABI returns the parsed decimals/balanceOf/Transfer ABI.
func ERC20ABI() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABI, erc20ABIErr = abi.JSON(strings.NewReader(erc20ABIJSON))
	})
	return erc20ABI, erc20ABIErr
}

// ContractCaller is the subset of Client used for eth_call.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// BalanceOf reads token.balanceOf(owner) at blockNumber, or latest when nil.
func BalanceOf(ctx context.Context, caller ContractCaller, token common.Address, owner common.Address, blockNumber *big.Int) (*big.Int, error) {
	if caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	erc20, err := ERC20ABI()
	if err != nil {
		return nil, err
	}

	data, err := erc20.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := caller.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}

	values, err := erc20.Unpack("balanceOf", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("balanceOf returned no values")
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf type %T", values[0])
	}
	return balance, nil
}

// Decimals reads token.decimals() at the latest block.
func Decimals(ctx context.Context, caller ContractCaller, token common.Address) (uint8, error) {
	if caller == nil {
		return 0, fmt.Errorf("chain client is nil")
	}
	erc20, err := ERC20ABI()
	if err != nil {
		return 0, err
	}

	data, err := erc20.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("pack decimals: %w", err)
	}
	resp, err := caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call decimals: %w", err)
	}

	values, err := erc20.Unpack("decimals", resp)
	if err != nil {
		return 0, fmt.Errorf("unpack decimals: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("decimals returned no values")
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", values[0])
	}
	return decimals, nil
}

// TransferParties returns the from and to addresses of a Transfer log.
func TransferParties(log types.Log) (common.Address, common.Address, error) {
	if len(log.Topics) != 3 || log.Topics[0] != TransferTopic {
		return common.Address{}, common.Address{}, fmt.Errorf("not an indexed Transfer log")
	}
	return common.BytesToAddress(log.Topics[1].Bytes()), common.BytesToAddress(log.Topics[2].Bytes()), nil
}
