package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransferTopic is the topic0 of the ERC-20 Transfer(address,address,uint256)
// event.
var TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// balanceOfSelector is the 4-byte selector of balanceOf(address).
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// AddressTopic left-pads an address to a 32-byte log topic, as indexed
// address parameters appear in topics[1]/topics[2].
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// TopicAddress extracts an address from an indexed log topic.
func TopicAddress(topic common.Hash) common.Address {
	return common.BytesToAddress(topic.Bytes())
}

// TokenBalance reads the raw ERC-20 balance of holder via eth_call.
func TokenBalance(ctx context.Context, c Client, token, holder common.Address) (*big.Int, error) {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(holder.Bytes(), 32)...)

	out, err := c.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data})
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(out), nil
}
