package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
)

// ErrNoBytecode is returned by DeployData when the binding has no bytecode.
var ErrNoBytecode = errors.New("contract bytecode not loaded")

// MusicNFT is the ABI binding for the MusicNFT contract.
type MusicNFT struct {
	abi      abi.ABI
	bytecode []byte
	caller   ports.ContractCaller
}

// Ensure MusicNFT implements ports.ContractBinding.
var _ ports.ContractBinding = (*MusicNFT)(nil)

// New creates a binding from a parsed ABI, creation bytecode and a caller
// for read-only calls. bytecode may be nil when deployment is not needed.
func New(parsed abi.ABI, bytecode []byte, caller ports.ContractCaller) *MusicNFT {
	return &MusicNFT{
		abi:      parsed,
		bytecode: bytecode,
		caller:   caller,
	}
}

// NewFromArtifact creates a binding from a compiled artifact.
func NewFromArtifact(a *Artifact, caller ports.ContractCaller) *MusicNFT {
	return New(a.ABI, a.Bytecode, caller)
}

// NewDefault creates a binding using the built-in ABI and no bytecode.
func NewDefault(caller ports.ContractCaller) (*MusicNFT, error) {
	parsed, err := ParseDefaultABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse MusicNFT abi: %w", err)
	}
	return New(parsed, nil, caller), nil
}

// ABI returns the parsed contract ABI.
func (c *MusicNFT) ABI() abi.ABI {
	return c.abi
}

// Bytecode returns the creation bytecode, or nil when none was loaded.
func (c *MusicNFT) Bytecode() []byte {
	return c.bytecode
}

// DeployData returns the bytecode followed by packed constructor arguments.
func (c *MusicNFT) DeployData(args ...interface{}) ([]byte, error) {
	if len(c.bytecode) == 0 {
		return nil, ErrNoBytecode
	}
	packed, err := c.abi.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor arguments: %w", err)
	}
	data := make([]byte, 0, len(c.bytecode)+len(packed))
	data = append(data, c.bytecode...)
	return append(data, packed...), nil
}

// MintData returns calldata for mintMusicNFT.
func (c *MusicNFT) MintData(call ports.MintCall) ([]byte, error) {
	t := call.Track
	data, err := c.abi.Pack(MethodMintMusicNFT,
		call.To,
		t.Title,
		t.Artist,
		t.Genre,
		new(big.Int).SetUint64(t.DurationSeconds),
		t.AudioHash,
		t.CoverHash,
		call.TokenURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", MethodMintMusicNFT, err)
	}
	return data, nil
}

// Info reads the contract's descriptive state.
func (c *MusicNFT) Info(ctx context.Context, contract common.Address) (*ports.ContractInfo, error) {
	name, err := c.callString(ctx, contract, MethodName)
	if err != nil {
		return nil, err
	}
	symbol, err := c.callString(ctx, contract, MethodSymbol)
	if err != nil {
		return nil, err
	}
	price, err := c.callUint(ctx, contract, MethodMintPrice)
	if err != nil {
		return nil, err
	}
	maxSupply, err := c.callUint(ctx, contract, MethodMaxSupply)
	if err != nil {
		return nil, err
	}
	totalSupply, err := c.callUint(ctx, contract, MethodTotalSupply)
	if err != nil {
		return nil, err
	}

	return &ports.ContractInfo{
		Name:        name,
		Symbol:      symbol,
		MintPrice:   price,
		MaxSupply:   maxSupply,
		TotalSupply: totalSupply,
	}, nil
}

// MintPrice reads the current mint price.
func (c *MusicNFT) MintPrice(ctx context.Context, contract common.Address) (*big.Int, error) {
	return c.callUint(ctx, contract, MethodMintPrice)
}

// UserTokens reads the token IDs owned by owner.
func (c *MusicNFT) UserTokens(ctx context.Context, contract, owner common.Address) ([]*big.Int, error) {
	out, err := c.call(ctx, contract, MethodGetUserTokens, owner)
	if err != nil {
		return nil, err
	}
	ids, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected return type %T", MethodGetUserTokens, out[0])
	}
	return ids, nil
}

// FindMinted returns the first MusicNFTMinted event emitted by contract.
// Logs are matched by the event's topic ID, never by position.
func (c *MusicNFT) FindMinted(contract common.Address, logs []*types.Log) (*ports.MintedEvent, bool) {
	event, ok := c.abi.Events[EventMusicNFTMinted]
	if !ok {
		return nil, false
	}

	for _, lg := range logs {
		if lg == nil || len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}
		if contract != (common.Address{}) && lg.Address != contract {
			continue
		}
		minted, err := c.decodeMinted(event, lg)
		if err != nil {
			continue
		}
		return minted, true
	}
	return nil, false
}

func (c *MusicNFT) decodeMinted(event abi.Event, lg *types.Log) (*ports.MintedEvent, error) {
	fields := make(map[string]interface{})

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, lg.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse topics: %w", err)
	}
	if err := c.abi.UnpackIntoMap(fields, EventMusicNFTMinted, lg.Data); err != nil {
		return nil, fmt.Errorf("failed to unpack data: %w", err)
	}

	tokenID, ok := fields["tokenId"].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("event has no tokenId")
	}

	minted := &ports.MintedEvent{
		TokenID:  tokenID,
		LogIndex: lg.Index,
	}
	if owner, ok := fields["owner"].(common.Address); ok {
		minted.Owner = owner
	}
	if title, ok := fields["title"].(string); ok {
		minted.Title = title
	}
	if artist, ok := fields["artist"].(string); ok {
		minted.Artist = artist
	}
	return minted, nil
}

// DecodeRevert decodes Error(string), Panic(uint256) and custom errors
// declared in the ABI.
func (c *MusicNFT) DecodeRevert(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason, true
	}

	for name, customErr := range c.abi.Errors {
		if !bytes.Equal(customErr.ID[:4], data[:4]) {
			continue
		}
		values, err := customErr.Inputs.Unpack(data[4:])
		if err != nil {
			return name, true
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprint(v)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", ")), true
	}
	return "", false
}

func (c *MusicNFT) call(ctx context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	if c.caller == nil {
		return nil, fmt.Errorf("%s: binding has no caller", method)
	}
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	raw, err := c.caller.Call(ctx, ports.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("call %s: empty result (no contract code at %s?)", method, contract.Hex())
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

func (c *MusicNFT) callString(ctx context.Context, contract common.Address, method string) (string, error) {
	out, err := c.call(ctx, contract, method)
	if err != nil {
		return "", err
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected return type %T", method, out[0])
	}
	return s, nil
}

func (c *MusicNFT) callUint(ctx context.Context, contract common.Address, method string) (*big.Int, error) {
	out, err := c.call(ctx, contract, method)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected return type %T", method, out[0])
	}
	return v, nil
}
