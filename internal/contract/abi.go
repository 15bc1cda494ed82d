// Package contract provides the MusicNFT contract binding.
package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Method and event names of the MusicNFT contract.
const (
	MethodName          = "name"
	MethodSymbol        = "symbol"
	MethodMintPrice     = "mintPrice"
	MethodMaxSupply     = "maxSupply"
	MethodTotalSupply   = "totalSupply"
	MethodGetUserTokens = "getUserTokens"
	MethodMintMusicNFT  = "mintMusicNFT"

	EventMusicNFTMinted = "MusicNFTMinted"
)

// MusicNFTABI is the subset of the MusicNFT ABI this tool relies on. A
// compiled artifact may supply the full ABI instead.
const MusicNFTABI = `[
  {"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"name","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
  {"type":"function","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
  {"type":"function","name":"mintPrice","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"maxSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getUserTokens","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}],"stateMutability":"view"},
  {"type":"function","name":"mintMusicNFT","inputs":[
    {"name":"to","type":"address"},
    {"name":"title","type":"string"},
    {"name":"artist","type":"string"},
    {"name":"genre","type":"string"},
    {"name":"duration","type":"uint256"},
    {"name":"audioHash","type":"string"},
    {"name":"coverHash","type":"string"},
    {"name":"tokenURI","type":"string"}
  ],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"payable"},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"tokenId","type":"uint256","indexed":true}
  ]},
  {"type":"event","name":"MusicNFTMinted","anonymous":false,"inputs":[
    {"name":"tokenId","type":"uint256","indexed":true},
    {"name":"owner","type":"address","indexed":true},
    {"name":"title","type":"string","indexed":false},
    {"name":"artist","type":"string","indexed":false},
    {"name":"genre","type":"string","indexed":false}
  ]},
  {"type":"error","name":"InsufficientPayment","inputs":[
    {"name":"sent","type":"uint256"},
    {"name":"required","type":"uint256"}
  ]},
  {"type":"error","name":"MaxSupplyReached","inputs":[]}
]`

// ParseDefaultABI parses MusicNFTABI.
func ParseDefaultABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(MusicNFTABI))
}
