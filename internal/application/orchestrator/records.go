package orchestrator

import (
	"time"

	"github.com/altuslabsxyz/musicnft/internal/application/ports"
	"github.com/altuslabsxyz/musicnft/internal/units"
)

// ContractInfo is the read-back state of a deployed contract.
type ContractInfo struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	MintPrice   string `json:"mintPrice"`
	MaxSupply   string `json:"maxSupply"`
	TotalSupply string `json:"totalSupply"`
}

// DeploymentRecord is the outcome of a confirmed and verified deployment.
type DeploymentRecord struct {
	ID              string       `json:"id"`
	Network         string       `json:"network"`
	ContractAddress string       `json:"contractAddress"`
	DeployerAddress string       `json:"deployerAddress"`
	TransactionHash string       `json:"transactionHash"`
	BlockNumber     uint64       `json:"blockNumber"`
	GasUsed         string       `json:"gasUsed"`
	Timestamp       time.Time    `json:"timestamp"`
	ContractInfo    ContractInfo `json:"contractInfo"`
	Phase           Phase        `json:"phase"`
}

// MintRecord is the outcome of a confirmed mint.
type MintRecord struct {
	ID              string    `json:"id"`
	Network         string    `json:"network"`
	ContractAddress string    `json:"contractAddress"`
	Minter          string    `json:"minter"`
	Recipient       string    `json:"recipient"`
	TransactionHash string    `json:"transactionHash"`
	BlockNumber     uint64    `json:"blockNumber"`
	GasUsed         string    `json:"gasUsed"`
	Price           string    `json:"price"`
	TokenID         string    `json:"tokenId,omitempty"`
	Owner           string    `json:"owner,omitempty"`
	Title           string    `json:"title,omitempty"`
	Artist          string    `json:"artist,omitempty"`
	UserTokens      []string  `json:"userTokens"`
	Anomalies       []string  `json:"anomalies,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Phase           Phase     `json:"phase"`
}

// HasTokenID reports whether the minted token ID was recovered from the receipt.
func (r *MintRecord) HasTokenID() bool {
	return r.TokenID != ""
}

func contractInfoFrom(info *ports.ContractInfo) ContractInfo {
	return ContractInfo{
		Name:        info.Name,
		Symbol:      info.Symbol,
		MintPrice:   units.FormatEther(info.MintPrice),
		MaxSupply:   bigString(info.MaxSupply),
		TotalSupply: bigString(info.TotalSupply),
	}
}
