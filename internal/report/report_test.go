package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
	"github.com/altuslabsxyz/musicnft/internal/output"
)

func newTestReporter(jsonMode bool) (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	logger := output.NewLoggerWithWriters(&out, &errOut)
	logger.SetNoColor(true)
	logger.SetJSONMode(jsonMode)
	return New(logger, "https://testnet.monadexplorer.com/", "MON"), &out, &errOut
}

func sampleDeployment() *orchestrator.DeploymentRecord {
	return &orchestrator.DeploymentRecord{
		ID:              "d1",
		Network:         "monadTestnet",
		ContractAddress: "0x239F0991209Dc1DeA0FE4Ce765746988838f77BF",
		DeployerAddress: "0x00000000000000000000000000000000000a11ce",
		TransactionHash: "0xabc",
		BlockNumber:     12,
		GasUsed:         "1234567",
		Timestamp:       time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		ContractInfo: orchestrator.ContractInfo{
			Name:        "MusicNFT",
			Symbol:      "MNFT",
			MintPrice:   "0.01",
			MaxSupply:   "10000",
			TotalSupply: "0",
		},
		Phase: orchestrator.PhaseConfirmed,
	}
}

func TestAddressURL(t *testing.T) {
	assert.Equal(t, "https://x.io/address/0x1", AddressURL("https://x.io/", "0x1"))
	assert.Equal(t, "https://x.io/address/0x1", AddressURL("https://x.io", "0x1"))
	assert.Equal(t, "https://x.io/tx/0x2", TxURL("https://x.io//", "0x2"))
}

func TestReporter_DeploymentText(t *testing.T) {
	r, out, _ := newTestReporter(false)

	require.NoError(t, r.Deployment(sampleDeployment()))

	text := out.String()
	assert.Contains(t, text, "MusicNFT deployed to: 0x239F0991209Dc1DeA0FE4Ce765746988838f77BF")
	assert.Contains(t, text, "Mint Price: 0.01 MON")
	assert.Contains(t, text, "Current Supply: 0")
	assert.Contains(t, text, `"maxSupply": "10000"`)
	assert.Contains(t, text, "https://testnet.monadexplorer.com/address/0x239F0991209Dc1DeA0FE4Ce765746988838f77BF")
	assert.Contains(t, text, "3. Test minting your first Music NFT!")
}

func TestReporter_DeploymentJSON(t *testing.T) {
	r, out, _ := newTestReporter(true)

	require.NoError(t, r.Deployment(sampleDeployment()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "0xabc", decoded["transactionHash"])
	info := decoded["contractInfo"].(map[string]interface{})
	assert.Equal(t, "10000", info["maxSupply"])
	assert.NotContains(t, out.String(), "Next Steps")
}

func TestReporter_MintText(t *testing.T) {
	r, out, errOut := newTestReporter(false)

	require.NoError(t, r.Mint(&orchestrator.MintRecord{
		TransactionHash: "0xdef",
		BlockNumber:     14,
		GasUsed:         "200000",
		Price:           "0.01",
		UserTokens:      []string{"1", "2"},
		Anomalies:       []string{"MusicNFTMinted event not found in receipt logs"},
	}))

	assert.Contains(t, out.String(), "User's tokens: [1, 2]")
	assert.NotContains(t, out.String(), "Token ID")
	assert.Contains(t, out.String(), "/tx/0xdef")
	assert.Contains(t, errOut.String(), "MusicNFTMinted event not found")
}

func TestReporter_Records(t *testing.T) {
	r, out, _ := newTestReporter(false)

	require.NoError(t, r.Records([]*orchestrator.DeploymentRecord{sampleDeployment()}, nil))
	assert.Contains(t, out.String(), "CONTRACT")
	assert.Contains(t, out.String(), "0x239F0991209Dc1DeA0FE4Ce765746988838f77BF")
	assert.Contains(t, out.String(), "(none)")
}

func TestReporter_RecordsJSON(t *testing.T) {
	r, out, _ := newTestReporter(true)

	require.NoError(t, r.Records(nil, nil))
	assert.JSONEq(t, `{"deployments":null,"mints":null}`, out.String())
}
