package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract as emitted by hardhat
// (artifacts/contracts/<Name>.sol/<Name>.json).
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// LoadArtifact reads and parses a hardhat artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return ParseArtifact(data)
}

// ParseArtifact parses hardhat artifact JSON.
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact has no abi")
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact abi: %w", err)
	}

	if strings.Contains(raw.Bytecode, "__$") {
		return nil, fmt.Errorf("artifact bytecode has unlinked libraries")
	}

	var code []byte
	if raw.Bytecode != "" && raw.Bytecode != "0x" {
		code, err = hexutil.Decode(raw.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("failed to decode artifact bytecode: %w", err)
		}
	}

	return &Artifact{
		ContractName: raw.ContractName,
		ABI:          parsed,
		Bytecode:     code,
	}, nil
}
