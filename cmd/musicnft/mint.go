package main

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
	"github.com/altuslabsxyz/musicnft/internal/config"
	"github.com/altuslabsxyz/musicnft/internal/nft"
	"github.com/altuslabsxyz/musicnft/internal/output"
	"github.com/altuslabsxyz/musicnft/internal/store"
)

var (
	mintInteractive bool
	mintRecipient   string
)

func NewMintExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint-example",
		Short: "Mint the example Music NFT",
		Long: `Mint the example track against a deployed MusicNFT contract.

The contract is taken from --contract, CONTRACT_ADDRESS or config.toml, and
falls back to the most recent deployment recorded for the network. The mint
price is read from the contract right before submission.

Examples:
  # Mint against the last deployment
  musicnft mint-example

  # Mint against a specific contract, editing the track first
  musicnft mint-example --contract 0x239F... --interactive`,
		Args: cobra.NoArgs,
		RunE: runMintExample,
	}

	cmd.Flags().StringVar(&flagContract, "contract", "",
		"MusicNFT contract address")
	cmd.Flags().StringVar(&mintRecipient, "recipient", "",
		"Token recipient (defaults to the signing account)")
	cmd.Flags().BoolVarP(&mintInteractive, "interactive", "i", false,
		"Edit the track details before minting")
	cmd.Flags().StringVar(&flagArtifact, "artifact", config.DefaultArtifact,
		"Path to the compiled contract artifact")
	cmd.Flags().StringVar(&flagGasPriceGwei, "gas-price-gwei", config.DefaultGasPriceGwei,
		"Gas price in gwei")
	cmd.Flags().DurationVar(&flagConfirmTimeout, "confirm-timeout", config.DefaultConfirmTimeout,
		"How long to wait for the receipt")

	return cmd
}

func runMintExample(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveCfg

	var recipient common.Address
	if mintRecipient != "" {
		if !common.IsHexAddress(mintRecipient) {
			return handleCommandError(cmd, errors.New("invalid recipient address: "+mintRecipient))
		}
		recipient = common.HexToAddress(mintRecipient)
	}

	track := nft.ExampleTrack()
	if mintInteractive {
		edited, ok, err := promptTrack(track)
		if err != nil {
			return wrapInteractiveError(cmd, err, "track input")
		}
		if !ok {
			output.Info("Mint cancelled.")
			return nil
		}
		track = edited
	}

	gasPrice, err := cfg.GasPriceWei()
	if err != nil {
		return handleCommandError(cmd, err)
	}

	a, err := openApp(ctx, cfg, false)
	if err != nil {
		return handleCommandError(cmd, err)
	}
	defer a.Close()

	contractAddr, ok := cfg.Contract()
	if !ok {
		latest, err := a.records.LatestDeployment(ctx, cfg.Network.Value)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return handleCommandError(cmd, orchestrator.ErrNoContractAddress)
		case err != nil:
			return handleCommandError(cmd, err)
		}
		contractAddr = common.HexToAddress(latest.ContractAddress)
		a.logger.Info("Using last deployment: %s", latest.ContractAddress)
	}

	a.reporter.MintStarted()

	rec, err := a.orch.Mint(ctx, orchestrator.MintRequest{
		Contract:  contractAddr,
		Recipient: recipient,
		Track:     track,
		Gas:       orchestrator.GasConfig{GasPrice: gasPrice},
	})
	if err != nil {
		return handleCommandError(cmd, err)
	}

	if err := a.records.PutMint(ctx, rec); err != nil {
		a.logger.Warn("Failed to save mint record: %v", err)
	}

	return a.reporter.Mint(rec)
}

// promptTrack lets the user edit track fields. ok is false when the user
// declines the final confirmation.
func promptTrack(t nft.Track) (nft.Track, bool, error) {
	if !output.IsInteractive() {
		return t, false, withHint(output.ErrNotInteractive, "Run without --interactive to mint the example track")
	}

	var err error
	if t.Title, err = output.StringPromptDefault("Title", t.Title); err != nil {
		return t, false, err
	}
	if t.Artist, err = output.StringPromptDefault("Artist", t.Artist); err != nil {
		return t, false, err
	}
	if t.Genre, err = output.StringPromptDefault("Genre", t.Genre); err != nil {
		return t, false, err
	}
	if t.DurationSeconds, err = output.UintPromptDefault("Duration (seconds)", t.DurationSeconds); err != nil {
		return t, false, err
	}
	if t.AudioHash, err = output.StringPromptDefault("Audio IPFS hash", t.AudioHash); err != nil {
		return t, false, err
	}
	if t.CoverHash, err = output.StringPromptDefault("Cover IPFS hash", t.CoverHash); err != nil {
		return t, false, err
	}

	ok, err := output.ConfirmPrompt("Mint this track")
	if err != nil {
		return t, false, err
	}
	return t, ok, nil
}
