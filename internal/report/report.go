// Package report renders operation results for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
	"github.com/altuslabsxyz/musicnft/internal/output"
)

// Printer is the console surface a Reporter writes through.
type Printer interface {
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Bold(format string, args ...interface{})
	Cyan(format string, args ...interface{})
	Println(format string, args ...interface{})
	IsJSONMode() bool
	Writer() io.Writer
}

// Reporter writes results through a Printer. In JSON mode only the record
// itself is written to stdout.
type Reporter struct {
	logger      Printer
	explorerURL string
	currency    string
}

// New creates a Reporter.
func New(logger Printer, explorerURL, currency string) *Reporter {
	return &Reporter{
		logger:      logger,
		explorerURL: explorerURL,
		currency:    currency,
	}
}

// AddressURL returns the explorer page of an address.
func AddressURL(explorerURL, address string) string {
	return strings.TrimRight(explorerURL, "/") + "/address/" + address
}

// TxURL returns the explorer page of a transaction.
func TxURL(explorerURL, txHash string) string {
	return strings.TrimRight(explorerURL, "/") + "/tx/" + txHash
}

// DeployStarted announces a deployment.
func (r *Reporter) DeployStarted(network string) {
	r.logger.Bold("🎵 Deploying MusicNFT contract to %s...", network)
}

// Deployment writes a deployment result.
func (r *Reporter) Deployment(rec *orchestrator.DeploymentRecord) error {
	if r.logger.IsJSONMode() {
		return r.writeJSON(rec)
	}

	summary, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deployment summary: %w", err)
	}

	l := r.logger
	l.Success("MusicNFT deployed to: %s", rec.ContractAddress)
	l.Println("🔗 Transaction hash: %s", rec.TransactionHash)
	l.Println("⛽ Gas used: %s", rec.GasUsed)

	l.Println("")
	l.Bold("📊 Contract Information:")
	l.Println("Name: %s", rec.ContractInfo.Name)
	l.Println("Symbol: %s", rec.ContractInfo.Symbol)
	l.Println("Mint Price: %s %s", rec.ContractInfo.MintPrice, r.currency)
	l.Println("Max Supply: %s", rec.ContractInfo.MaxSupply)
	l.Println("Current Supply: %s", rec.ContractInfo.TotalSupply)

	l.Println("%s", output.Separator())
	l.Bold("📋 Deployment Summary:")
	l.Println("%s", summary)

	l.Println("")
	l.Bold("🌐 Explorer URL:")
	l.Cyan("%s", AddressURL(r.explorerURL, rec.ContractAddress))

	l.Println("")
	l.Bold("📝 Next Steps:")
	l.Println("1. Update CONTRACT_ADDRESS in the web app")
	l.Println("2. Add contract address to your frontend")
	l.Println("3. Test minting your first Music NFT!")

	l.Println("")
	l.Println("🎉 Deployment completed successfully!")
	l.Println("Contract Address: %s", rec.ContractAddress)
	return nil
}

// MintStarted announces a mint.
func (r *Reporter) MintStarted() {
	r.logger.Bold("🎵 Minting example Music NFT...")
}

// Mint writes a mint result. Anomalies are reported as warnings.
func (r *Reporter) Mint(rec *orchestrator.MintRecord) error {
	if r.logger.IsJSONMode() {
		return r.writeJSON(rec)
	}

	l := r.logger
	l.Success("Music NFT minted successfully!")
	l.Println("Block number: %d", rec.BlockNumber)
	l.Println("Gas used: %s", rec.GasUsed)
	l.Println("Paid: %s %s", rec.Price, r.currency)

	if rec.HasTokenID() {
		l.Println("Token ID: %s", rec.TokenID)
		l.Println("Owner: %s", rec.Owner)
		l.Println("Title: %s", rec.Title)
		l.Println("Artist: %s", rec.Artist)
	}
	for _, anomaly := range rec.Anomalies {
		l.Warn("%s", anomaly)
	}

	l.Println("User's tokens: [%s]", strings.Join(rec.UserTokens, ", "))
	l.Cyan("%s", TxURL(r.explorerURL, rec.TransactionHash))

	l.Println("%s", output.CyanSeparator())
	l.Println("🎉 Example NFT minted successfully!")
	return nil
}

// Records writes deployment and mint records as tables.
func (r *Reporter) Records(deployments []*orchestrator.DeploymentRecord, mints []*orchestrator.MintRecord) error {
	if r.logger.IsJSONMode() {
		return r.writeJSON(struct {
			Deployments []*orchestrator.DeploymentRecord `json:"deployments"`
			Mints       []*orchestrator.MintRecord       `json:"mints"`
		}{deployments, mints})
	}

	w := r.logger.Writer()

	r.logger.Bold("Deployments")
	if len(deployments) == 0 {
		r.logger.Println("  (none)")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tNETWORK\tCONTRACT\tBLOCK\tTX")
		for _, d := range deployments {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				d.Timestamp.Format("2006-01-02 15:04:05"), d.Network, d.ContractAddress, d.BlockNumber, d.TransactionHash)
		}
		tw.Flush()
	}

	r.logger.Println("")
	r.logger.Bold("Mints")
	if len(mints) == 0 {
		r.logger.Println("  (none)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCONTRACT\tTOKEN\tPRICE\tTX")
	for _, m := range mints {
		token := m.TokenID
		if token == "" {
			token = "?"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.Timestamp.Format("2006-01-02 15:04:05"), m.ContractAddress, token, m.Price, m.TransactionHash)
	}
	return tw.Flush()
}

func (r *Reporter) writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(r.logger.Writer(), string(data))
	return err
}
