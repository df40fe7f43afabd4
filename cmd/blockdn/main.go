package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	blockdn "github.com/blockdn/go-blockdn-client"
)

var (
	endpointFlag string
	timeoutFlag  time.Duration
)

func newClient() *blockdn.Client {
	builder := blockdn.NewBuilder().Timeout(timeoutFlag)
	if endpointFlag != "" {
		builder = builder.Endpoint(blockdn.FromCustomDomain(endpointFlag))
	}
	return builder.Build()
}

func parseHeight(arg string) (uint32, error) {
	height, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid height %q", arg)
	}
	return uint32(height), nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "blockdn",
		Short:         "Query a block-dn server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "",
		"base URL of the block-dn server (default https://block-dn.org)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 5*time.Second,
		"request timeout")

	rootCmd.AddCommand(
		statusCmd(),
		indexCmd(),
		headersCmd(),
		filtersCmd(),
		tweaksCmd(),
		blockCmd(),
		feeCmd(),
		syncFiltersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the server's sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newClient().Status(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "fetch status")
			}
			fmt.Printf("chain:              %s\n", status.ChainName)
			fmt.Printf("genesis hash:       %s\n", status.ChainGenesisHash)
			fmt.Printf("best block height:  %d\n", status.BestBlockHeight)
			fmt.Printf("best block hash:    %s\n", status.BestBlockHash)
			fmt.Printf("best filter height: %d\n", status.BestFilterHeight)
			fmt.Printf("best tweak height:  %d\n", status.BestSPTweakHeight)
			fmt.Printf("all files synced:   %t\n", status.AllFilesSynced)
			return nil
		},
	}
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Print the server's index page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := newClient().IndexHTML(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "fetch index page")
			}
			fmt.Println(string(html))
			return nil
		},
	}
}

func headersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers <start-height>",
		Short: "Fetch block headers starting at a height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseHeight(args[0])
			if err != nil {
				return err
			}
			headers, err := newClient().BlockHeaders(cmd.Context(), start)
			if err != nil {
				return errors.Wrap(err, "fetch headers")
			}
			slog.Info("Fetched headers", "start", start, "count", len(headers))
			if len(headers) > 0 {
				first := headers[0].BlockHash()
				last := headers[len(headers)-1].BlockHash()
				fmt.Printf("%d..%d: %s .. %s\n",
					start, start+uint32(len(headers))-1, first, last)
			}
			return nil
		},
	}
}

func filtersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters <start-height>",
		Short: "Fetch compact block filters starting at a height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseHeight(args[0])
			if err != nil {
				return err
			}
			filters, err := newClient().Filters(cmd.Context(), start)
			if err != nil {
				return errors.Wrap(err, "fetch filters")
			}
			var total int
			for _, filter := range filters {
				total += len(filter.Content)
			}
			slog.Info("Fetched filters", "start", start, "count", len(filters), "bytes", total)
			return nil
		},
	}
}

func tweaksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tweaks <start-height>",
		Short: "Fetch silent-payments tweak data starting at a height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseHeight(args[0])
			if err != nil {
				return err
			}
			tweaks, err := newClient().Tweaks(cmd.Context(), start)
			if err != nil {
				return errors.Wrap(err, "fetch tweaks")
			}
			keys := tweaks.ValidKeys()
			slog.Info("Fetched tweak data",
				"start", tweaks.StartHeight, "blocks", tweaks.NumBlocks, "keys", len(keys))
			for _, key := range keys {
				fmt.Printf("%d %d %x\n", key.Height, key.TxIndex, key.Key.SerializeCompressed())
			}
			return nil
		},
	}
}

func blockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block <block-hash>",
		Short: "Fetch a full block by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := chainhash.NewHashFromStr(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid block hash %q", args[0])
			}
			block, err := newClient().Block(cmd.Context(), hash)
			if err != nil {
				return errors.Wrap(err, "fetch block")
			}
			fmt.Printf("block %s\n", block.BlockHash())
			fmt.Printf("  time: %s\n", block.Header.Timestamp.UTC().Format(time.RFC3339))
			fmt.Printf("  txs:  %d\n", len(block.Transactions))
			return nil
		},
	}
}

func feeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fee <conf-target>",
		Short: "Estimate the fee rate for a confirmation target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseHeight(args[0])
			if err != nil {
				return err
			}
			fee, err := newClient().EstimateSmartFee(cmd.Context(), target)
			if err != nil {
				return errors.Wrap(err, "estimate fee")
			}
			fmt.Printf("%.8f BTC/kvB within %d blocks\n", fee.FeeRate, fee.Blocks)
			return nil
		},
	}
}
