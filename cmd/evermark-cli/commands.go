package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/evermarks/evermark-minter/internal/api/shared/dto"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/duplicate"
	"github.com/evermarks/evermark-minter/internal/reconciler"
	"github.com/evermarks/evermark-minter/internal/storage"
)

// writeJSON encodes v as indented JSON to the command's stdout
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var sweep bool

	cmd := &cobra.Command{
		Use:   "reconcile [tx-hash]",
		Short: "Re-read a mint receipt and upsert its record",
		Long: "Re-reads the receipt of a confirmed mint and upserts the record with the token id. " +
			"With --sweep, resolves every record still missing a token id instead.",
		Args: func(cmd *cobra.Command, args []string) error {
			if sweep {
				return cobra.NoArgs(cmd, args)
			}
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			if !domain.IsValidTxHash(args[0]) {
				return fmt.Errorf("invalid transaction hash: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			minter, err := ctx.openMinter(cmd.Context(), false)
			if err != nil {
				return err
			}
			rec := reconciler.NewReconciler(reconciler.Config{}, nil, st, minter, nil, ctx.clock)

			if sweep {
				resolved, err := rec.SweepMissingTokenIDs(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d record(s)\n", resolved)
				return nil
			}

			record, err := rec.ReconcileTx(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, record)
		},
	}

	cmd.Flags().BoolVar(&sweep, "sweep", false, "Resolve all records missing a token id")
	return cmd
}

func newCheckDuplicateCommand(ctx *commandContext) *cobra.Command {
	var req dto.DuplicateCheckRequest

	cmd := &cobra.Command{
		Use:   "check-duplicate [source-url]",
		Short: "Grade how likely a source is already preserved",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.SourceURL = args[0]
			}
			ref, err := req.ToContentReference()
			if err != nil {
				return err
			}

			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			guard := duplicate.NewGuard(st, duplicate.Config{
				LookupTimeout: cfg.Duplicate.LookupTimeout,
				MaxRetries:    cfg.Duplicate.MaxRetries,
			})

			return writeJSON(cmd, dto.MapDuplicateVerdictToDTO(guard.Check(cmd.Context(), ref, req.Title)))
		},
	}

	cmd.Flags().StringVar(&req.ContentType, "type", "URL", "Content type (URL, DOI, ISBN, Cast, Custom)")
	cmd.Flags().StringVar(&req.DOI, "doi", "", "DOI of the content")
	cmd.Flags().StringVar(&req.ISBN, "isbn", "", "ISBN of the content")
	cmd.Flags().StringVar(&req.Title, "title", "", "Title used for the host and title match")
	return cmd
}

func newChainStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chain-status",
		Short: "Show the minting fee, paused flag, balance and supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Balance and affordability need the minting account
			requireSigner := cfg.Ethereum.Signer.PrivateKey != "" || cfg.Ethereum.Signer.ClefURL != ""
			minter, err := ctx.openMinter(cmd.Context(), requireSigner)
			if err != nil {
				return err
			}

			status, err := minter.Status(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.MapChainStatusToDTO(status))
		},
	}
}

type referralBalance struct {
	Address    string `json:"address"`
	PendingWei string `json:"pending_wei"`
}

func newReferralCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referral",
		Short: "Inspect and claim referral payments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pending <address>",
		Short: "Show the unclaimed referral balance of an address",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			if !domain.IsValidEthereumAddress(args[0]) {
				return fmt.Errorf("invalid address: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			minter, err := ctx.openMinter(cmd.Context(), false)
			if err != nil {
				return err
			}
			pending, err := minter.PendingReferralPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, referralBalance{Address: args[0], PendingWei: pending.String()})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim",
		Short: "Withdraw the minting account's referral balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			minter, err := ctx.openMinter(cmd.Context(), true)
			if err != nil {
				return err
			}
			receipt, err := minter.ClaimReferralPayment(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, receipt)
		},
	})

	return cmd
}

func newMoveAssetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move-assets <temporary-id> <token-id>",
		Short: "Move a creation's assets from its temporary id to its token id",
		Long: "Repairs an Evermark whose image could not be relocated after minting. " +
			"Every object under the temporary id except the metadata document is copied, then removed.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return err
			}
			if !storage.IsTemporaryID(args[0]) {
				return fmt.Errorf("not a temporary asset id: %s", args[0])
			}
			if id, ok := new(big.Int).SetString(args[1], 10); !ok || id.Sign() < 0 {
				return fmt.Errorf("invalid token id: %s", args[1])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			assets, err := ctx.openAssetStore()
			if err != nil {
				return err
			}
			if err := assets.MoveAsset(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", storage.AssetPrefix(args[0]), storage.AssetPrefix(args[1]))
			return nil
		},
	}
}

type purgeOutput struct {
	Scanned int      `json:"scanned"`
	Purged  []string `json:"purged"`
	Skipped []string `json:"skipped"`
}

func newGCCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Delete abandoned temporary assets",
		Long:  "Deletes temporary assets older than --older-than that no Evermark record references.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if olderThan <= 0 {
				olderThan = cfg.Storage.TempAssetTTL
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			assets, err := ctx.openAssetStore()
			if err != nil {
				return err
			}

			report, err := assets.PurgeTemporary(cmd.Context(), olderThan, st.IsAssetReferenced)
			if err != nil {
				return err
			}
			return writeJSON(cmd, purgeOutput{Scanned: report.Scanned, Purged: report.Purged, Skipped: report.Skipped})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Minimum age of purged assets (defaults to storage.temp_asset_ttl)")
	return cmd
}
