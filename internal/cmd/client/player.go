package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewPlayerCommand constructs the `player` command group.
func NewPlayerCommand() *cobra.Command {
	playerCmd := &cobra.Command{Use: "player", Short: "Player ledger and snapshot operations"}
	playerCmd.AddCommand(
		newTransactionCommand("earn", "Record coins earned by a player"),
		newTransactionCommand("spend", "Record coins spent by a player"),
		newPlayerBalanceCommand(),
		newPlayerHistoryCommand(),
		newPlayerSnapshotCommand(),
		newPlayerBestCommand(),
	)
	return playerCmd
}

func newTransactionCommand(kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <player-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: must be an integer", args[1])
			}
			t := getTransport()
			send := t.Earn
			if kind == "spend" {
				send = t.Spend
			}
			out, err := send(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newPlayerBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <player-id>",
		Short: "Show a player's coin balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := getTransport().Balance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newPlayerHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <player-id>",
		Short: "List a player's transactions in stored order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := getTransport().History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newPlayerSnapshotCommand() *cobra.Command {
	snapCmd := &cobra.Command{
		Use:   "snapshot <player-id>",
		Short: "Record a player state snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _ := cmd.Flags().GetString("data")
			fields := map[string]any{}
			if err := json.Unmarshal([]byte(data), &fields); err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
			fields["player_id"] = args[0]
			out, err := getTransport().RecordSnapshot(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	snapCmd.Flags().String("data", "{}", `Snapshot fields as a JSON object, e.g. '{"coins":55}'`)
	return snapCmd
}

func newPlayerBestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "best <player-id>",
		Short: "Show a player's best score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := getTransport().BestScore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
