package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/matching"
)

var matchCmd = &cobra.Command{
	Use:   "match <cupid-id>",
	Short: "Check compatibility with a single profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("as", "", "requester profile id (default is the current profile)")
}

func match(cmd *cobra.Command, targetID string) {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	as, _ := cmd.Flags().GetString("as")
	requesterID, err := e.requesterID(ctx, as)
	if err != nil {
		e.logger.Fatal("resolving requester", zap.Error(err))
	}

	result, err := e.newService(ctx).FindMatch(ctx, requesterID, targetID)
	if err != nil {
		e.logger.Fatal("checking compatibility",
			zap.Stringer("kind", matching.KindOf(err)),
			zap.Error(err),
		)
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		e.logger.Fatal("encoding result", zap.Error(err))
	}
	fmt.Println(string(pretty))
}
