package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/matching"
	"github.com/spigell/cupid-matcher/internal/profile"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the most compatible profiles",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("as", "", "requester profile id (default is the current profile)")
	searchCmd.Flags().BoolP("include-low", "l", false, "include matches below the compatibility threshold")
	searchCmd.Flags().BoolP("auto-approve", "y", false, "show lower compatibility matches without asking")
}

func search(cmd *cobra.Command) {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	as, _ := cmd.Flags().GetString("as")
	requesterID, err := e.requesterID(ctx, as)
	if err != nil {
		e.logger.Fatal("resolving requester", zap.Error(err))
	}

	includeLow, _ := cmd.Flags().GetBool("include-low")
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	svc := e.newService(ctx)
	matches, err := svc.FindCompatibleMatches(ctx, requesterID, includeLow)
	if errors.Is(err, matching.ErrNoHighConfidenceMatches) {
		if !autoApprove && !confirm(err.Error()) {
			e.logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
		matches, err = svc.FindCompatibleMatches(ctx, requesterID, true)
	}
	if err != nil {
		e.logger.Fatal("searching for matches",
			zap.Stringer("kind", matching.KindOf(err)),
			zap.Error(err),
		)
	}

	e.logger.Info("current list of matches", zap.Int("count", len(matches)))
	printMatches(matches)
}

func confirm(label string) bool {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false
	}
	return answer == PromptYes
}

func printMatches(matches []profile.MatchedProfile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tLOCATION\tOVERALL\tEMOTIONAL\tINTELLECTUAL\tLIFESTYLE")
	for _, m := range matches {
		age, location := 0, ""
		if m.PersonalInfo != nil {
			age, location = m.PersonalInfo.Age, m.PersonalInfo.Location
		}
		c := m.Compatibility
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.0f%%\t%.0f%%\t%.0f%%\t%.0f%%\n",
			m.ID, m.Name(), age, location,
			c.Overall*100, c.Emotional*100, c.Intellectual*100, c.Lifestyle*100,
		)
	}
	w.Flush()
}
