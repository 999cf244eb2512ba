package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored profiles",
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a profile or a list of profiles from a json file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		importProfiles(args[0])
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [cupid-id]",
	Short: "Select the current profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		useProfile(id)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [cupid-id]",
	Short: "Print a profile (default is the current profile)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		showProfile(id)
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Run: func(_ *cobra.Command, _ []string) {
		listProfiles()
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileImportCmd, profileUseCmd, profileShowCmd, profileListCmd)
}

func importProfiles(path string) {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Fatal("reading profiles file", zap.String("path", path), zap.Error(err))
	}

	profiles, err := decodeProfiles(data)
	if err != nil {
		e.logger.Fatal("decoding profiles file", zap.String("path", path), zap.Error(err))
	}

	now := time.Now()
	for _, p := range profiles {
		if err := profile.Prepare(p, now); err != nil {
			e.logger.Fatal("rejecting profile", zap.Error(err))
		}
		if err := e.store.PutProfile(ctx, p); err != nil {
			e.logger.Fatal("storing profile", zap.String("id", p.ID), zap.Error(err))
		}
		e.logger.Info("profile imported", zap.String("id", p.ID), zap.String("name", p.Name()))
	}
}

// decodeProfiles accepts a single profile object or an array of them.
func decodeProfiles(data []byte) ([]*profile.Profile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	if data[0] == '[' {
		var profiles []*profile.Profile
		if err := json.Unmarshal(data, &profiles); err != nil {
			return nil, err
		}
		return profiles, nil
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return []*profile.Profile{&p}, nil
}

func useProfile(id string) {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	if id == "" {
		profiles, err := e.store.ListProfiles(ctx)
		if err != nil {
			e.logger.Fatal("listing profiles", zap.Error(err))
		}
		if len(profiles) == 0 {
			e.logger.Fatal("no profiles stored", zap.String("hint", "run `profile import` or `seed` first"))
		}

		items := make([]string, 0, len(profiles))
		for _, p := range profiles {
			items = append(items, fmt.Sprintf("%s %s", p.ID, p.Name()))
		}

		prompt := promptui.Select{Label: "Select your profile", Items: items}
		idx, _, err := prompt.Run()
		if err != nil {
			e.logger.Fatal("exiting", zap.Error(err))
		}
		id = profiles[idx].ID
	}

	if err := e.store.SetCurrentProfile(ctx, id); err != nil {
		e.logger.Fatal("selecting current profile", zap.String("id", id), zap.Error(err))
	}
	e.logger.Info("current profile selected", zap.String("id", id))
}

func showProfile(id string) {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	id, err := e.requesterID(ctx, id)
	if err != nil {
		e.logger.Fatal("resolving profile", zap.Error(err))
	}

	p, err := e.store.GetProfile(ctx, id)
	if err != nil {
		e.logger.Fatal("getting profile", zap.String("id", id), zap.Error(err))
	}

	pretty, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		e.logger.Fatal("encoding profile", zap.Error(err))
	}
	fmt.Println(string(pretty))

	if missing := profile.MissingSections(p); len(missing) > 0 {
		e.logger.Warn("profile is incomplete", zap.Strings("missing", missing))
	}
}

func listProfiles() {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	profiles, err := e.store.ListProfiles(ctx)
	if err != nil {
		e.logger.Fatal("listing profiles", zap.Error(err))
	}

	current := ""
	if p, err := e.store.GetCurrentProfile(ctx); err == nil {
		current = p.ID
	}

	for _, p := range profiles {
		marker := " "
		if p.ID == current {
			marker = "*"
		}
		status := "complete"
		if !profile.IsComplete(p) {
			status = "incomplete"
		}
		fmt.Printf("%s %s\t%s\t%s\n", marker, p.ID, p.Name(), status)
	}
}
