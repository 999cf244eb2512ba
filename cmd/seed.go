package cmd

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/profile"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the profile store with generated profiles",
	Run: func(cmd *cobra.Command, _ []string) {
		seed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntP("count", "n", 20, "number of profiles to generate")
	seedCmd.Flags().StringP("gender", "g", string(profile.PreferAll), "gender of generated profiles: male, female or all")
	seedCmd.Flags().Int("min-age", 21, "youngest generated age")
	seedCmd.Flags().Int("max-age", 35, "oldest generated age")
	seedCmd.Flags().Uint64("seed", 0, "random seed, 0 picks one from the clock")
}

func seed(cmd *cobra.Command) {
	ctx := context.Background()

	e := setup(ctx)
	defer e.close()

	count, _ := cmd.Flags().GetInt("count")
	gender, _ := cmd.Flags().GetString("gender")
	minAge, _ := cmd.Flags().GetInt("min-age")
	maxAge, _ := cmd.Flags().GetInt("max-age")
	seedValue, _ := cmd.Flags().GetUint64("seed")

	pref := profile.GenderPreference(gender)
	if !pref.Valid() {
		e.logger.Fatal("unknown gender", zap.String("gender", gender))
	}

	now := time.Now()
	if seedValue == 0 {
		seedValue = uint64(now.UnixNano())
	}
	rng := rand.New(rand.NewPCG(seedValue, seedValue>>1))

	generated := profile.Generate(rng, count, profile.GenerateOptions{
		Gender: pref,
		MinAge: minAge,
		MaxAge: maxAge,
		Now:    now,
	})

	for _, p := range generated {
		if err := e.store.PutProfile(ctx, p); err != nil {
			e.logger.Fatal("storing generated profile", zap.String("id", p.ID), zap.Error(err))
		}
		e.logger.Debug("generated profile", zap.String("id", p.ID), zap.String("name", p.Name()))
	}

	e.logger.Info("profiles generated",
		zap.Int("count", len(generated)),
		zap.Uint64("seed", seedValue),
	)
}
