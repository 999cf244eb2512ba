package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve matching over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := setup(ctx)
	defer e.close()

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := api.NewHandler(e.newService(ctx), e.store, e.logger)
	server := api.NewServer(e.config.Server, api.NewRouter(handler, e.logger), e.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			e.logger.Fatal("http server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			e.logger.Error("shutting down", zap.Error(err))
		}
	}
}
