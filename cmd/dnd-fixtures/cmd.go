package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thesyncim/dnd/cmd/dnd-fixtures/server"
	"github.com/thesyncim/dnd/internal/logger"
)

// newConfig returns a viper instance with defaults, DND_* environment
// bindings and an optional dnd.yaml in the working directory.
func newConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("debug", false)
	v.SetDefault("shutdown_timeout", 5*time.Second)

	v.SetEnvPrefix("dnd")
	v.AutomaticEnv()

	v.SetConfigName("dnd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "dnd-fixtures",
		Short:        "Serve drag-and-drop fixture pages",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand())
	return root
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fixture HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig()
			if err != nil {
				return err
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, v, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("debug", false, "log every request")
	return cmd
}

// serve runs the fixture server until ctx is done.
func serve(ctx context.Context, v *viper.Viper, out io.Writer) error {
	log := logger.New(v.GetBool("debug"))
	log.SetOutput(os.Stderr)

	srv, err := server.NewServer(server.Config{
		Addr:         v.GetString("addr"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if _, err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	printBanner(out, srv)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), v.GetDuration("shutdown_timeout"))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printBanner(out io.Writer, srv *server.Server) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(out, "Drag and Drop Fixtures")
	bold.Fprintln(out, "======================")
	for _, p := range srv.Manifest().Pages {
		fmt.Fprintf(out, "  %-40s %s\n", p.Title, cyan.Sprint(srv.URL(p.File)))
	}
	fmt.Fprintln(out)
}
