package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yuwenzhijiao/showcase/internal/client"
)

// GlobalOptions carries settings shared by every subcommand. Values resolve
// flag > YUWEN_* env > default.
type GlobalOptions struct {
	v      *viper.Viper
	Logger *slog.Logger
}

func NewRootCMD() *cobra.Command {
	globalOptions := &GlobalOptions{v: viper.New()}

	rootCMD := &cobra.Command{
		Use:           "yuwenctl",
		Short:         "Command line client for the AI 语文智教 API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			globalOptions.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		},
	}

	// register global flags
	globalOptions.registerFlags(rootCMD)

	// add subcommands
	rootCMD.AddCommand(NewResourcesCommand(globalOptions))
	rootCMD.AddCommand(NewStatsCommand(globalOptions))
	rootCMD.AddCommand(NewChatCommand(globalOptions))
	rootCMD.AddCommand(NewLoginCommand(globalOptions))
	rootCMD.AddCommand(NewRegisterCommand(globalOptions))

	return rootCMD
}

func (options *GlobalOptions) registerFlags(cmd *cobra.Command) {
	// flags that can be used for each command
	cmd.PersistentFlags().String("server", "http://localhost:8080", "Base URL of the API. (Env: YUWEN_SERVER)")
	cmd.PersistentFlags().String("token", "", "Bearer token for write calls. (Env: YUWEN_TOKEN)")
	cmd.PersistentFlags().Duration("timeout", 45*time.Second, "HTTP timeout per request. (Env: YUWEN_TIMEOUT)")

	options.v.SetEnvPrefix("YUWEN")
	options.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	options.v.AutomaticEnv()
	_ = options.v.BindPFlags(cmd.PersistentFlags())
}

func (options *GlobalOptions) client() *client.Client {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return client.New(
		options.v.GetString("server"),
		client.WithToken(options.v.GetString("token")),
		client.WithLogger(logger),
		client.WithHTTPClient(&http.Client{Timeout: options.v.GetDuration("timeout")}),
	)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func Execute() {
	rootCmd := NewRootCMD()

	// Run the command based on os.Args
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
