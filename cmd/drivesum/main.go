package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drivesum/drivesum/internal/auth"
	"github.com/drivesum/drivesum/internal/catalog"
	"github.com/drivesum/drivesum/internal/checksum"
	"github.com/drivesum/drivesum/internal/units"
	"github.com/drivesum/drivesum/internal/verify"
	"github.com/drivesum/drivesum/internal/watch"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Exit codes: 0 the run completed (mismatches included), 2 the local file
// is missing, 3 no matching remote record. Everything else is 1.
const (
	exitError          = 1
	exitNotFoundLocal  = 2
	exitNotFoundRemote = 3
)

var errNotFoundRemote = errors.New("not found in remote storage")

var (
	account     string
	baseURL     string
	tokenDir    string
	timeout     time.Duration
	algo        string
	metric      bool
	debug       bool
	refChecksum string

	rootCmd = &cobra.Command{
		Use:           "drivesum",
		Short:         "Verify a local file against its remote drive revisions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&account, "account", "", "account nickname")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "https://catalog.drivesum.io/v1", "remote catalog base URL")
	rootCmd.PersistentFlags().StringVar(&tokenDir, "token-dir", "", "directory holding cached account tokens")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "remote request timeout")
	rootCmd.PersistentFlags().StringVar(&algo, "algo", "md5", "digest algorithm for local checksums")
	rootCmd.PersistentFlags().BoolVar(&metric, "metric", false, "report sizes in metric units instead of binary")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.MarkPersistentFlagRequired("account")

	// Add commands
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(watchCmd)

	verifyCmd.Flags().StringVar(&refChecksum, "checksum", "", "reference checksum; skips local computation")
}

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify a file's checksum against every stored remote revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier, err := newVerifier()
		if err != nil {
			return err
		}

		report, err := runOnce(cmd.Context(), verifier, args[0])
		if err != nil {
			return err
		}
		if !report.Found {
			return fmt.Errorf("%s: %w", report.Name, errNotFoundRemote)
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-verify a file whenever it changes on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier, err := newVerifier()
		if err != nil {
			return err
		}

		path := args[0]
		if _, err := runOnce(cmd.Context(), verifier, path); err != nil {
			return err
		}

		watcher, err := watch.New(path, func(ctx context.Context) error {
			_, err := runOnce(ctx, verifier, path)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println("Press Ctrl+C to stop...")
		return watcher.Watch(ctx)
	},
}

// runOnce executes one verification of path and renders the report.
func runOnce(ctx context.Context, verifier *verify.Verifier, path string) (*verify.Report, error) {
	digest, err := checksum.ByName(algo)
	if err != nil {
		return nil, err
	}

	report, err := verifier.Run(ctx, verify.Request{
		Path:     path,
		Checksum: refChecksum,
		Digest:   digest,
	})
	if err != nil {
		return nil, err
	}

	base := units.Binary
	if metric {
		base = units.Metric
	}
	renderReport(reportWriter(), report, base, coloredOutput())

	return report, nil
}

// newVerifier resolves the account session and wires the catalog client.
func newVerifier() (*verify.Verifier, error) {
	provider, err := auth.NewProvider(tokenDir)
	if err != nil {
		return nil, err
	}

	session, err := provider.Session(account)
	if err != nil {
		return nil, err
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL: baseURL,
		Token:   session.Token,
		Timeout: timeout,
	})

	return verify.New(client), nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return exitNotFoundLocal
	case errors.Is(err, errNotFoundRemote):
		return exitNotFoundRemote
	default:
		return exitError
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
