package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/primelife/signup/internal/config"
	"github.com/primelife/signup/internal/storage"
	"github.com/primelife/signup/internal/storage/file"
	"github.com/primelife/signup/internal/wizard"
	"github.com/primelife/signup/pkg/logging"
)

// cli is the state shared by all commands of one invocation.
type cli struct {
	home       string
	configPath string

	prompter Prompter
	backend  storage.Store
	session  *wizard.Session
}

func Execute() error {
	return newRootCmd(nil).Execute()
}

// newRootCmd builds the command tree. A nil prompter uses the terminal.
func newRootCmd(p Prompter) *cobra.Command {
	c := &cli{prompter: p}

	root := &cobra.Command{
		Use:          "signup",
		Short:        "Prime Life health plan sign-up",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.backend == nil {
				return nil
			}
			return c.backend.Close()
		},
	}

	root.PersistentFlags().StringVar(&c.home, "home", "", "state dir (default ~/.primelife)")
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("SIGNUP_CONFIG"), "path to a YAML config file")

	root.AddCommand(
		plansCmd(c),
		statusCmd(c),
		reviewCmd(c),
		startCmd(c),
		selectCmd(c),
		setCmd(c),
		addDependentCmd(c),
		removeDependentCmd(c),
		backCmd(c),
		submitCmd(c),
		signCmd(c),
		resetCmd(c),
		runCmd(c),
	)
	return root
}

// open loads the configuration and restores the wizard from --home.
func (c *cli) open(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	logger := logging.Configure(logOut, cfg.Log.Level, cfg.Log.Format)

	if c.home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.home = filepath.Join(dir, ".primelife")
	}

	fs, err := file.New(filepath.Join(c.home, "state"))
	if err != nil {
		return err
	}
	c.backend = fs

	store := wizard.NewStore(fs, wizard.SnapshotKey, wizard.WithStoreLogger(logger))
	c.session = wizard.NewSession(ctx, store,
		wizard.WithLogger(logger),
		wizard.WithNavigator(wizard.StaticNavigator(cfg.Checkout.URL)),
	)
	return nil
}

// dispatch applies ev and prints where the wizard landed.
func (c *cli) dispatch(cmd *cobra.Command, ev wizard.Event) error {
	res, err := c.session.Dispatch(cmd.Context(), ev)
	if err != nil {
		return userError(err)
	}
	out := cmd.OutOrStdout()
	if res.RedirectURL != "" {
		fmt.Fprintln(out, "Contrato assinado. Continue o pagamento em:")
		fmt.Fprintln(out, res.RedirectURL)
		return nil
	}
	printState(out, res.State, res.Errors)
	return nil
}

// userError rewrites errors caused by the input into messages for people.
func userError(err error) error {
	switch {
	case errors.Is(err, wizard.ErrMissingSignature):
		return errors.New(wizard.SignaturePrompt)
	case errors.Is(err, wizard.ErrInvalidTransition):
		return fmt.Errorf("not available on this page: %w", err)
	default:
		return err
	}
}
