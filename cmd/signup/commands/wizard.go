package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/primelife/signup/internal/wizard"
)

func startCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Leave the home page and list the plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dispatch(cmd, wizard.Start{})
		},
	}
}

func selectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "select <plan-id>",
		Short: "Choose a plan and open the form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dispatch(cmd, wizard.SelectPlan{PlanID: args[0]})
		},
	}
}

// set <field> <value>: field is applicant.<name> or dependent[i].<name>.
func setCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "set <field> <value>",
		Short:   "Fill in one form field",
		Example: "  signup set applicant.documentNumber 52998224725\n  signup set 'dependent[0].fullName' 'Ana Souza'",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := wizard.ParseFieldRef(args[0])
			if err != nil {
				return err
			}
			return c.dispatch(cmd, wizard.UpdateField{FieldRef: ref, Value: args[1]})
		},
	}
}

func addDependentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add-dependent",
		Short: "Add an empty dependent, if the plan allows more",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dispatch(cmd, wizard.AddDependent{})
		},
	}
}

func removeDependentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-dependent <index>",
		Short: "Remove the dependent at index (0-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return c.dispatch(cmd, wizard.RemoveDependent{Index: i})
		},
	}
}

func backCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Return to the previous page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dispatch(cmd, wizard.Back{})
		},
	}
}

func submitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Validate the form and open the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dispatch(cmd, wizard.Submit{})
		},
	}
}

func signCmd(c *cli) *cobra.Command {
	var signature string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the contract and continue to checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := readSignature(signature)
			if err != nil {
				return err
			}
			return c.dispatch(cmd, wizard.Sign{Signature: sig})
		},
	}
	cmd.Flags().StringVar(&signature, "signature", "", "signature text, or @path to read it from a file")
	return cmd
}

// readSignature returns s, or the contents of the file when s is @path.
func readSignature(s string) (string, error) {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read signature: %w", err)
	}
	return string(b), nil
}

func resetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the wizard and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Reset(cmd.Context()); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), c.session.State(), nil)
			return nil
		},
	}
}
