package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/primelife/signup/internal/models"
)

func plansCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the available plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPlans(cmd.OutOrStdout(), models.Plans())
			return nil
		},
	}
}

func statusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current page and form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printState(cmd.OutOrStdout(), c.session.State(), c.session.Errors())
			return nil
		},
	}
}

func reviewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Print the contract for the selected plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := c.session.Review()
			if err != nil {
				return userError(err)
			}
			printContract(cmd.OutOrStdout(), contract)
			fmt.Fprintln(cmd.OutOrStdout(), "Assine com: signup sign --signature <assinatura>")
			return nil
		},
	}
}
