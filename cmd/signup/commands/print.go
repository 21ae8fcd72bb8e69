package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/primelife/signup/internal/models"
	"github.com/primelife/signup/internal/wizard"
)

var fieldLabels = map[models.Field]string{
	models.FieldFullName:       "Nome completo",
	models.FieldBirthDate:      "Data de nascimento",
	models.FieldDocumentNumber: "CPF",
	models.FieldPostalCode:     "CEP",
	models.FieldHouseNumber:    "Número",
}

func printPlans(w io.Writer, plans []models.Plan) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLANO\tMENSALIDADE\tDEPENDENTES\tDESCRIÇÃO")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.MonthlyLabel(), p.DependentQuota, p.Description)
	}
	tw.Flush()
}

func printState(w io.Writer, s models.State, errs wizard.Errors) {
	fmt.Fprintf(w, "Página: %s\n", s.CurrentPage)
	if s.SelectedPlan == nil {
		return
	}
	fmt.Fprintf(w, "Plano: %s (%s)\n", s.SelectedPlan.Name, s.SelectedPlan.MonthlyLabel())
	if s.CurrentPage != models.PageForm && s.CurrentPage != models.PageContract {
		return
	}

	fmt.Fprintln(w, "\nTitular")
	printPerson(w, s.Applicant, errs, wizard.ApplicantField)
	for i, d := range s.Dependents {
		fmt.Fprintf(w, "\nDependente %d\n", i+1)
		printPerson(w, d, errs, func(f models.Field) wizard.FieldRef {
			return wizard.DependentField(i, f)
		})
	}
	fmt.Fprintf(w, "\nDependentes: %d de %d\n", len(s.Dependents), s.DependentQuota())
}

func printPerson(w io.Writer, p models.Person, errs wizard.Errors, ref func(models.Field) wizard.FieldRef) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range models.PersonFields {
		line := fmt.Sprintf("  %s\t%s\t%s", fieldLabels[f], p.Get(f), ref(f).Key())
		if msg := errs.Get(ref(f)); msg != "" {
			line += "\t! " + msg
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

func printContract(w io.Writer, c wizard.Contract) {
	fmt.Fprintln(w, "CONTRATO DE ADESÃO - PRIME LIFE")
	fmt.Fprintf(w, "Plano: %s - %s\n", c.Plan.Name, c.MonthlyLabel)
	fmt.Fprintf(w, "Titular: %s (CPF %s)\n", c.Applicant.FullName, c.Applicant.DocumentNumber)
	for i, d := range c.Dependents {
		fmt.Fprintf(w, "Dependente %d: %s (CPF %s)\n", i+1, d.FullName, d.DocumentNumber)
	}
	for _, cl := range c.Clauses {
		fmt.Fprintf(w, "\n%d. %s\n%s\n", cl.Number, cl.Title, cl.Body)
	}
	fmt.Fprintln(w, "\n"+strings.Repeat("-", 40))
}
