package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/primelife/signup/internal/models"
	"github.com/primelife/signup/internal/wizard"
)

// Menu entries of the interactive walk.
const (
	optBack         = "Voltar"
	optEdit         = "Editar dados"
	optAddDependent = "Adicionar dependente"
	optRemove       = "Remover dependente"
	optSubmit       = "Continuar para o contrato"
	optSign         = "Assinar contrato"
)

func runCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Walk through the sign-up interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.prompter
			if p == nil {
				p = surveyPrompter{}
			}
			w := &walk{cli: c, cmd: cmd, p: p, out: cmd.OutOrStdout()}
			err := w.run()
			if errors.Is(err, ErrAborted) {
				fmt.Fprintln(w.out, "Seu progresso foi salvo.")
				return nil
			}
			return err
		},
	}
}

// walk drives the session page by page until the contract is signed or the
// user stops.
type walk struct {
	*cli
	cmd *cobra.Command
	p   Prompter
	out io.Writer
}

func (w *walk) run() error {
	for {
		var (
			done bool
			err  error
		)
		switch w.session.State().CurrentPage {
		case models.PageHome:
			done, err = w.home()
		case models.PagePlans:
			err = w.plans()
		case models.PageForm:
			err = w.form()
		case models.PageContract:
			done, err = w.contract()
		}
		if err != nil || done {
			return err
		}
	}
}

func (w *walk) dispatch(ev wizard.Event) (wizard.Result, error) {
	return w.session.Dispatch(w.cmd.Context(), ev)
}

func (w *walk) home() (bool, error) {
	ok, err := w.p.Confirm("Bem-vindo à Prime Life. Deseja escolher um plano?", true)
	if err != nil || !ok {
		return true, err
	}
	_, err = w.dispatch(wizard.Start{})
	return false, err
}

func (w *walk) plans() error {
	plans := models.Plans()
	options := make([]string, 0, len(plans))
	for _, p := range plans {
		options = append(options, fmt.Sprintf("%s - %s (%s)", p.Name, p.MonthlyLabel(), p.Description))
	}

	i, err := w.p.Select("Escolha seu plano", options)
	if err != nil {
		return err
	}
	_, err = w.dispatch(wizard.SelectPlan{PlanID: plans[i].ID})
	return err
}

func (w *walk) form() error {
	s := w.session.State()
	options := []string{optEdit}
	if s.CanAddDependent() {
		options = append(options, optAddDependent)
	}
	if len(s.Dependents) > 0 {
		options = append(options, optRemove)
	}
	options = append(options, optSubmit, optBack)

	i, err := w.p.Select(fmt.Sprintf("Plano %s: o que deseja fazer?", s.SelectedPlan.Name), options)
	if err != nil {
		return err
	}

	switch options[i] {
	case optEdit:
		return w.editPeople(s)
	case optAddDependent:
		if _, err := w.dispatch(wizard.AddDependent{}); err != nil {
			return err
		}
		return w.editPerson(w.session.State(), len(s.Dependents))
	case optRemove:
		return w.removeDependent(s)
	case optSubmit:
		res, err := w.dispatch(wizard.Submit{})
		if err != nil {
			return err
		}
		if len(res.Errors) > 0 {
			fmt.Fprintln(w.out, "Corrija os campos destacados:")
			printState(w.out, res.State, res.Errors)
		}
		return nil
	default:
		_, err := w.dispatch(wizard.Back{})
		return err
	}
}

// editPeople asks for every field of the applicant and each dependent.
func (w *walk) editPeople(s models.State) error {
	if err := w.editPerson(s, -1); err != nil {
		return err
	}
	for i := range s.Dependents {
		if err := w.editPerson(s, i); err != nil {
			return err
		}
	}
	return nil
}

// editPerson asks for the fields of the applicant (index -1) or of dependent i.
func (w *walk) editPerson(s models.State, i int) error {
	person, title := s.Applicant, "Titular"
	if i >= 0 {
		person, title = s.Dependents[i], fmt.Sprintf("Dependente %d", i+1)
	}
	errs := w.session.Errors()

	for _, f := range models.PersonFields {
		ref := wizard.ApplicantField(f)
		if i >= 0 {
			ref = wizard.DependentField(i, f)
		}
		msg := fmt.Sprintf("%s - %s", title, fieldLabels[f])
		if e := errs.Get(ref); e != "" {
			msg += " (" + e + ")"
		}
		v, err := w.p.Input(msg, person.Get(f))
		if err != nil {
			return err
		}
		if v == person.Get(f) {
			continue
		}
		if _, err := w.dispatch(wizard.UpdateField{FieldRef: ref, Value: v}); err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) removeDependent(s models.State) error {
	options := make([]string, len(s.Dependents))
	for i, d := range s.Dependents {
		name := d.FullName
		if name == "" {
			name = "(sem nome)"
		}
		options[i] = fmt.Sprintf("Dependente %d: %s", i+1, name)
	}
	i, err := w.p.Select("Qual dependente deseja remover?", options)
	if err != nil {
		return err
	}
	_, err = w.dispatch(wizard.RemoveDependent{Index: i})
	return err
}

func (w *walk) contract() (bool, error) {
	contract, err := w.session.Review()
	if err != nil {
		return true, err
	}
	printContract(w.out, contract)

	i, err := w.p.Select("Deseja assinar?", []string{optSign, optBack})
	if err != nil {
		return true, err
	}
	if i == 1 {
		_, err = w.dispatch(wizard.Back{})
		return false, err
	}

	sig, err := w.p.Input("Digite seu nome completo como assinatura", "")
	if err != nil {
		return true, err
	}
	res, err := w.dispatch(wizard.Sign{Signature: sig})
	if errors.Is(err, wizard.ErrMissingSignature) {
		fmt.Fprintln(w.out, wizard.SignaturePrompt)
		return false, nil
	}
	if err != nil {
		return true, err
	}
	fmt.Fprintln(w.out, "Contrato assinado. Continue o pagamento em:")
	fmt.Fprintln(w.out, res.RedirectURL)
	return true, nil
}
