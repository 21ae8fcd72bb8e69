package wizard

import (
	"time"

	"github.com/primelife/signup/internal/models"
)

// Clause is one numbered section of the membership contract.
type Clause struct {
	Number int
	Title  string
	Body   string
}

// clauses are the fixed terms every contract carries.
var clauses = []Clause{
	{1, "OBJETO DO CONTRATO", "Este contrato tem por objeto a prestação de serviços de assistência à saúde pela Prime Life ao CONTRATANTE e seus dependentes, conforme plano selecionado."},
	{2, "COBERTURA", "A cobertura assistencial está limitada às condições e procedimentos previstos no plano contratado, conforme especificações apresentadas."},
	{3, "CARÊNCIAS", "Serão aplicados os prazos de carência conforme legislação vigente e regulamento do plano."},
	{4, "PAGAMENTO", "O pagamento da mensalidade deverá ser efetuado até o dia 10 de cada mês, sob pena de suspensão dos serviços."},
	{5, "RESCISÃO", "O contrato poderá ser rescindido por qualquer das partes mediante comunicação prévia de 30 dias."},
	{6, "ACEITAÇÃO", "Ao assinar este contrato, o CONTRATANTE declara ter lido e concordado com todos os termos e condições aqui estabelecidos."},
}

// Contract is the summary shown for review before signing.
type Contract struct {
	Plan         models.Plan
	MonthlyLabel string
	Applicant    models.Person
	Dependents   []models.Person
	Clauses      []Clause
}

// Review builds the contract summary for s. It fails with ErrNoPlan until a
// plan has been selected.
func Review(s models.State) (Contract, error) {
	if s.SelectedPlan == nil {
		return Contract{}, ErrNoPlan
	}
	s = s.Clone()
	return Contract{
		Plan:         *s.SelectedPlan,
		MonthlyLabel: s.SelectedPlan.MonthlyLabel(),
		Applicant:    s.Applicant,
		Dependents:   s.Dependents,
		Clauses:      append([]Clause(nil), clauses...),
	}, nil
}

// SignedContract is what a successful signature hands off to checkout.
type SignedContract struct {
	Plan       models.Plan
	Applicant  models.Person
	Dependents []models.Person
	Signature  string
	SignedAt   time.Time
}
