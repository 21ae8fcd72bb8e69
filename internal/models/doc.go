// Package models defines the core domain models for the Prime Life sign-up wizard.
//
// # Models
//
//   - Plan: one of the three fixed health plan tiers (see Plans and PlanByID)
//   - Person: the applicant (titular) or a dependent (dependente)
//   - State: the wizard's current page, selected plan and people
//   - Snapshot: the JSON projection of State that is persisted between reloads
//
// # Design Principles
//
// 1. **Values, not references**: State is replaced on every transition; Clone
// copies the dependent slice so a previous State is never mutated.
// 2. **Plans by id**: snapshots store only the plan id, which is re-resolved
// against the fixed catalog on restore.
// 3. **Masked values**: Person fields hold the masked value shown to the user
// (e.g. "111.444.777-35"), never the raw digits.
//
// # Snapshot compatibility
//
// The snapshot keeps the field names of the original browser storage format
// (titular, dependentes, nome, dataNascimento, cpf, cep, numero) so snapshots
// written by older clients restore unchanged.
package models
