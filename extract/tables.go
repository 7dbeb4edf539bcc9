package extract

import "github.com/c360studio/kdd-engine/domain"

// kindFieldRules is the closed per-kind table of
// (section-heading-keywords → indexed-field-name) mappings.
var kindFieldRules = map[domain.KDDKind][]fieldRule{
	domain.KindEntity: {
		{headings: []string{"descripción", "description"}, fieldName: "description", kind: fieldText},
		{headings: []string{"atributos", "attributes"}, fieldName: "attributes", kind: fieldTable},
		{headings: []string{"relaciones", "relations"}, fieldName: "relations", kind: fieldTable},
		{headings: []string{"invariantes", "invariants"}, fieldName: "invariants", kind: fieldBullets},
		{headings: []string{"ciclo de vida", "life cycle"}, fieldName: "state_machine", kind: fieldText},
	},
	domain.KindEvent: {
		{headings: []string{"descripción", "description"}, fieldName: "description", kind: fieldText},
		{headings: []string{"payload"}, fieldName: "payload", kind: fieldTable},
	},
	domain.KindBusinessRule: {
		{headings: []string{"declaración", "declaration"}, fieldName: "declaration", kind: fieldText},
		{headings: []string{"cuándo aplica", "when applies"}, fieldName: "when_applies", kind: fieldText},
	},
	domain.KindBusinessPolicy: {
		{headings: []string{"declaración", "declaration"}, fieldName: "declaration", kind: fieldText},
	},
	domain.KindCrossPolicy: {
		{headings: []string{"propósito", "purpose"}, fieldName: "purpose", kind: fieldText},
		{headings: []string{"declaración", "declaration"}, fieldName: "declaration", kind: fieldText},
	},
	domain.KindCommand: {
		{headings: []string{"purpose", "propósito"}, fieldName: "purpose", kind: fieldText},
		{headings: []string{"preconditions", "precondiciones"}, fieldName: "preconditions", kind: fieldBullets},
		{headings: []string{"postconditions", "postcondiciones"}, fieldName: "postconditions", kind: fieldBullets},
	},
	domain.KindQuery: {
		{headings: []string{"purpose", "propósito"}, fieldName: "purpose", kind: fieldText},
	},
	domain.KindProcess: {
		{headings: []string{"participantes", "participants"}, fieldName: "participants", kind: fieldBullets},
		{headings: []string{"pasos", "steps"}, fieldName: "steps", kind: fieldText},
	},
	domain.KindUseCase: {
		{headings: []string{"descripción", "description"}, fieldName: "description", kind: fieldText},
		{headings: []string{"flujo principal", "main flow"}, fieldName: "main_flow", kind: fieldText},
		{headings: []string{"reglas aplicadas", "applied rules"}, fieldName: "applied_rules", kind: fieldBullets},
		{headings: []string{"comandos ejecutados", "executed commands"}, fieldName: "executed_commands", kind: fieldBullets},
	},
	domain.KindUIView: {
		{headings: []string{"descripción", "description"}, fieldName: "description", kind: fieldText},
		{headings: []string{"comportamiento", "behavior"}, fieldName: "behavior", kind: fieldText},
	},
	domain.KindUIComponent: {
		{headings: []string{"descripción", "description"}, fieldName: "description", kind: fieldText},
	},
	domain.KindRequirement: {
		{headings: []string{"descripción", "description"}, fieldName: "description", kind: fieldText},
	},
	domain.KindObjective: {
		{headings: []string{"objetivo", "objective"}, fieldName: "objective", kind: fieldText},
	},
	domain.KindPRD: {
		{headings: []string{"problema", "oportunidad", "problem", "opportunity"}, fieldName: "problem_opportunity", kind: fieldText},
	},
	domain.KindADR: {
		{headings: []string{"contexto", "context"}, fieldName: "context", kind: fieldText},
		{headings: []string{"decisión", "decision"}, fieldName: "decision", kind: fieldText},
	},
}
