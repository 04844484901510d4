// Package models defines the proposal field vocabulary and value types.
package models

// Field identifies one logical proposal datum. The set is closed: the
// extraction mappings, the placeholder table and ProposalData all share it.
type Field string

const (
	FieldNomeCliente Field = "nome_cliente"
	FieldNomeContato Field = "nome_contato"
	FieldEmail       Field = "email"
	FieldTelefone    Field = "telefone"
	FieldEscopo      Field = "escopo"
	FieldPrazo       Field = "prazo"
	FieldCusto       Field = "custo"
	FieldGarantias   Field = "garantias"
	FieldSeguro      Field = "seguro"
	FieldNaoInclusos Field = "nao_inclusos"
)

// Fields returns every known field in a stable order.
func Fields() []Field {
	return []Field{
		FieldNomeCliente,
		FieldNomeContato,
		FieldEmail,
		FieldTelefone,
		FieldEscopo,
		FieldPrazo,
		FieldCusto,
		FieldGarantias,
		FieldSeguro,
		FieldNaoInclusos,
	}
}

// Valid reports whether f is a member of the closed field set.
func (f Field) Valid() bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// FieldKind tags how a field's value is entered and rendered.
// It is decided once from static field metadata, never at runtime.
type FieldKind string

const (
	// KindText is a single-line scalar field.
	KindText FieldKind = "text"
	// KindCurrency is a monetary field rendered with Brazilian separators.
	KindCurrency FieldKind = "currency"
	// KindMultiline is free text or a list rendered as bulleted lines.
	KindMultiline FieldKind = "multiline"
)

// KindOf returns the static kind for a field.
func KindOf(f Field) FieldKind {
	switch f {
	case FieldCusto:
		return KindCurrency
	case FieldEscopo, FieldGarantias, FieldNaoInclusos:
		return KindMultiline
	default:
		return KindText
	}
}
