package models

// IdentifierKind klassifiziert einen rohen Identifier-String.
// Jeder Eingabewert wird auf genau eine Art abgebildet oder abgelehnt.
type IdentifierKind string

const (
	KindGeneNumericID      IdentifierKind = "GeneNumericID"
	KindGeneSymbol         IdentifierKind = "GeneSymbol"
	KindConceptCUI         IdentifierKind = "ConceptCUI"
	KindConceptUID         IdentifierKind = "ConceptUID"
	KindHGVSText           IdentifierKind = "HGVSText"
	KindClinVarVariationID IdentifierKind = "ClinVarVariationID"
	KindClinVarAlleleID    IdentifierKind = "ClinVarAlleleID"
	KindClinVarAccession   IdentifierKind = "ClinVarAccession"
	KindCitationPMID       IdentifierKind = "CitationPMID"
	KindCitationBookID     IdentifierKind = "CitationBookID"
	KindCitationPMCID      IdentifierKind = "CitationPMCID"
)

// Identifier ist ein getaggter Rohwert.
type Identifier struct {
	Kind  IdentifierKind `json:"kind"`
	Value string         `json:"value"`
}

// IDColumn benennt die ClinVar-Identifier-Spalten, die für HGVS-Lookups
// erlaubt sind. Nur Werte aus dieser Aufzählung dürfen in SQL interpoliert
// werden, niemals freier Text vom Aufrufer.
type IDColumn string

const (
	ColumnVariationID  IDColumn = "VariationID"
	ColumnAlleleID     IDColumn = "AlleleID"
	ColumnRCVAccession IDColumn = "RCVaccession"
)

// Valid meldet, ob die Spalte zur festen Aufzählung gehört.
func (c IDColumn) Valid() bool {
	switch c {
	case ColumnVariationID, ColumnAlleleID, ColumnRCVAccession:
		return true
	}
	return false
}

// KindForColumn liefert die Identifier-Art, die eine Spalte produziert.
func KindForColumn(c IDColumn) IdentifierKind {
	switch c {
	case ColumnAlleleID:
		return KindClinVarAlleleID
	case ColumnRCVAccession:
		return KindClinVarAccession
	default:
		return KindClinVarVariationID
	}
}
