package models

// VariantSummary ist der Auszug aus der ClinVar-Tabelle variant_summary,
// den die Variant-Annotation zurückgibt.
type VariantSummary struct {
	AlleleID             int    `json:"allele_id" gorm:"column:AlleleID"`
	VariantType          string `json:"variant_type" gorm:"column:variant_type"`
	VariantName          string `json:"variant_name" gorm:"column:variant_name"`
	GeneID               int    `json:"gene_id" gorm:"column:GeneID"`
	Symbol               string `json:"symbol" gorm:"column:Symbol"`
	ClinicalSignificance string `json:"clinical_significance" gorm:"column:ClinicalSignificance"`
	PhenotypeIDs         string `json:"phenotype_ids" gorm:"column:PhenotypeIDs"`
	RS                   int    `json:"rs" gorm:"column:rs"`
	DbVarNSV             string `json:"dbvar_nsv" gorm:"column:dbvar_nsv"`
	HGVSc                string `json:"hgvs_c" gorm:"column:HGVS_c"`
	HGVSp                string `json:"hgvs_p" gorm:"column:HGVS_p"`
	TestedInGTR          string `json:"tested_in_gtr" gorm:"column:TestedInGTR"`
	NumberSubmitters     int    `json:"number_submitters" gorm:"column:NumberSubmitters"`
}

// MolecularConsequence ist eine Zeile aus molecular_consequences:
// Sequence-Ontology-Benennung der Variantenfolge. Nicht jede Variante hat
// bekannte Konsequenzen.
type MolecularConsequence struct {
	HGVS               string `json:"hgvs" gorm:"column:HGVS"`
	SequenceOntologyID string `json:"sequence_ontology_id" gorm:"column:SequenceOntologyID"`
	Consequence        string `json:"consequence" gorm:"column:Consequence"`
}
