package models

// Gene trägt beide kanonischen Darstellungen eines Gens: die numerische
// Entrez-GeneID und das HGNC-Symbol. Beide Felder werden beim Auflösen
// gesetzt; zwei Gene sind gleich, wenn beide Felder übereinstimmen.
type Gene struct {
	ID     int    `json:"gene_id"`
	Symbol string `json:"symbol"`
}

// GeneInfo ist eine Zeile der gene_info-Referenztabelle (NCBI Entrez).
type GeneInfo struct {
	GeneID      int    `json:"gene_id" gorm:"column:GeneID"`
	Symbol      string `json:"symbol" gorm:"column:Symbol"`
	Synonyms    string `json:"synonyms" gorm:"column:Synonyms"`
	NomenSymbol string `json:"nomen_symbol" gorm:"column:Nomen_symbol"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (GeneInfo) TableName() string {
	return "gene_info"
}

// GeneMIM ist eine Zeile aus mim2gene_medgen: OMIM-Verknüpfungen eines Gens.
type GeneMIM struct {
	MIM       int    `json:"mim" gorm:"column:MIM"`
	GeneID    int    `json:"gene_id" gorm:"column:GeneID"`
	MIMType   string `json:"mim_type" gorm:"column:MIM_type"`
	MIMVocab  string `json:"mim_vocab" gorm:"column:MIM_vocab"`
	MedGenCUI string `json:"medgen_cui" gorm:"column:MedGenCUI"`
}

// GeneRIF ist ein Reference-into-Function-Eintrag: Freitext dazu, was ein
// Gen tatsächlich tut, mit den zugehörigen PubMed-Belegen.
type GeneRIF struct {
	PubMeds string `json:"pubmeds" gorm:"column:pubmeds"`
	Text    string `json:"gene_rif" gorm:"column:GeneRIF"`
}

// GeneCondition ist eine Zeile aus gene_condition_source_id: MedGen-Quelle,
// die Gene mit Erkrankungen über ClinVar, GTR, OMIM und HPO verknüpft.
type GeneCondition struct {
	GeneID      int    `json:"gene_id" gorm:"column:GeneID"`
	Symbol      string `json:"symbol" gorm:"column:Symbol"`
	ConceptID   string `json:"concept_id" gorm:"column:ConceptID"`
	DiseaseName string `json:"disease_name" gorm:"column:DiseaseName"`
	SourceName  string `json:"source_name" gorm:"column:SourceName"`
	SourceID    string `json:"source_id" gorm:"column:SourceID"`
	DiseaseMIM  string `json:"disease_mim" gorm:"column:DiseaseMIM"`
}

// GeneLocus sind die Locus-spezifischen Datenbanken eines Gens aus dem
// offiziellen HUGO-Datensatz, als Name->URL-Abbildung, plus die dort
// hinterlegten PubMed-Belege.
type GeneLocus struct {
	Gene      string            `json:"gene"`
	Databases map[string]string `json:"locus_specific_databases"`
	PubMeds   []string          `json:"pubmeds,omitempty"`
}

// SignificanceCount zählt ClinVar-Varianten eines Gens je klinischer
// Signifikanz.
type SignificanceCount struct {
	ClinicalSignificance string `json:"clinical_significance" gorm:"column:ClinicalSignificance"`
	VariantCount         int    `json:"cnt_variants" gorm:"column:cnt_variants"`
}
