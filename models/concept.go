package models

// Concept trägt beide kanonischen Darstellungen eines MedGen-Konzepts:
// die UMLS-CUI (8-stellig, Präfix C) und die kompakte numerische MedGen-UID.
// Beide Felder werden beim Auflösen gesetzt; zwei Konzepte sind gleich,
// wenn beide Felder übereinstimmen.
type Concept struct {
	CUI string `json:"cui"`
	UID int    `json:"uid"`
}

// ConceptName ist eine Zeile der NAMES-Tabelle: der bevorzugte Name eines
// Konzepts. NCBI bevorzugt GTR/ClinVar-Namen, dann SNOMED-CT, dann MeSH.
type ConceptName struct {
	CUI      string `json:"cui" gorm:"column:CUI"`
	Name     string `json:"name" gorm:"column:name"`
	Source   string `json:"source" gorm:"column:source"`
	Suppress string `json:"suppress" gorm:"column:SUPPRESS"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ConceptName) TableName() string {
	return "NAMES"
}

// ConceptDefinition ist eine Zeile der MGDEF-Tabelle plus Linkout-URL.
// SAB bezeichnet das Quellvokabular (NCI, SNOMED, MeSH, ...).
type ConceptDefinition struct {
	CUI        string `json:"cui" gorm:"column:CUI"`
	Definition string `json:"definition" gorm:"column:DEF"`
	SAB        string `json:"sab" gorm:"column:SAB"`
	Suppress   string `json:"suppress" gorm:"column:SUPPRESS"`
	URL        string `json:"url" gorm:"-"`
}

// ConceptRelation ist eine Zeile der symmetrischen MGREL-Tabelle. Eine
// Beziehung kann aus beiden Richtungen erscheinen; REL unterscheidet sich
// dann je Richtung, deshalb wird nicht dedupliziert.
type ConceptRelation struct {
	CUI1     string `json:"cui1" gorm:"column:CUI1"`
	Rel      string `json:"rel" gorm:"column:REL"`
	CUI2     string `json:"cui2" gorm:"column:CUI2"`
	Rela     string `json:"rela" gorm:"column:RELA"`
	SAB      string `json:"sab" gorm:"column:SAB"`
	Suppress string `json:"suppress" gorm:"column:SUPPRESS"`
}

// DiseaseTerm ist ein Eintrag aus view_disease_subtype: eine engere oder
// weitere Fassung einer Erkrankung in der MedGen-Hierarchie.
type DiseaseTerm struct {
	DiseaseID     string `json:"disease_id" gorm:"column:DiseaseID"`
	DiseaseName   string `json:"disease_name" gorm:"column:DiseaseName"`
	DiseaseSource string `json:"disease_source" gorm:"column:DiseaseSource"`
}

// DiseaseName ist eine Zeile der ClinVar-Tabelle disease_names.
type DiseaseName struct {
	DiseaseName string `json:"disease_name" gorm:"column:DiseaseName"`
	SourceName  string `json:"source_name" gorm:"column:SourceName"`
	ConceptID   string `json:"concept_id" gorm:"column:ConceptID"`
	SourceID    string `json:"source_id" gorm:"column:SourceID"`
	DiseaseMIM  string `json:"disease_mim" gorm:"column:DiseaseMIM"`
	Category    string `json:"category" gorm:"column:Category"`
}
