package models

// CitationSource klassifiziert die Herkunft einer Literatur-Referenz.
type CitationSource string

const (
	SourcePubMed        CitationSource = "PubMed"
	SourcePubMedCentral CitationSource = "PubMedCentral"
	SourceBook          CitationSource = "Book"
	SourceOther         CitationSource = "Other"
)

// Citation ist eine Literatur-Referenz zu einer Variante. ResolvedPMID ist
// nur bei erfolgreich aufgelösten PubMedCentral-Referenzen gesetzt und
// bestimmt dann den Deduplizierungs-Schlüssel.
type Citation struct {
	RawID        string         `json:"raw_id"`
	Source       CitationSource `json:"source"`
	ResolvedPMID string         `json:"resolved_pmid,omitempty"`
}

// Key liefert den Deduplizierungs-Schlüssel: die aufgelöste PMID, sonst
// die Roh-ID (deckt Buch-Referenzen ab, die unverändert bleiben).
func (c Citation) Key() string {
	if c.ResolvedPMID != "" {
		return c.ResolvedPMID
	}
	return c.RawID
}

// CitationSet ist eine Menge von Citations, geschlüsselt über Citation.Key.
// Es gibt keine Ordnungsgarantie.
type CitationSet map[string]Citation

// Add fügt eine Citation ein; ein bereits vorhandener Schlüssel gewinnt.
func (s CitationSet) Add(c Citation) {
	if _, exists := s[c.Key()]; !exists {
		s[c.Key()] = c
	}
}

// Keys gibt alle Schlüssel der Menge zurück (unsortiert).
func (s CitationSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// CitationOutcome hält das Ergebnis der Auflösung einer einzelnen
// Referenz fest. Verworfene Referenzen (nicht auflösbare PMCIDs) bleiben
// als explizite Drops sichtbar statt stillschweigend zu verschwinden.
type CitationOutcome struct {
	Citation Citation `json:"citation"`
	Dropped  bool     `json:"dropped"`
	Reason   string   `json:"reason,omitempty"`
}

// VarCitation ist eine Roh-Zeile des Joins aus clinvar_hgvs und
// var_citations.
type VarCitation struct {
	CitationID     string `json:"citation_id" gorm:"column:citation_id"`
	CitationSource string `json:"citation_source" gorm:"column:citation_source"`
	RCVAccession   string `json:"rcv_accession" gorm:"column:RCVaccession"`
	HGVS           string `json:"hgvs" gorm:"column:HGVS"`
}

// CitationProvenance verknüpft eine aufgelöste Referenz mit ihrer
// HGVS-Variante und ClinVar-Accession, wenn der Aufrufer Herkunft statt
// einer flachen Menge braucht.
type CitationProvenance struct {
	HGVSText  string `json:"hgvs_text"`
	PMID      string `json:"pmid"`
	Accession string `json:"accession"`
}
