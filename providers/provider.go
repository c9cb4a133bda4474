package providers

// CitationResolver ist das Interface für die externe Auflösung von
// Literatur-IDs in alternative Formate (z.B. PMCID -> PMID).
type CitationResolver interface {
	// PMIDForPMCID löst eine PubMedCentral-ID in die kanonische PMID auf.
	// Gibt ("", nil) zurück, wenn keine Zuordnung existiert.
	PMIDForPMCID(pmcid string) (string, error)

	// Name gibt den eindeutigen Namen des Resolvers zurück (z.B. "pmc-idconv").
	Name() string
}
