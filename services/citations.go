package services

import (
	"regexp"
	"strings"

	"github.com/text2gene/medgen/models"
	"github.com/text2gene/medgen/providers"
	"github.com/text2gene/medgen/storage"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Lexikalische Muster für die Format-Klassifikation der citation_id.
var (
	bookIDPattern = regexp.MustCompile(`^NBK\d+`)
	pmcidPattern  = regexp.MustCompile(`^PMC\d+$`)
)

var (
	citationsKeptCounter    prometheus.Counter
	citationsDroppedCounter prometheus.Counter
)

func init() {
	citationsKeptCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "variant_citations_kept_total",
			Help: "Total number of variant citations kept in aggregation results.",
		},
	)
	citationsDroppedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "variant_citations_dropped_total",
			Help: "Total number of variant citations dropped during aggregation.",
		},
	)
	prometheus.MustRegister(citationsKeptCounter, citationsDroppedCounter)
}

// CitationService sammelt Literatur-Referenzen zu Varianten aus ClinVar.
// GeneReviews-Buchreferenzen (NBKxxxx) bleiben unverändert erhalten.
//
// EIN TEURER LOOKUP HIER: ist die citation_source PubMedCentral, wird die
// PMCID erst über den externen Resolver in eine PMID konvertiert. Dieser
// Aufruf passiert nie für Zeilen, die bereits als PubMed oder Buch
// klassifiziert sind.
type CitationService struct {
	ClinVar  *storage.Store
	Resolver providers.CitationResolver
	Logger   *zap.Logger
}

// NewCitationService erstellt eine neue Instanz des CitationService.
func NewCitationService(clinvar *storage.Store, resolver providers.CitationResolver, logger *zap.Logger) *CitationService {
	return &CitationService{ClinVar: clinvar, Resolver: resolver, Logger: logger}
}

// varCitations holt die Roh-Zitierungszeilen für eine Menge von
// HGVS-Textlabels. Die Labels werden per OR in einer Abfrage kombiniert,
// nicht als N Einzelabfragen.
func (c *CitationService) varCitations(hgvsTexts []string) ([]models.VarCitation, error) {
	if len(hgvsTexts) == 0 {
		return nil, nil
	}

	clauses := make([]string, len(hgvsTexts))
	args := make([]any, len(hgvsTexts))
	for i, hgvs := range hgvsTexts {
		clauses[i] = "H.HGVS = ?"
		args[i] = hgvs
	}

	var rows []models.VarCitation
	err := c.ClinVar.Select(&rows,
		"select C.citation_id, C.citation_source, H.RCVaccession, H.HGVS "+
			"from clinvar_hgvs H, var_citations C "+
			"where H.VariationID = C.VariationID and ("+strings.Join(clauses, " or ")+")",
		args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// classify ordnet eine Roh-Zeile einer Citation samt Behalten/Verwerfen-
// Entscheidung zu. Ein Resolver-Fehler verwirft nur die betroffene Zeile;
// er bricht nie die gesamte Aggregation ab.
func (c *CitationService) classify(row models.VarCitation) models.CitationOutcome {
	switch {
	case bookIDPattern.MatchString(row.CitationID):
		// Buchreferenzen sind terminal, nicht weiter auflösbar.
		return models.CitationOutcome{
			Citation: models.Citation{RawID: row.CitationID, Source: models.SourceBook},
		}

	case pmcidPattern.MatchString(row.CitationID):
		pmid, err := c.Resolver.PMIDForPMCID(row.CitationID)
		if err != nil {
			c.Logger.Debug("Fehler beim Konvertieren der PMCID",
				zap.String("pmcid", row.CitationID), zap.Error(err))
			return models.CitationOutcome{
				Citation: models.Citation{RawID: row.CitationID, Source: models.SourcePubMedCentral},
				Dropped:  true,
				Reason:   "pmcid conversion failed",
			}
		}
		if pmid == "" {
			c.Logger.Debug("Keine PMID für PMCID gefunden, Zeile wird verworfen",
				zap.String("pmcid", row.CitationID))
			return models.CitationOutcome{
				Citation: models.Citation{RawID: row.CitationID, Source: models.SourcePubMedCentral},
				Dropped:  true,
				Reason:   "no pmid for pmcid",
			}
		}
		c.Logger.Debug("PMCID zu PMID konvertiert",
			zap.String("pmcid", row.CitationID), zap.String("pmid", pmid))
		return models.CitationOutcome{
			Citation: models.Citation{
				RawID:        row.CitationID,
				Source:       models.SourcePubMedCentral,
				ResolvedPMID: pmid,
			},
		}

	case row.CitationSource == string(models.SourcePubMed):
		return models.CitationOutcome{
			Citation: models.Citation{RawID: row.CitationID, Source: models.SourcePubMed},
		}

	default:
		return models.CitationOutcome{
			Citation: models.Citation{RawID: row.CitationID, Source: models.SourceOther},
			Dropped:  true,
			Reason:   "unrecognized citation format",
		}
	}
}

// CitationOutcomes liefert die Behalten/Verwerfen-Entscheidung je Roh-Zeile.
// Drops sind hier beobachtbar, bevor die flache Menge gebaut wird.
func (c *CitationService) CitationOutcomes(hgvsTexts ...string) ([]models.CitationOutcome, error) {
	rows, err := c.varCitations(hgvsTexts)
	if err != nil {
		return nil, err
	}

	outcomes := make([]models.CitationOutcome, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, c.classify(row))
	}
	return outcomes, nil
}

// CitationsForVariants sammelt die deduplizierte Menge der Referenzen für
// eine oder mehrere Varianten. Nicht auflösbare PMCIDs fehlen in der Menge
// (geloggt, kein Fehler); der Rest der Menge wird trotzdem geliefert.
func (c *CitationService) CitationsForVariants(hgvsTexts ...string) (models.CitationSet, error) {
	outcomes, err := c.CitationOutcomes(hgvsTexts...)
	if err != nil {
		return nil, err
	}

	set := make(models.CitationSet)
	for _, outcome := range outcomes {
		if outcome.Dropped {
			citationsDroppedCounter.Inc()
			continue
		}
		citationsKeptCounter.Inc()
		set.Add(outcome.Citation)
	}
	return set, nil
}

// CitationsWithAccessions liefert je Roh-Zeile das Tripel aus HGVS-Text,
// PMID und RCV-Accession, wenn der Aufrufer Herkunft statt einer flachen
// Menge braucht. Verworfene Zeilen fehlen auch hier.
func (c *CitationService) CitationsWithAccessions(hgvsTexts ...string) ([]models.CitationProvenance, error) {
	rows, err := c.varCitations(hgvsTexts)
	if err != nil {
		return nil, err
	}

	out := make([]models.CitationProvenance, 0, len(rows))
	for _, row := range rows {
		outcome := c.classify(row)
		if outcome.Dropped {
			continue
		}
		out = append(out, models.CitationProvenance{
			HGVSText:  row.HGVS,
			PMID:      outcome.Citation.Key(),
			Accession: row.RCVAccession,
		})
	}
	return out, nil
}
