package services

import (
	"fmt"

	"github.com/text2gene/medgen/models"
	"github.com/text2gene/medgen/storage"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// VariantService löst HGVS-Textlabels in ClinVar-Identifier auf und liefert
// Varianten-Zusammenfassungen. HGVS-Strings werden nie geparst, nur als
// exakte Schlüssel verglichen.
type VariantService struct {
	ClinVar *storage.Store
	Logger  *zap.Logger
}

// NewVariantService erstellt eine neue Instanz des VariantService.
func NewVariantService(clinvar *storage.Store, logger *zap.Logger) *VariantService {
	return &VariantService{ClinVar: clinvar, Logger: logger}
}

// AccessionsForHGVS liefert alle distinct Identifier der angeforderten
// Spalte für ein HGVS-Textlabel. Mehrere Treffer sind möglich und erwartet
// (ein HGVS-Text kann auf mehrere ClinVar-Einträge zeigen, etwa
// Haplotypen); Aufrufer behandeln das Ergebnis als Menge.
//
// Der Spaltenname wird gegen die feste Aufzählung geprüft, bevor er in die
// Abfrage gelangt.
func (v *VariantService) AccessionsForHGVS(hgvsText string, column models.IDColumn) ([]models.Identifier, error) {
	if !column.Valid() {
		return nil, errors.Wrapf(ErrFormat, "id column %q", string(column))
	}

	vals, err := v.ClinVar.FetchStrings(
		fmt.Sprintf("select distinct %s as ID from clinvar_hgvs where HGVS = ?", column), hgvsText)
	if err != nil {
		return nil, err
	}

	ids := make([]models.Identifier, 0, len(vals))
	for _, val := range vals {
		ids = append(ids, models.Identifier{Kind: models.KindForColumn(column), Value: val})
	}
	return ids, nil
}

// HGVSForVariationID ist der inverse Lookup: alle HGVS-Textlabels einer
// ClinVar-VariationID.
func (v *VariantService) HGVSForVariationID(variationID string) ([]string, error) {
	return v.ClinVar.FetchStrings(
		"select distinct HGVS from clinvar_hgvs where VariationID = ?", variationID)
}

// VariantSummary liefert den variant_summary-Auszug für die angegebenen
// HGVS-Synonyme (c.DNA, r.RNA, p.Protein). Der NCBI-bevorzugte Schlüssel
// ist die VariationID; wo möglich die verwenden.
func (v *VariantService) VariantSummary(hgvsC, hgvsR, hgvsP string) ([]models.VariantSummary, error) {
	var rows []models.VariantSummary
	err := v.ClinVar.Select(&rows,
		"select distinct TestedInGTR, HGVS_c, HGVS_p, variant_name, GeneID, Symbol, "+
			"variant_type, ClinicalSignificance, PhenotypeIDs, AlleleID, dbvar_nsv, rs, NumberSubmitters "+
			"from variant_summary where HGVS_c = ? or HGVS_c = ? or HGVS_p = ?",
		hgvsC, hgvsR, hgvsP)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MolecularConsequences liefert die Sequence-Ontology-Konsequenzen einer
// Variante. Nicht jede ClinVar-Variante hat bekannte Konsequenzen; eine
// leere Liste ist kein Fehler.
func (v *VariantService) MolecularConsequences(hgvsText string) ([]models.MolecularConsequence, error) {
	var rows []models.MolecularConsequence
	if err := v.ClinVar.Select(&rows,
		"select HGVS, SequenceOntologyID, Consequence from molecular_consequences where HGVS = ?",
		hgvsText); err != nil {
		return nil, err
	}
	return rows, nil
}

// Version liefert den Versionsstempel des geladenen ClinVar-Datensatzes,
// oder "" wenn version_info leer ist.
func (v *VariantService) Version() (string, error) {
	vals, err := v.ClinVar.FetchStrings(
		"select version from version_info order by last_loaded desc limit 1")
	if err != nil {
		return "", err
	}
	if len(vals) == 0 {
		v.Logger.Debug("No version numbers found for ClinVar")
		return "", nil
	}
	return vals[0], nil
}
