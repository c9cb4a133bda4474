package services

import (
	"strconv"

	"github.com/text2gene/medgen/config"
	"github.com/text2gene/medgen/models"
	"github.com/text2gene/medgen/storage"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ConceptService löst MedGen-Konzepte auf und liefert Namen, Definitionen
// und Beziehungen. Krankheitsnamen kommen aus dem ClinVar-Datensatz, der
// Rest aus MedGen.
type ConceptService struct {
	Config  *config.Config
	MedGen  *storage.Store
	ClinVar *storage.Store
	Logger  *zap.Logger
}

// NewConceptService erstellt eine neue Instanz des ConceptService.
func NewConceptService(cfg *config.Config, medgen, clinvar *storage.Store, logger *zap.Logger) *ConceptService {
	return &ConceptService{Config: cfg, MedGen: medgen, ClinVar: clinvar, Logger: logger}
}

// Resolve klassifiziert die Eingabe und löst die jeweils fehlende
// Darstellung über view_medgen_uid auf. Beide Richtungen liefern dasselbe
// kanonische Paar.
func (c *ConceptService) Resolve(value string) (models.Concept, error) {
	id, err := ClassifyConcept(value)
	if err != nil {
		return models.Concept{}, err
	}

	switch id.Kind {
	case models.KindConceptCUI:
		uid, err := c.uidForCUI(id.Value)
		if err != nil {
			return models.Concept{}, err
		}
		return models.Concept{CUI: id.Value, UID: uid}, nil
	default:
		cui, err := c.cuiForUID(id.Value)
		if err != nil {
			return models.Concept{}, err
		}
		uid, _ := strconv.Atoi(id.Value)
		return models.Concept{CUI: cui, UID: uid}, nil
	}
}

func (c *ConceptService) uidForCUI(cui string) (int, error) {
	vals, err := c.MedGen.FetchStrings(
		"select MedGenUID from view_medgen_uid where ConceptID = ?", cui)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, errors.Wrapf(ErrLookup, "no MedGen UID for CUI %s", cui)
	}
	uid, err := strconv.Atoi(vals[0])
	if err != nil {
		return 0, errors.Wrapf(err, "non-numeric MedGen UID %q for CUI %s", vals[0], cui)
	}
	return uid, nil
}

func (c *ConceptService) cuiForUID(uid string) (string, error) {
	vals, err := c.MedGen.FetchStrings(
		"select ConceptID from view_medgen_uid where MedGenUID = ?", uid)
	if err != nil {
		return "", err
	}
	if len(vals) == 0 {
		return "", errors.Wrapf(ErrLookup, "no CUI for MedGen UID %s", uid)
	}
	return vals[0], nil
}

// canonicalCUI erzwingt die CUI-Darstellung: UIDs werden erst aufgelöst.
func (c *ConceptService) canonicalCUI(value string) (string, error) {
	id, err := ClassifyConcept(value)
	if err != nil {
		return "", err
	}
	if id.Kind == models.KindConceptCUI {
		return id.Value, nil
	}
	return c.cuiForUID(id.Value)
}

// ConceptURL baut den Linkout auf die NCBI-MedGen-Website.
func (c *ConceptService) ConceptURL(cui string) string {
	return c.Config.MedGenURLBase + cui
}

// ConceptName liefert den bevorzugten Namen eines Konzepts. NCBI bevorzugt
// GTR/ClinVar-Namen, dann SNOMED-CT, dann MeSH; die NAMES-Tabelle ist
// entsprechend vorsortiert. Gibt nil zurück, wenn kein Eintrag existiert.
func (c *ConceptService) ConceptName(value string) (*models.ConceptName, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	var rows []models.ConceptName
	if err := c.MedGen.Select(&rows,
		"select CUI, name, source, SUPPRESS from NAMES where CUI = ? limit 1", cui); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ConceptDefinition liefert die Definition eines Konzepts samt Linkout-URL.
// Nicht jedes Konzept hat eine Definition; Abwesenheit ist kein Fehler,
// sondern erwartet und häufig.
func (c *ConceptService) ConceptDefinition(value string) (*models.ConceptDefinition, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	var rows []models.ConceptDefinition
	if err := c.MedGen.Select(&rows,
		"select CUI, DEF, SAB, SUPPRESS from MGDEF where CUI = ? limit 1", cui); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	def := rows[0]
	def.URL = c.ConceptURL(cui)
	return &def, nil
}

// ConceptRelations liefert alle Zeilen der symmetrischen MGREL-Tabelle, in
// denen das Konzept auf einer der beiden Seiten steht. Es wird bewusst nicht
// dedupliziert: dieselbe Beziehung erscheint aus beiden Richtungen mit
// unterschiedlichem REL-Typ.
func (c *ConceptService) ConceptRelations(value string) ([]models.ConceptRelation, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	var rows []models.ConceptRelation
	if err := c.MedGen.Select(&rows,
		"select CUI1, REL, CUI2, RELA, SAB, SUPPRESS from MGREL where CUI1 = ? or CUI2 = ?",
		cui, cui); err != nil {
		return nil, err
	}
	return rows, nil
}

// ConceptSources liefert die Namen der Quellvokabulare, in denen das
// Konzept vorkommt.
func (c *ConceptService) ConceptSources(value string) ([]string, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	return c.MedGen.FetchStrings(
		"select distinct SourceVocab from view_concept where ConceptID = ?", cui)
}

// DiseaseName liefert die Standard-Krankheitsnamen für ein Konzept aus dem
// ClinVar-Datensatz.
func (c *ConceptService) DiseaseName(value string) ([]models.DiseaseName, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	var rows []models.DiseaseName
	if err := c.ClinVar.Select(&rows,
		"select * from disease_names where ConceptID = ?", cui); err != nil {
		return nil, err
	}
	return rows, nil
}

// DiseaseSubtypes liefert die engeren IS-A-Verwandten einer Erkrankung in
// der MedGen-Hierarchie.
func (c *ConceptService) DiseaseSubtypes(value string) ([]models.DiseaseTerm, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	var rows []models.DiseaseTerm
	if err := c.MedGen.Select(&rows,
		"select distinct SubtypeID as DiseaseID, SubtypeName as DiseaseName, SubtypeSource as DiseaseSource "+
			"from view_disease_subtype where DiseaseID = ?", cui); err != nil {
		return nil, err
	}
	return rows, nil
}

// DiseaseParents liefert die allgemeineren Fassungen einer Erkrankung.
func (c *ConceptService) DiseaseParents(value string) ([]models.DiseaseTerm, error) {
	cui, err := c.canonicalCUI(value)
	if err != nil {
		return nil, err
	}
	var rows []models.DiseaseTerm
	if err := c.MedGen.Select(&rows,
		"select distinct DiseaseID, DiseaseName, DiseaseSource from view_disease_subtype where SubtypeID = ?",
		cui); err != nil {
		return nil, err
	}
	return rows, nil
}
