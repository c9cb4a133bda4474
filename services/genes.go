package services

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/text2gene/medgen/models"
	"github.com/text2gene/medgen/storage"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// geneCache memoisiert die teuren Referenz-Lookups eines GeneService.
// Die Tabellen sind innerhalb eines Prozesslaufs read-only, deshalb gibt es
// keine Eviction. Nach einem Refresh der Datenquelle ist Frische nicht
// garantiert. Der Mutex schützt den Cache, da der HTTP-Host die Services
// aus mehreren Goroutinen aufruft.
type geneCache struct {
	mu         sync.Mutex
	symbolByID map[int]string
	idBySymbol map[string]int
	pmidsByID  map[int][]string
}

func newGeneCache() *geneCache {
	return &geneCache{
		symbolByID: make(map[int]string),
		idBySymbol: make(map[string]int),
		pmidsByID:  make(map[int][]string),
	}
}

func (c *geneCache) getSymbol(id int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	symbol, ok := c.symbolByID[id]
	return symbol, ok
}

func (c *geneCache) getID(symbol string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.idBySymbol[symbol]
	return id, ok
}

func (c *geneCache) putPair(id int, symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbolByID[id] = symbol
	c.idBySymbol[strings.ToUpper(symbol)] = id
}

// getPMIDs gibt eine Kopie zurück; Aufrufer dürfen das Ergebnis nicht in
// den Cache hinein mutieren können.
func (c *geneCache) getPMIDs(id int) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pmids, ok := c.pmidsByID[id]
	if !ok {
		return nil, false
	}
	out := make([]string, len(pmids))
	copy(out, pmids)
	return out, true
}

func (c *geneCache) putPMIDs(id int, pmids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]string, len(pmids))
	copy(stored, pmids)
	c.pmidsByID[id] = stored
}

// GeneService löst Gene zwischen Entrez-GeneID und HGNC-Symbol auf und
// liefert Synonyme, OMIM-Verknüpfungen und ClinVar-Zusammenfassungen.
type GeneService struct {
	Gene    *storage.Store
	ClinVar *storage.Store
	Hugo    *storage.Store
	Logger  *zap.Logger
	cache   *geneCache
}

// NewGeneService erstellt eine neue Instanz des GeneService mit leerem Cache.
func NewGeneService(gene, clinvar, hugo *storage.Store, logger *zap.Logger) *GeneService {
	return &GeneService{Gene: gene, ClinVar: clinvar, Hugo: hugo, Logger: logger, cache: newGeneCache()}
}

// Resolve klassifiziert die Eingabe und löst die jeweils fehlende
// Darstellung sofort auf. Ein fehlgeschlagener Lookup ist ein Fehler beim
// Konstruieren, nicht später.
func (g *GeneService) Resolve(value string) (models.Gene, error) {
	id, err := ClassifyGene(value)
	if err != nil {
		return models.Gene{}, err
	}

	switch id.Kind {
	case models.KindGeneNumericID:
		geneID, _ := strconv.Atoi(id.Value)
		symbol, err := g.GeneName(geneID)
		if err != nil {
			return models.Gene{}, err
		}
		return models.Gene{ID: geneID, Symbol: symbol}, nil
	default:
		geneID, err := g.GeneID(id.Value)
		if err != nil {
			return models.Gene{}, err
		}
		// GeneID hat das gespeicherte Symbol gerade gecacht; die Eingabe
		// kann anders geschrieben sein.
		symbol := id.Value
		if canonical, ok := g.cache.getSymbol(geneID); ok {
			symbol = canonical
		}
		return models.Gene{ID: geneID, Symbol: symbol}, nil
	}
}

// GeneName liefert das HGNC-Symbol für eine Entrez-GeneID, gecacht.
func (g *GeneService) GeneName(geneID int) (string, error) {
	if symbol, ok := g.cache.getSymbol(geneID); ok {
		return symbol, nil
	}
	vals, err := g.Gene.FetchStrings(
		"select Symbol from gene_info where GeneID = ? limit 1", geneID)
	if err != nil {
		return "", err
	}
	if len(vals) == 0 {
		return "", errors.Wrapf(ErrLookup, "no symbol for gene id %d", geneID)
	}
	g.cache.putPair(geneID, vals[0])
	return vals[0], nil
}

// GeneID liefert die Entrez-GeneID für ein HGNC-Symbol, gecacht. Der
// Abgleich ignoriert Groß-/Kleinschreibung auf beiden Seiten: kanonische
// Symbole wie C1orf43 sind nicht durchgehend großgeschrieben, Postgres
// vergleicht Strings aber exakt. Gecacht wird das gespeicherte Symbol.
func (g *GeneService) GeneID(symbol string) (int, error) {
	upper := strings.ToUpper(symbol)
	if id, ok := g.cache.getID(upper); ok {
		return id, nil
	}
	var rows []models.GeneInfo
	if err := g.Gene.Select(&rows,
		"select GeneID, Symbol from gene_info where upper(Symbol) = ? limit 1", upper); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, errors.Wrapf(ErrLookup, "no gene id for symbol %s", symbol)
	}
	g.cache.putPair(rows[0].GeneID, rows[0].Symbol)
	return rows[0].GeneID, nil
}

// resolveID erzwingt die numerische Darstellung: Symbole werden erst
// aufgelöst.
func (g *GeneService) resolveID(value string) (int, error) {
	gene, err := g.Resolve(value)
	if err != nil {
		return 0, err
	}
	return gene.ID, nil
}

// synonymRows führt den fünfgliedrigen Synonym-Lookup aus: das Symbol als
// kanonisches Symbol, als alleinstehender, führender, schließender oder
// innerer Pipe-Token der Synonyms-Spalte, sowie als Nomen_symbol. Alle
// Varianten gehen als eine parametrisierte Abfrage raus.
func (g *GeneService) synonymRows(symbol string) ([]models.GeneInfo, error) {
	var rows []models.GeneInfo
	err := g.Gene.Select(&rows,
		"select Synonyms, Symbol, GeneID from gene_info where "+
			"Symbol = ? OR (Synonyms = ? or Synonyms like ? or Synonyms like ? or Synonyms like ?) OR Nomen_symbol = ?",
		symbol,
		symbol,
		"%|"+symbol,
		symbol+"|%",
		"%|"+symbol+"|%",
		symbol)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Closed-world-Annahme: jedes bekannte Gen hat mindestens sein
		// eigenes kanonisches Symbol als Synonym.
		return nil, errors.Wrapf(ErrLookup, "no synonym rows for gene %s", symbol)
	}
	return rows, nil
}

// Synonyms liefert alle Symbole, die dasselbe Gen bezeichnen, auch
// inoffizielle, als sortierte Menge. Das kanonische Symbol ist immer
// enthalten.
func (g *GeneService) Synonyms(symbol string) ([]string, error) {
	rows, err := g.synonymRows(symbol)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, row := range rows {
		set[row.Symbol] = struct{}{}
		for _, alias := range strings.Split(row.Synonyms, "|") {
			if alias = strings.TrimSpace(alias); alias != "" && alias != "-" {
				set[alias] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// PreferredSymbol liefert nur die kuratierten kanonischen Symbole aus dem
// Synonym-Lookup, als sortierte Menge.
func (g *GeneService) PreferredSymbol(symbol string) ([]string, error) {
	rows, err := g.synonymRows(symbol)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, row := range rows {
		set[row.Symbol] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// GenePubMedIDs liefert die PMIDs aller Artikel, die NCBI mit dem Gen
// verknüpft, gecacht je GeneID.
func (g *GeneService) GenePubMedIDs(value string) ([]string, error) {
	geneID, err := g.resolveID(value)
	if err != nil {
		return nil, err
	}
	if pmids, ok := g.cache.getPMIDs(geneID); ok {
		return pmids, nil
	}
	pmids, err := g.Gene.FetchStrings(
		"select PMID from gene2pubmed where GeneID = ?", geneID)
	if err != nil {
		return nil, err
	}
	g.cache.putPMIDs(geneID, pmids)
	return pmids, nil
}

// GeneMIM liefert die OMIM-Verknüpfungen eines Gens aus mim2gene_medgen.
func (g *GeneService) GeneMIM(value string) ([]models.GeneMIM, error) {
	geneID, err := g.resolveID(value)
	if err != nil {
		return nil, err
	}
	var rows []models.GeneMIM
	if err := g.Gene.Select(&rows,
		"select * from mim2gene_medgen where GeneID = ?", geneID); err != nil {
		return nil, err
	}
	return rows, nil
}

// GeneFunction liefert die Reference-into-Function-Einträge eines Gens:
// Freitext dazu, was das Gen tatsächlich tut.
func (g *GeneService) GeneFunction(value string) ([]models.GeneRIF, error) {
	geneID, err := g.resolveID(value)
	if err != nil {
		return nil, err
	}
	var rows []models.GeneRIF
	if err := g.Gene.Select(&rows,
		"select distinct pubmeds, GeneRIF from generifs_basic where GeneID = ?", geneID); err != nil {
		return nil, err
	}
	return rows, nil
}

// GeneConditions liefert die mit dem Gen verknüpften Erkrankungen aus dem
// ClinVar-Datensatz (spannt MedGen, ClinVar, GTR, OMIM und HPO).
func (g *GeneService) GeneConditions(value string) ([]models.GeneCondition, error) {
	geneID, err := g.resolveID(value)
	if err != nil {
		return nil, err
	}
	var rows []models.GeneCondition
	if err := g.ClinVar.Select(&rows,
		"select * from gene_condition_source_id where GeneID = ?", geneID); err != nil {
		return nil, err
	}
	return rows, nil
}

// LocusDatabases liefert die Locus-spezifischen Datenbanken eines Gens aus
// dem HUGO-Datensatz. Die Spalte hält CSV aus "Name|URL"-Paaren.
func (g *GeneService) LocusDatabases(value string) (*models.GeneLocus, error) {
	gene, err := g.Resolve(value)
	if err != nil {
		return nil, err
	}

	row, err := g.Hugo.FetchRow(
		"select LocusSpecificDatabases, GeneFamilyTag, pubmeds from hugo_info where Symbol = ?", gene.Symbol)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.Wrapf(ErrLookup, "no hugo record for gene %s", gene.Symbol)
	}

	locus := &models.GeneLocus{Gene: gene.Symbol, Databases: make(map[string]string)}
	if text, _ := row["LocusSpecificDatabases"].(string); text != "" {
		for _, entry := range strings.Split(text, ",") {
			if name, url, ok := strings.Cut(strings.TrimSpace(entry), "|"); ok {
				locus.Databases[name] = url
			}
		}
	}
	if text, _ := row["pubmeds"].(string); text != "" {
		for _, pmid := range strings.Split(text, ",") {
			if pmid = strings.TrimSpace(pmid); pmid != "" {
				locus.PubMeds = append(locus.PubMeds, pmid)
			}
		}
	}
	return locus, nil
}

// ClinicalSignificanceCounts zählt die ClinVar-Varianten eines Gens je
// klinischer Signifikanz, absteigend nach Häufigkeit.
func (g *GeneService) ClinicalSignificanceCounts(value string) ([]models.SignificanceCount, error) {
	geneID, err := g.resolveID(value)
	if err != nil {
		return nil, err
	}
	var rows []models.SignificanceCount
	if err := g.ClinVar.Select(&rows,
		"select ClinicalSignificance, count(*) as cnt_variants from variant_summary "+
			"where GeneID = ? group by ClinicalSignificance order by cnt_variants desc", geneID); err != nil {
		return nil, err
	}
	return rows, nil
}
