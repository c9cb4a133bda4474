package services

import (
	"regexp"
	"testing"

	"github.com/text2gene/medgen/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGeneService(t *testing.T) (*GeneService, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	t.Helper()
	gene, geneMock := newMockStore(t)
	clinvar, clinvarMock := newMockStore(t)
	hugo, _ := newMockStore(t)
	return NewGeneService(gene, clinvar, hugo, zap.NewNop()), geneMock, clinvarMock
}

const (
	idForSymbolQuery = `select GeneID, Symbol from gene_info where upper(Symbol) = $1 limit 1`
	symbolForIDQuery = `select Symbol from gene_info where GeneID = $1 limit 1`
)

func TestGeneResolve(t *testing.T) {
	t.Run("symbol to id and back round-trips", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(regexp.QuoteMeta(idForSymbolQuery)).
			WithArgs("BRCA2").
			WillReturnRows(sqlmock.NewRows([]string{"GeneID", "Symbol"}).AddRow("675", "BRCA2"))

		gene, err := svc.Resolve("BRCA2")
		require.NoError(t, err)
		assert.Equal(t, models.Gene{ID: 675, Symbol: "BRCA2"}, gene)

		// Die Rückrichtung kommt aus dem Cache, ohne weitere Abfrage.
		symbol, err := svc.GeneName(675)
		require.NoError(t, err)
		assert.Equal(t, "BRCA2", symbol)
		require.NoError(t, geneMock.ExpectationsWereMet())
	})

	t.Run("numeric input resolves the symbol", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(regexp.QuoteMeta(symbolForIDQuery)).
			WithArgs(675).
			WillReturnRows(sqlmock.NewRows([]string{"Symbol"}).AddRow("BRCA2"))

		gene, err := svc.Resolve("675")
		require.NoError(t, err)
		assert.Equal(t, models.Gene{ID: 675, Symbol: "BRCA2"}, gene)
	})

	t.Run("symbol matching is case-insensitive in SQL", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(regexp.QuoteMeta(idForSymbolQuery)).
			WithArgs("BRCA2").
			WillReturnRows(sqlmock.NewRows([]string{"GeneID", "Symbol"}).AddRow("675", "BRCA2"))

		id, err := svc.GeneID("brca2")
		require.NoError(t, err)
		assert.Equal(t, 675, id)
	})

	t.Run("mixed-case canonical symbols resolve and keep their stored casing", func(t *testing.T) {
		// gene_info-Symbole wie C1orf43 sind nicht durchgehend
		// großgeschrieben; die Abfrage normalisiert beide Seiten.
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(regexp.QuoteMeta(idForSymbolQuery)).
			WithArgs("C1ORF43").
			WillReturnRows(sqlmock.NewRows([]string{"GeneID", "Symbol"}).AddRow("25912", "C1orf43"))

		gene, err := svc.Resolve("C1orf43")
		require.NoError(t, err)
		assert.Equal(t, models.Gene{ID: 25912, Symbol: "C1orf43"}, gene)

		// Der Cache hält das gespeicherte Symbol, nicht die Großform.
		symbol, err := svc.GeneName(25912)
		require.NoError(t, err)
		assert.Equal(t, "C1orf43", symbol)
		require.NoError(t, geneMock.ExpectationsWereMet())
	})

	t.Run("unknown symbol fails with a lookup error", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(regexp.QuoteMeta(idForSymbolQuery)).
			WithArgs("NOSUCHGENE").
			WillReturnRows(sqlmock.NewRows([]string{"GeneID", "Symbol"}))

		_, err := svc.Resolve("NOSUCHGENE")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLookup))
	})
}

func TestGeneCache(t *testing.T) {
	svc, geneMock, _ := newGeneService(t)

	geneMock.ExpectQuery(regexp.QuoteMeta(idForSymbolQuery)).
		WithArgs("BRCA2").
		WillReturnRows(sqlmock.NewRows([]string{"GeneID", "Symbol"}).AddRow("675", "BRCA2"))

	for i := 0; i < 3; i++ {
		id, err := svc.GeneID("BRCA2")
		require.NoError(t, err)
		assert.Equal(t, 675, id)
	}
	require.NoError(t, geneMock.ExpectationsWereMet(), "repeated lookups must hit the cache")
}

func TestGeneSynonyms(t *testing.T) {
	synonymQuery := regexp.QuoteMeta("select Synonyms, Symbol, GeneID from gene_info where Symbol = $1")

	t.Run("includes the canonical symbol and all pipe tokens, sorted", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(synonymQuery).
			WithArgs("BRCA2", "BRCA2", "%|BRCA2", "BRCA2|%", "%|BRCA2|%", "BRCA2").
			WillReturnRows(sqlmock.NewRows([]string{"Synonyms", "Symbol", "GeneID"}).
				AddRow("FACD|FAD|FAD1|BRCC2", "BRCA2", "675"))

		synonyms, err := svc.Synonyms("BRCA2")
		require.NoError(t, err)
		assert.Equal(t, []string{"BRCA2", "BRCC2", "FACD", "FAD", "FAD1"}, synonyms)
		assert.Contains(t, synonyms, "BRCA2", "the canonical symbol is always a member")
	})

	t.Run("zero rows is a lookup error, not an empty result", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(synonymQuery).
			WillReturnRows(sqlmock.NewRows([]string{"Synonyms", "Symbol", "GeneID"}))

		_, err := svc.Synonyms("NOSUCHGENE")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLookup))
	})

	t.Run("preferred symbol restricts to the curated column", func(t *testing.T) {
		svc, geneMock, _ := newGeneService(t)

		geneMock.ExpectQuery(synonymQuery).
			WillReturnRows(sqlmock.NewRows([]string{"Synonyms", "Symbol", "GeneID"}).
				AddRow("FACD|FAD", "BRCA2", "675").
				AddRow("BRCC2", "BRCA2", "675"))

		preferred, err := svc.PreferredSymbol("FANCD1")
		require.NoError(t, err)
		assert.Equal(t, []string{"BRCA2"}, preferred)
	})
}

func TestGenePubMedIDs(t *testing.T) {
	svc, geneMock, _ := newGeneService(t)

	geneMock.ExpectQuery(regexp.QuoteMeta(symbolForIDQuery)).
		WithArgs(675).
		WillReturnRows(sqlmock.NewRows([]string{"Symbol"}).AddRow("BRCA2"))
	geneMock.ExpectQuery(regexp.QuoteMeta(`select PMID from gene2pubmed where GeneID = $1`)).
		WithArgs(675).
		WillReturnRows(sqlmock.NewRows([]string{"PMID"}).AddRow("20613862").AddRow("12030328"))

	pmids, err := svc.GenePubMedIDs("675")
	require.NoError(t, err)
	assert.Equal(t, []string{"20613862", "12030328"}, pmids)

	// Aufrufer-seitige Mutation darf den Cache nicht vergiften.
	pmids[0] = "tampered"

	// Zweiter Aufruf kommt vollständig aus dem Cache.
	again, err := svc.GenePubMedIDs("675")
	require.NoError(t, err)
	assert.Equal(t, []string{"20613862", "12030328"}, again)
	require.NoError(t, geneMock.ExpectationsWereMet())
}

func TestLocusDatabases(t *testing.T) {
	gene, geneMock := newMockStore(t)
	clinvar, _ := newMockStore(t)
	hugo, hugoMock := newMockStore(t)
	svc := NewGeneService(gene, clinvar, hugo, zap.NewNop())

	geneMock.ExpectQuery(regexp.QuoteMeta(idForSymbolQuery)).
		WithArgs("BRCA2").
		WillReturnRows(sqlmock.NewRows([]string{"GeneID", "Symbol"}).AddRow("675", "BRCA2"))
	hugoMock.ExpectQuery(regexp.QuoteMeta(`select LocusSpecificDatabases, GeneFamilyTag, pubmeds from hugo_info where Symbol = $1`)).
		WithArgs("BRCA2").
		WillReturnRows(sqlmock.NewRows([]string{"LocusSpecificDatabases", "GeneFamilyTag", "pubmeds"}).
			AddRow("Breast Cancer Information Core|https://research.nhgri.nih.gov/bic/, LOVD|https://databases.lovd.nl/shared/genes/BRCA2", "FANC", "10923033, 9126738"))

	locus, err := svc.LocusDatabases("BRCA2")
	require.NoError(t, err)
	assert.Equal(t, "BRCA2", locus.Gene)
	assert.Equal(t, "https://databases.lovd.nl/shared/genes/BRCA2", locus.Databases["LOVD"])
	assert.Equal(t, []string{"10923033", "9126738"}, locus.PubMeds)
}

func TestClinicalSignificanceCounts(t *testing.T) {
	svc, geneMock, clinvarMock := newGeneService(t)

	geneMock.ExpectQuery(regexp.QuoteMeta(symbolForIDQuery)).
		WithArgs(675).
		WillReturnRows(sqlmock.NewRows([]string{"Symbol"}).AddRow("BRCA2"))
	clinvarMock.ExpectQuery(regexp.QuoteMeta(`select ClinicalSignificance, count(*) as cnt_variants from variant_summary where GeneID = $1`)).
		WithArgs(675).
		WillReturnRows(sqlmock.NewRows([]string{"ClinicalSignificance", "cnt_variants"}).
			AddRow("Pathogenic", 420).
			AddRow("Uncertain significance", 300))

	counts, err := svc.ClinicalSignificanceCounts("675")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Pathogenic", counts[0].ClinicalSignificance)
	assert.Equal(t, 420, counts[0].VariantCount)
}
