package services

import (
	"regexp"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeResolver beantwortet PMCID-Konvertierungen aus einer festen Tabelle.
type fakeResolver struct {
	pmidByPMCID map[string]string
	err         error
	calls       []string
}

func (f *fakeResolver) PMIDForPMCID(pmcid string) (string, error) {
	f.calls = append(f.calls, pmcid)
	if f.err != nil {
		return "", f.err
	}
	return f.pmidByPMCID[pmcid], nil
}

func (f *fakeResolver) Name() string { return "fake" }

func newCitationService(t *testing.T, resolver *fakeResolver) (*CitationService, sqlmock.Sqlmock) {
	t.Helper()
	clinvar, clinvarMock := newMockStore(t)
	return NewCitationService(clinvar, resolver, zap.NewNop()), clinvarMock
}

var citationColumns = []string{"citation_id", "citation_source", "RCVaccession", "HGVS"}

const (
	hgvsCasq2      = "NM_001232.3:c.919G>C"
	varCitationSQL = `select C.citation_id, C.citation_source, H.RCVaccession, H.HGVS from clinvar_hgvs H, var_citations C where H.VariationID = C.VariationID and (H.HGVS = $1)`
)

func TestCitationsForVariants(t *testing.T) {
	t.Run("direct pubmed rows are kept verbatim", func(t *testing.T) {
		svc, clinvarMock := newCitationService(t, &fakeResolver{})

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WithArgs(hgvsCasq2).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("20613862", "PubMed", "RCV000019176", hgvsCasq2).
				AddRow("12030328", "PubMed", "RCV000019176", hgvsCasq2))

		set, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"20613862", "12030328"}, set.Keys())
	})

	t.Run("book ids are kept verbatim and never sent to the resolver", func(t *testing.T) {
		resolver := &fakeResolver{}
		svc, clinvarMock := newCitationService(t, resolver)

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("NBK1440", "GeneReviews", "RCV000019176", hgvsCasq2))

		set, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"NBK1440"}, set.Keys())
		assert.Empty(t, resolver.calls, "book references are terminal")
	})

	t.Run("a resolvable PMC row yields exactly one PMID", func(t *testing.T) {
		resolver := &fakeResolver{pmidByPMCID: map[string]string{"PMC3539452": "23193287"}}
		svc, clinvarMock := newCitationService(t, resolver)

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("PMC3539452", "PubMedCentral", "RCV000019176", hgvsCasq2))

		set, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"23193287"}, set.Keys())
		assert.Equal(t, []string{"PMC3539452"}, resolver.calls)
	})

	t.Run("a failed PMC resolution drops the row without an error", func(t *testing.T) {
		resolver := &fakeResolver{err: errors.New("converter down")}
		svc, clinvarMock := newCitationService(t, resolver)

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("PMC3539452", "PubMedCentral", "RCV000019176", hgvsCasq2).
				AddRow("20613862", "PubMed", "RCV000019176", hgvsCasq2))

		set, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err, "one bad citation must not abort the aggregation")
		assert.ElementsMatch(t, []string{"20613862"}, set.Keys())
	})

	t.Run("deduplication collapses a direct and a resolved row to one entry", func(t *testing.T) {
		resolver := &fakeResolver{pmidByPMCID: map[string]string{"PMC3539452": "20613862"}}
		svc, clinvarMock := newCitationService(t, resolver)

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("20613862", "PubMed", "RCV000019176", hgvsCasq2).
				AddRow("PMC3539452", "PubMedCentral", "RCV000019176", hgvsCasq2))

		set, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err)
		assert.Equal(t, []string{"20613862"}, set.Keys())
	})

	t.Run("is idempotent across calls", func(t *testing.T) {
		resolver := &fakeResolver{pmidByPMCID: map[string]string{"PMC3539452": "23193287"}}
		svc, clinvarMock := newCitationService(t, resolver)

		for i := 0; i < 2; i++ {
			clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
				WillReturnRows(sqlmock.NewRows(citationColumns).
					AddRow("PMC3539452", "PubMedCentral", "RCV000019176", hgvsCasq2).
					AddRow("NBK1440", "GeneReviews", "RCV000019176", hgvsCasq2))
		}

		first, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err)
		second, err := svc.CitationsForVariants(hgvsCasq2)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("a batch of hgvs labels goes out as one OR query", func(t *testing.T) {
		svc, clinvarMock := newCitationService(t, &fakeResolver{})

		clinvarMock.ExpectQuery(regexp.QuoteMeta(`(H.HGVS = $1 or H.HGVS = $2)`)).
			WithArgs(hgvsCasq2, "NM_000530.6:c.233C>A").
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("20613862", "PubMed", "RCV000019176", hgvsCasq2).
				AddRow("20531441", "PubMed", "RCV000077866", "NM_000530.6:c.233C>A"))

		set, err := svc.CitationsForVariants(hgvsCasq2, "NM_000530.6:c.233C>A")
		require.NoError(t, err)
		assert.Len(t, set, 2)
		require.NoError(t, clinvarMock.ExpectationsWereMet())
	})

	t.Run("no hgvs labels means no query and an empty set", func(t *testing.T) {
		svc, clinvarMock := newCitationService(t, &fakeResolver{})

		set, err := svc.CitationsForVariants()
		require.NoError(t, err)
		assert.Empty(t, set)
		require.NoError(t, clinvarMock.ExpectationsWereMet())
	})
}

func TestCitationOutcomes(t *testing.T) {
	t.Run("drops are explicit, not silent", func(t *testing.T) {
		resolver := &fakeResolver{}
		svc, clinvarMock := newCitationService(t, resolver)

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("PMC9999999", "PubMedCentral", "RCV000019176", hgvsCasq2).
				AddRow("20613862", "PubMed", "RCV000019176", hgvsCasq2))

		outcomes, err := svc.CitationOutcomes(hgvsCasq2)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		assert.True(t, outcomes[0].Dropped)
		assert.Equal(t, "no pmid for pmcid", outcomes[0].Reason)
		assert.False(t, outcomes[1].Dropped)
	})

	t.Run("rows of unknown format are dropped", func(t *testing.T) {
		svc, clinvarMock := newCitationService(t, &fakeResolver{})

		clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
			WillReturnRows(sqlmock.NewRows(citationColumns).
				AddRow("some-doi", "CrossRef", "RCV000019176", hgvsCasq2))

		outcomes, err := svc.CitationOutcomes(hgvsCasq2)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		assert.True(t, outcomes[0].Dropped)
	})
}

func TestCitationsWithAccessions(t *testing.T) {
	resolver := &fakeResolver{pmidByPMCID: map[string]string{"PMC3539452": "23193287"}}
	svc, clinvarMock := newCitationService(t, resolver)

	clinvarMock.ExpectQuery(regexp.QuoteMeta(varCitationSQL)).
		WillReturnRows(sqlmock.NewRows(citationColumns).
			AddRow("20613862", "PubMed", "RCV000019176", hgvsCasq2).
			AddRow("PMC3539452", "PubMedCentral", "RCV000019176", hgvsCasq2).
			AddRow("NBK1440", "GeneReviews", "RCV000019176", hgvsCasq2))

	rows, err := svc.CitationsWithAccessions(hgvsCasq2)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, hgvsCasq2, row.HGVSText)
		assert.Equal(t, "RCV000019176", row.Accession)
	}
	assert.Equal(t, "23193287", rows[1].PMID, "the PMC row carries its resolved PMID")
	assert.Equal(t, "NBK1440", rows[2].PMID, "book rows keep the raw id")
}
