package pubmedcentral

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/text2gene/medgen/config"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Fetcher kapselt die Logik zur Interaktion mit dem NCBI PMC ID Converter.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Fetcher für den ID Converter.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name liefert den Bezeichner des Providers für Logging und Metriken.
func (f *Fetcher) Name() string {
	return "pmc-idconv"
}

// PMIDForPMCID löst eine PubMedCentral-ID in die kanonische PMID auf.
// Liefert ("", nil), wenn der Converter keine Zuordnung kennt.
func (f *Fetcher) PMIDForPMCID(pmcid string) (string, error) {
	convURL := fmt.Sprintf("%s/?ids=%s&format=json&tool=%s&email=%s",
		f.Config.IDConverterBaseURL, url.QueryEscape(pmcid),
		url.QueryEscape(f.Config.NCBITool), url.QueryEscape(f.Config.NCBIEmail))
	if f.Config.NCBIAPIKey != "" {
		convURL += "&api_key=" + url.QueryEscape(f.Config.NCBIAPIKey)
	}
	f.Logger.Debug("Rufe ID Converter URL auf", zap.String("pmcid", pmcid))

	resp, err := httpClient.Get(convURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ID Converter antwortet mit Status %d für %s", resp.StatusCode, pmcid)
	}

	var convResponse IDConvResponse
	if err := json.NewDecoder(resp.Body).Decode(&convResponse); err != nil {
		return "", err
	}

	if len(convResponse.Records) > 0 && convResponse.Records[0].PMID != "" {
		return convResponse.Records[0].PMID, nil
	}
	return "", nil // Kein Fehler, aber auch keine PMID
}
