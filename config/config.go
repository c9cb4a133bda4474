package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`

	// Datensatz-Namen der einzelnen Referenzdatenbanken
	MedGenDB  string `envconfig:"MEDGEN_DB" default:"medgen"`
	GeneDB    string `envconfig:"GENE_DB" default:"gene"`
	ClinVarDB string `envconfig:"CLINVAR_DB" default:"clinvar"`
	HugoDB    string `envconfig:"HUGO_DB" default:"hugo"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// NCBI ID-Converter für die PMCID->PMID-Auflösung
	IDConverterBaseURL string `envconfig:"IDCONV_BASE_URL" default:"https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0"`
	NCBIAPIKey         string `envconfig:"NCBI_API_KEY"`
	NCBITool           string `envconfig:"NCBI_TOOL" default:"medgen-annotator"`
	NCBIEmail          string `envconfig:"NCBI_EMAIL"`

	// Linkout-Basis für MedGen-Konzepte
	MedGenURLBase string `envconfig:"MEDGEN_URL_BASE" default:"https://www.ncbi.nlm.nih.gov/medgen/"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 6 * * *"`

	// S3-Ziel für die Datenbank-Backups (cmd/backup)
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3Region       string `envconfig:"S3_REGION" default:"auto"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
	S3BackupBucket string `envconfig:"S3_BACKUP_BUCKET" default:"medgen-backups"`
	BackupKeep     int    `envconfig:"BACKUP_KEEP" default:"14"`
}

// DSN gibt den Data Source Name für eine der Referenzdatenbanken zurück.
func (c *Config) DSN(dataset string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, dataset, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
