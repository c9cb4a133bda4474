package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/text2gene/medgen/config"
	"github.com/text2gene/medgen/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sichert die Referenzdatenbanken (medgen, gene, clinvar, hugo) per pg_dump
// nach S3 und rotiert alte Stände. Die Datensätze werden periodisch neu
// geladen; der letzte bekannte gute Stand bleibt damit greifbar.
func main() {
	log.Println("Starte Backup-Prozess...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	s3Client, err := storage.NewS3Client(storage.S3Settings{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}

	stamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	for _, dataset := range []string{cfg.MedGenDB, cfg.GeneDB, cfg.ClinVarDB, cfg.HugoDB} {
		dumpData, err := createDump(cfg, dataset)
		if err != nil {
			log.Fatalf("Fehler beim Erstellen des Dumps für %s: %v", dataset, err)
		}

		key := fmt.Sprintf("%s/backup-%s.sql.gz", dataset, stamp)
		if _, err := storage.UploadFile(s3Client, storage.S3Settings{Endpoint: cfg.S3Endpoint}, cfg.S3BackupBucket, key, dumpData); err != nil {
			log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
		}
		log.Printf("Backup erfolgreich nach s3://%s/%s hochgeladen", cfg.S3BackupBucket, key)

		if err := rotateBackups(s3Client, cfg, dataset); err != nil {
			log.Fatalf("Fehler bei der Rotation alter Backups für %s: %v", dataset, err)
		}
	}

	log.Println("Backup-Prozess erfolgreich abgeschlossen.")
}

func createDump(cfg *config.Config, dataset string) ([]byte, error) {
	cmd := exec.Command("pg_dump",
		"-h", cfg.DBHost,
		"-p", fmt.Sprintf("%d", cfg.DBPort),
		"-U", cfg.DBUser,
		"-d", dataset,
		"-w", // Passwort wird über PGPASSWORD bereitgestellt
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.DBPassword))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := io.Copy(gzipWriter, stdout); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func rotateBackups(client *s3.Client, cfg *config.Config, dataset string) error {
	output, err := client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(cfg.S3BackupBucket),
		Prefix: aws.String(dataset + "/"),
	})
	if err != nil {
		return err
	}

	if len(output.Contents) <= cfg.BackupKeep {
		log.Printf("Weniger als %d Backups für %s vorhanden, keine Rotation nötig.", cfg.BackupKeep, dataset)
		return nil
	}

	sort.Slice(output.Contents, func(i, j int) bool {
		return output.Contents[i].LastModified.After(*output.Contents[j].LastModified)
	})

	for _, obj := range output.Contents[cfg.BackupKeep:] {
		if !strings.HasSuffix(*obj.Key, ".sql.gz") {
			continue
		}
		log.Printf("Lösche altes Backup: %s", *obj.Key)
		_, err := client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.S3BackupBucket),
			Key:    obj.Key,
		})
		if err != nil {
			log.Printf("Fehler beim Löschen von %s: %v", *obj.Key, err)
		}
	}

	return nil
}
