package main

import (
	"log"
	"net/http"
	"time"

	"github.com/text2gene/medgen/config"
	"github.com/text2gene/medgen/models"
	"github.com/text2gene/medgen/providers/pubmedcentral"
	"github.com/text2gene/medgen/services"
	"github.com/text2gene/medgen/storage"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// respondServiceError bildet die Fehler-Taxonomie der Service-Schicht auf
// HTTP-Status ab.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLookup):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrConnection):
		logger.Error("Reference store unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reference store unreachable"})
	default:
		logger.Error("Unexpected service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Reference Stores (lazy, verbinden erst beim ersten Query)
	medgenStore := storage.NewStore(cfg.DSN(cfg.MedGenDB), logging.With(zap.String("dataset", cfg.MedGenDB)))
	geneStore := storage.NewStore(cfg.DSN(cfg.GeneDB), logging.With(zap.String("dataset", cfg.GeneDB)))
	clinvarStore := storage.NewStore(cfg.DSN(cfg.ClinVarDB), logging.With(zap.String("dataset", cfg.ClinVarDB)))
	hugoStore := storage.NewStore(cfg.DSN(cfg.HugoDB), logging.With(zap.String("dataset", cfg.HugoDB)))

	// Setup Services
	resolver := pubmedcentral.NewFetcher(cfg, logging)
	conceptService := services.NewConceptService(cfg, medgenStore, clinvarStore, logging)
	geneService := services.NewGeneService(geneStore, clinvarStore, hugoStore, logging)
	variantService := services.NewVariantService(clinvarStore, logging)
	citationService := services.NewCitationService(clinvarStore, resolver, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupGeneRoutes(router, geneService, logging)
	setupConceptRoutes(router, conceptService, logging)
	setupDiseaseRoutes(router, conceptService, logging)
	setupVariantRoutes(router, variantService, logging)
	setupCitationRoutes(router, citationService, logging)
	setupHealthRoutes(router, variantService)

	// Setup Cron: Versionsstempel des ClinVar-Datensatzes überwachen
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		version, err := variantService.Version()
		if err != nil {
			logging.Error("Dataset version probe failed", zap.Error(err))
			return
		}
		logging.Info("Dataset version probe", zap.String("clinvar_version", version))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupGeneRoutes(router *gin.Engine, svc *services.GeneService, log *zap.Logger) {
	rg := router.Group("/genes")

	rg.GET("/:gene", func(c *gin.Context) {
		gene, err := svc.Resolve(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gene)
	})

	rg.GET("/:gene/synonyms", func(c *gin.Context) {
		gene, err := svc.Resolve(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		synonyms, err := svc.Synonyms(gene.Symbol)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"gene": gene, "synonyms": synonyms})
	})

	rg.GET("/:gene/preferred", func(c *gin.Context) {
		gene, err := svc.Resolve(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		preferred, err := svc.PreferredSymbol(gene.Symbol)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"gene": gene, "preferred": preferred})
	})

	rg.GET("/:gene/pubmeds", func(c *gin.Context) {
		pmids, err := svc.GenePubMedIDs(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pmids": pmids})
	})

	rg.GET("/:gene/mim", func(c *gin.Context) {
		rows, err := svc.GeneMIM(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	rg.GET("/:gene/function", func(c *gin.Context) {
		rows, err := svc.GeneFunction(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	rg.GET("/:gene/conditions", func(c *gin.Context) {
		rows, err := svc.GeneConditions(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	rg.GET("/:gene/significance", func(c *gin.Context) {
		rows, err := svc.ClinicalSignificanceCounts(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	rg.GET("/:gene/locus-dbs", func(c *gin.Context) {
		locus, err := svc.LocusDatabases(c.Param("gene"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, locus)
	})
}

func setupConceptRoutes(router *gin.Engine, svc *services.ConceptService, log *zap.Logger) {
	rg := router.Group("/concepts")

	rg.GET("/:concept", func(c *gin.Context) {
		concept, err := svc.Resolve(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, concept)
	})

	rg.GET("/:concept/name", func(c *gin.Context) {
		name, err := svc.ConceptName(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		if name == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no name for concept"})
			return
		}
		c.JSON(http.StatusOK, name)
	})

	rg.GET("/:concept/definition", func(c *gin.Context) {
		def, err := svc.ConceptDefinition(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		// Definitionen sind optional; kein Eintrag ist ein leeres Objekt,
		// kein Fehler.
		if def == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, def)
	})

	rg.GET("/:concept/relations", func(c *gin.Context) {
		relations, err := svc.ConceptRelations(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, relations)
	})

	rg.GET("/:concept/sources", func(c *gin.Context) {
		sources, err := svc.ConceptSources(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sources": sources})
	})
}

func setupDiseaseRoutes(router *gin.Engine, svc *services.ConceptService, log *zap.Logger) {
	rg := router.Group("/diseases")

	rg.GET("/:concept/names", func(c *gin.Context) {
		names, err := svc.DiseaseName(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, names)
	})

	rg.GET("/:concept/parents", func(c *gin.Context) {
		parents, err := svc.DiseaseParents(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, parents)
	})

	rg.GET("/:concept/subtypes", func(c *gin.Context) {
		subtypes, err := svc.DiseaseSubtypes(c.Param("concept"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, subtypes)
	})
}

// setupVariantRoutes nimmt HGVS-Textlabels im Body entgegen; die Strings
// enthalten ':' und '>' und taugen nicht als Pfad-Parameter.
func setupVariantRoutes(router *gin.Engine, svc *services.VariantService, log *zap.Logger) {
	rg := router.Group("/variants")

	rg.POST("/accessions", func(c *gin.Context) {
		var req struct {
			HGVS     string `json:"hgvs" binding:"required"`
			IDColumn string `json:"id_column"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'hgvs' field is required."})
			return
		}
		column := models.IDColumn(req.IDColumn)
		if req.IDColumn == "" {
			column = models.ColumnVariationID
		}
		ids, err := svc.AccessionsForHGVS(req.HGVS, column)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"hgvs": req.HGVS, "ids": ids})
	})

	rg.GET("/:variation_id/hgvs", func(c *gin.Context) {
		labels, err := svc.HGVSForVariationID(c.Param("variation_id"))
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"hgvs": labels})
	})

	rg.POST("/summary", func(c *gin.Context) {
		var req struct {
			HGVSc string `json:"hgvs_c" binding:"required"`
			HGVSr string `json:"hgvs_r"`
			HGVSp string `json:"hgvs_p"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'hgvs_c' field is required."})
			return
		}
		rows, err := svc.VariantSummary(req.HGVSc, req.HGVSr, req.HGVSp)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	rg.POST("/consequences", func(c *gin.Context) {
		var req struct {
			HGVS string `json:"hgvs" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'hgvs' field is required."})
			return
		}
		rows, err := svc.MolecularConsequences(req.HGVS)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})
}

func setupCitationRoutes(router *gin.Engine, svc *services.CitationService, log *zap.Logger) {
	rg := router.Group("/citations")

	rg.POST("/query", func(c *gin.Context) {
		var req struct {
			HGVS []string `json:"hgvs" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'hgvs' list is required."})
			return
		}
		set, err := svc.CitationsForVariants(req.HGVS...)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"citations": set.Keys()})
	})

	rg.POST("/outcomes", func(c *gin.Context) {
		var req struct {
			HGVS []string `json:"hgvs" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'hgvs' list is required."})
			return
		}
		outcomes, err := svc.CitationOutcomes(req.HGVS...)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, outcomes)
	})

	rg.POST("/with-accessions", func(c *gin.Context) {
		var req struct {
			HGVS []string `json:"hgvs" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'hgvs' list is required."})
			return
		}
		rows, err := svc.CitationsWithAccessions(req.HGVS...)
		if err != nil {
			respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})
}

func setupHealthRoutes(router *gin.Engine, svc *services.VariantService) {
	router.GET("/health", func(c *gin.Context) {
		version, err := svc.Version()
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "degraded", "clinvar_version": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "clinvar_version": version})
	})
}
