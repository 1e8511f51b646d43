package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmgfi/tellcmg-api/internal/config"
	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
	"github.com/cmgfi/tellcmg-api/internal/core/usecase"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/export/xlsx"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/extractor"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/fetcher/web"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/llm/openrouter"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/mail/smtp"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/repository/postgres"
	"github.com/cmgfi/tellcmg-api/internal/infrastructure/store/localfs"
)

// App wires configuration into the use cases. Absent credentials degrade
// capabilities instead of failing startup: no OpenRouter key means the
// deterministic fallback generator, no SMTP credentials means submission
// reports "not configured".
type App struct {
	Config  config.Config
	Catalog *domain.Catalog

	StructureUC *usecase.StructureUseCase
	Interviewer *usecase.InterviewDialogue
	SubmitUC    *usecase.SubmitUseCase
	History     *usecase.HistoryUseCase
	Exporter    *xlsx.Exporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	catalog := domain.NewCatalog()

	historyStore, settingsStore, closeFn, err := buildStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	history := usecase.NewHistoryUseCase(historyStore, settingsStore)

	var generator ports.ChatGenerator
	if cfg.OpenRouterAPIKey != "" {
		guardCfg := openrouter.DefaultGuardConfig()
		guardCfg.RequestsPerSecond = cfg.LLMRequestsPerSecond
		guardCfg.Burst = cfg.LLMBurst
		generator = openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, openrouter.NewGuard(guardCfg))
	} else {
		slog.Warn("openrouter_key_missing", "effect", "deterministic fallback generation")
	}

	structureUC := usecase.NewStructureUseCase(
		usecase.NewPromptAssembler(catalog),
		usecase.NewFallbackGenerator(catalog),
		generator,
		extractor.New(),
		web.New(),
		history,
		ports.GenerationOptions{
			Model:       cfg.StructureModel,
			Temperature: cfg.StructureTemperature,
			MaxTokens:   cfg.StructureMaxTokens,
		},
	)

	interviewer := usecase.NewInterviewDialogue(generator, ports.GenerationOptions{
		Model:       cfg.InterviewModel,
		Temperature: cfg.InterviewTemperature,
		MaxTokens:   cfg.InterviewMaxTokens,
	})

	var sender ports.MailSender
	if cfg.SMTPUser != "" && cfg.SMTPPassword != "" {
		s, err := smtp.NewSender(smtp.Config{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPassword,
			Recipient: cfg.MailRecipient,
		})
		if err != nil {
			closeFn()
			return nil, fmt.Errorf("init mail sender: %w", err)
		}
		sender = s
	} else {
		slog.Warn("smtp_credentials_missing", "effect", "submission disabled")
	}
	submitUC := usecase.NewSubmitUseCase(sender, smtp.NewRenderer(), catalog)

	return &App{
		Config:  cfg,
		Catalog: catalog,

		StructureUC: structureUC,
		Interviewer: interviewer,
		SubmitUC:    submitUC,
		History:     history,
		Exporter:    xlsx.New(),

		closeFn: closeFn,
	}, nil
}

// buildStores selects the persistence backend: Postgres when a DSN is set,
// the JSON-file store otherwise.
func buildStores(ctx context.Context, cfg config.Config) (ports.HistoryStore, ports.SettingsStore, func(), error) {
	if cfg.PostgresDSN == "" {
		store, err := localfs.New(cfg.DataPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init local store: %w", err)
		}
		return store, store, func() {}, nil
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewHistoryRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, postgres.NewSettingsRepository(db), func() { _ = db.Close() }, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
