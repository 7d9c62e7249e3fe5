package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/voicebridge/sahaya/internal/api"
	"github.com/voicebridge/sahaya/internal/catalog"
	"github.com/voicebridge/sahaya/internal/clips"
	"github.com/voicebridge/sahaya/internal/config"
	"github.com/voicebridge/sahaya/internal/dispatch"
	"github.com/voicebridge/sahaya/internal/explain"
	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/notify"
	"github.com/voicebridge/sahaya/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	// Safe defaults until the configuration is loaded.
	xlog.Configure(xlog.Config{
		Level:   "info",
		Service: "sahaya",
		Version: version.Version,
	})
	logger := xlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xlog.FieldEvent, "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	xlog.Configure(xlog.Config{
		Level:   cfg.LogLevel,
		Service: "sahaya",
		Version: version.Version,
	})
	logger.Info().
		Str(xlog.FieldEvent, "config.loaded").
		Str("base_url", cfg.BaseURL).
		Str("catalog_source", cfg.CatalogSource).
		Str("notify_sender", cfg.NotifySender).
		Msg("configuration loaded")

	// Runtime settings: the call provider selection is read fresh from this
	// file on every dispatch, so an operator can flip carriers mid-campaign.
	runtime := config.NewRuntime(cfg.RuntimePath, map[string]string{
		config.KeyCallProvider: cfg.Provider,
	})
	if err := runtime.StartWatcher(ctx); err != nil {
		logger.Warn().Err(err).Msg("runtime settings watcher unavailable, reads still work")
	}
	defer runtime.Stop()

	// AWS-backed collaborators share one SDK configuration. A load failure
	// degrades them to their built-in fallbacks instead of aborting startup.
	awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if awsErr != nil {
		logger.Warn().Err(awsErr).Msg("AWS configuration unavailable, AWS collaborators disabled")
	}

	var store catalog.Store = catalog.NewStaticStore()
	if cfg.CatalogSource == "dynamodb" && awsErr == nil {
		store = catalog.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.AWS.SchemesTable)
	}

	var probe clips.ProbeAPI
	if awsErr == nil {
		probe = s3.NewFromConfig(awsCfg)
	}

	var sender notify.Sender = notify.NewLogSender()
	if cfg.NotifySender == "sns" && awsErr == nil {
		sender = notify.NewSNSSender(sns.NewFromConfig(awsCfg), cfg.AWS.SMSSenderID)
	}

	var chatModel model.BaseChatModel
	if cfg.Explain.APIKey != "" {
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.Explain.APIKey,
			Model:   cfg.Explain.Model,
			BaseURL: cfg.Explain.BaseURL,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("explanation model unavailable, using templates")
			chatModel = nil
		}
	}

	providers := []dispatch.Provider{
		dispatch.NewMockProvider(),
		dispatch.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.BaseURL),
	}
	if awsErr == nil {
		providers = append(providers, dispatch.NewConnectProvider(
			connect.NewFromConfig(awsCfg),
			cfg.Connect.InstanceID,
			cfg.Connect.ContactFlowID,
			cfg.Connect.QueueARN,
		))
	}

	notifier := notify.NewDispatcher(sender, cfg.NotifyTimeout)
	srv := api.New(cfg, api.Deps{
		Catalog:    catalog.NewFacade(store, cfg.CollaboratorTimeout),
		Explain:    explain.New(chatModel, cfg.CollaboratorTimeout),
		Clips:      clips.New(cfg.AWS.AudioBucket, cfg.AWS.Region, probe, cfg.CollaboratorTimeout),
		Notifier:   notifier,
		Dispatcher: dispatch.NewRouter(runtime, cfg.DispatchRPS, providers...),
		Selection:  runtime,
	})

	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("shutdown complete")
}
