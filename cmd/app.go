package cmd

import (
	"go.uber.org/zap"

	"github.com/example/callsched/internal/calls"
	"github.com/example/callsched/internal/config"
	"github.com/example/callsched/internal/logging"
	"github.com/example/callsched/internal/monitor"
	"github.com/example/callsched/internal/notify"
	"github.com/example/callsched/internal/vapi"
)

// app is the wired set of components shared by the commands.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	vapi    *vapi.Client
	poke    *notify.PokeClient
	monitor *monitor.Monitor
	calls   *calls.Service
}

func newApp(cfg config.Config) (*app, error) {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	vc := vapi.New(vapi.Config{
		APIKey:  cfg.VapiAPIKey.Value(),
		BaseURL: cfg.VapiBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	poke := notify.NewPoke(notify.PokeConfig{
		APIKey:     cfg.PokeAPIKey.Value(),
		WebhookURL: cfg.PokeWebhookURL,
		Timeout:    cfg.HTTPTimeout,
		Logger:     log.Named("poke"),
	})
	mon := monitor.New(vc, poke, monitor.Options{
		Interval:    cfg.MonitorInterval,
		MaxAttempts: cfg.MonitorMaxAttempts,
		Logger:      log.Named("monitor"),
	})
	svc := &calls.Service{
		API:     vc,
		Monitor: mon,
		Creds: calls.Credentials{
			APIKey:      cfg.VapiAPIKey.Value(),
			PhoneID:     cfg.VapiPhoneID,
			AssistantID: cfg.VapiAssistantID,
		},
		DefaultTimeZone: cfg.DefaultTimezone,
		Log:             log.Named("calls"),
	}

	return &app{cfg: cfg, log: log, vapi: vc, poke: poke, monitor: mon, calls: svc}, nil
}
