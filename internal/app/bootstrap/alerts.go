package bootstrap

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/clinicdesk-ai/internal/config"
	"github.com/wolfman30/clinicdesk-ai/internal/notify"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// BuildEmailSender prefers SendGrid, then SES, then the logging stub.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		logger.Info("email via sendgrid")
		return sg
	}
	if cfg.SESFromEmail != "" {
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("SES disabled", "error", err)
		} else {
			logger.Info("email via SES", "region", cfg.AWSRegion)
			return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.ClinicName,
			}, logger)
		}
	}
	return notify.NewStubEmailSender(logger)
}

// BuildAlerter returns nil when STAFF_ALERT_EMAIL is unset.
func BuildAlerter(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *notify.StaffAlerter {
	if cfg.StaffAlertEmail == "" {
		logger.Info("staff alerts disabled; STAFF_ALERT_EMAIL not set")
		return nil
	}
	return notify.NewStaffAlerter(BuildEmailSender(ctx, cfg, logger), cfg.StaffAlertEmail, cfg.ClinicName, logger)
}
