package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"bizgen/internal/common/config"
	pipelineerrors "bizgen/internal/common/errors"
	"bizgen/internal/common/logger"
)

// snsPublisher and sesSender are the two AWS calls the notifier makes,
// narrowed so tests can stub them.
type snsPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type sesSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// AWSNotifier delivers alerts over SNS and email over SES.
type AWSNotifier struct {
	sns snsPublisher
	ses sesSender
	cfg config.NotificationConfig
	log logger.Logger
}

// NewAWSNotifier builds the notifier from the default AWS credential chain.
func NewAWSNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*AWSNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &AWSNotifier{
		sns: sns.NewFromConfig(awsCfg),
		ses: ses.NewFromConfig(awsCfg),
		cfg: cfg,
		log: log.WithFields(map[string]interface{}{"component": "notify"}),
	}, nil
}

// Send delivers the message across each requested channel. Channels are
// independent: one failing does not stop the others, and the first failure
// is returned after all channels were attempted.
func (n *AWSNotifier) Send(ctx context.Context, msg Message) error {
	var firstErr error
	for _, channel := range msg.Channels {
		var err error
		switch channel {
		case ChannelAlert:
			err = n.publishAlert(ctx, msg)
		case ChannelEmail:
			err = n.sendEmail(ctx, msg)
		default:
			err = pipelineerrors.NewNotificationSendFailedError(channel,
				fmt.Errorf("unknown channel"))
		}

		if err != nil {
			n.log.WithError(err).Warn("notification delivery failed", map[string]interface{}{
				"channel": channel,
				"subject": msg.Subject,
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (n *AWSNotifier) publishAlert(ctx context.Context, msg Message) error {
	if !n.cfg.Alerts.Enabled || n.cfg.Alerts.TopicARN == "" {
		return nil
	}

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.Alerts.TopicARN),
		Subject:  aws.String(msg.Subject),
		Message:  aws.String(msg.Body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"priority": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(msg.Priority)),
			},
		},
	})
	if err != nil {
		return pipelineerrors.NewNotificationSendFailedError(ChannelAlert, err)
	}
	return nil
}

func (n *AWSNotifier) sendEmail(ctx context.Context, msg Message) error {
	if !n.cfg.Email.Enabled {
		return nil
	}
	if msg.Email == "" {
		return pipelineerrors.NewNotificationSendFailedError(ChannelEmail,
			fmt.Errorf("no recipient address"))
	}

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{msg.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(msg.Body)},
			},
		},
	})
	if err != nil {
		return pipelineerrors.NewNotificationSendFailedError(ChannelEmail, err)
	}
	return nil
}
