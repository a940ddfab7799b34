package sms

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type snsSender struct {
	client *sns.Client
}

// NewSNSSender uses the default AWS credential chain.
func NewSNSSender(ctx context.Context, region string) (Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &snsSender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *snsSender) SendSMS(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}
