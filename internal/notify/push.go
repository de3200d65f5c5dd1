package notify

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/models"
)

// SNSService is the subset of the SNS client the push channel needs.
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// PushChannel publishes events to an SNS topic. Downstream subscribers route
// the payload to the user's devices using the userId message attribute.
type PushChannel struct {
	sns      SNSService
	topicARN string
	logger   *zap.Logger
}

func NewPushChannel(snsClient SNSService, topicARN string, logger *zap.Logger) *PushChannel {
	return &PushChannel{sns: snsClient, topicARN: topicARN, logger: logger}
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Handle(ctx context.Context, event *models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewNotificationError(c.Name(), err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"userId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.UserID),
			},
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Type)),
			},
		},
	}

	if _, err := c.sns.Publish(ctx, input); err != nil {
		return apperrors.NewNotificationError(c.Name(), err)
	}

	c.logger.Info("Push notification published",
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
	return nil
}
