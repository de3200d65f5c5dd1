package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

type recordingHandler struct {
	name   string
	err    error
	events []*models.NotificationEvent
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) Handle(_ context.Context, event *models.NotificationEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestDispatcher_DeliversToAllHandlers(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	first := &recordingHandler{name: "first"}
	second := &recordingHandler{name: "second"}
	d.Register(first)
	d.Register(second)

	event := models.NewNotificationEvent(models.EventJobMatched, "user-1", "New job opportunity")
	d.Dispatch(context.Background(), event)

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, event, first.events[0])
}

func TestDispatcher_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	failing := &recordingHandler{name: "failing", err: errors.New("smtp down")}
	healthy := &recordingHandler{name: "healthy"}
	d.Register(failing)
	d.Register(healthy)

	d.Dispatch(context.Background(), models.NewNotificationEvent(models.EventCliperProcessed, "user-1", "done"))

	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, input *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, input)
	return &ses.SendEmailOutput{}, f.err
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindCandidatesWithProfile(_ context.Context) ([]*models.User, error) {
	return nil, nil
}

func TestEmailChannel_SendsToResolvedAddress(t *testing.T) {
	sesClient := &fakeSES{}
	users := &fakeUserStore{users: map[string]*models.User{
		"user-1": {ID: "user-1", Email: "candidate@example.com", Role: models.RoleCandidate},
	}}

	c := NewEmailChannel(sesClient, users, "noreply@clipers.example.com", zaptest.NewLogger(t))
	event := models.NewNotificationEvent(models.EventJobMatched, "user-1", "New job opportunity with 75% compatibility")

	require.NoError(t, c.Handle(context.Background(), event))
	require.Len(t, sesClient.inputs, 1)
	assert.Equal(t, []string{"candidate@example.com"}, sesClient.inputs[0].Destination.ToAddresses)
	assert.Equal(t, "noreply@clipers.example.com", *sesClient.inputs[0].Source)
	assert.Equal(t, "You have a new job match", *sesClient.inputs[0].Message.Subject.Data)
}

func TestEmailChannel_SkipsUserWithoutEmail(t *testing.T) {
	sesClient := &fakeSES{}
	users := &fakeUserStore{users: map[string]*models.User{
		"user-1": {ID: "user-1", Role: models.RoleCandidate},
	}}

	c := NewEmailChannel(sesClient, users, "noreply@clipers.example.com", zaptest.NewLogger(t))
	require.NoError(t, c.Handle(context.Background(), models.NewNotificationEvent(models.EventJobMatched, "user-1", "msg")))
	assert.Empty(t, sesClient.inputs)
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, input *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, input)
	return &sns.PublishOutput{}, f.err
}

func TestPushChannel_PublishesWithAttributes(t *testing.T) {
	snsClient := &fakeSNS{}
	c := NewPushChannel(snsClient, "arn:aws:sns:us-east-1:000000000000:notifications", zaptest.NewLogger(t))

	event := models.NewNotificationEvent(models.EventJobMatched, "user-1", "match")
	require.NoError(t, c.Handle(context.Background(), event))

	require.Len(t, snsClient.inputs, 1)
	input := snsClient.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:notifications", *input.TopicArn)
	assert.Equal(t, "user-1", *input.MessageAttributes["userId"].StringValue)
	assert.Equal(t, "JOB_MATCHED", *input.MessageAttributes["eventType"].StringValue)
}

type fakeNotificationStore struct {
	events []*models.NotificationEvent
	err    error
}

func (f *fakeNotificationStore) Insert(_ context.Context, event *models.NotificationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestInAppChannel_PersistsEvent(t *testing.T) {
	ns := &fakeNotificationStore{}
	c := NewInAppChannel(ns, zaptest.NewLogger(t))

	require.NoError(t, c.Handle(context.Background(), models.NewNotificationEvent(models.EventCliperProcessed, "user-1", "ready")))
	assert.Len(t, ns.events, 1)
}
