package application

import (
	"context"
	"errors"
	"expvar"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-profile-service/internal/application/mocks"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/mailer"
)

var testDispatcherConfig = DispatcherConfig{
	EmailQueue:        "smtp-service",
	NotificationQueue: "notification-service",
	Timeout:           time.Second,
}

func counter(name string) int64 {
	if v, ok := propagationStats.Get(name).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

func TestDispatcher_PublishesOnRoutingKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	d := NewDispatcher(pub, nil, nil, testDispatcherConfig, nil)

	job := mailer.EmailJob{Email: "a@b.co", Target: mailer.TargetVerification, VerificationCode: "12345"}
	pub.EXPECT().PublishJSON(gomock.Any(), "smtp-service", job).Return(nil)
	pub.EXPECT().PublishJSON(gomock.Any(), "notification-service", DropUserMessage{Target: TargetDropUser, UserID: "u1"}).Return(nil)
	pub.EXPECT().PublishJSON(gomock.Any(), "notification-service", PushTokenMessage{Target: TargetToken, FirebaseToken: "tok123", UserID: "u1"}).Return(nil)

	ctx := context.Background()
	d.SendVerification(ctx, job)
	d.NotifyDropped(ctx, "u1")
	d.RegisterDevice(ctx, PushTokenMessage{FirebaseToken: "tok123", UserID: "u1"})

	require.NoError(t, d.Wait(ctx))
}

func TestDispatcher_SurvivesRequestCancellation(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, testDispatcherConfig, nil)

	reqCtx, cancel := context.WithCancel(helpers.WithRequestID(context.Background(), "req-1"))
	release := make(chan struct{})
	var (
		gotErr      error
		gotID       string
		hasDeadline bool
	)
	d.Go(reqCtx, "test.detached", func(ctx context.Context) error {
		<-release
		gotErr = ctx.Err()
		gotID = helpers.RequestIDFrom(ctx)
		_, hasDeadline = ctx.Deadline()
		return nil
	})
	cancel()
	close(release)

	require.NoError(t, d.Wait(context.Background()))
	assert.NoError(t, gotErr)
	assert.Equal(t, "req-1", gotID)
	assert.True(t, hasDeadline)
}

func TestDispatcher_CountsFailures(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, testDispatcherConfig, nil)
	before := counter("test.fail.failed")

	d.Go(context.Background(), "test.fail", func(context.Context) error { return errors.New("boom") })
	require.NoError(t, d.Wait(context.Background()))

	assert.Equal(t, before+1, counter("test.fail.failed"))
}

func TestDispatcher_TaskDeadline(t *testing.T) {
	cfg := testDispatcherConfig
	cfg.Timeout = 20 * time.Millisecond
	d := NewDispatcher(nil, nil, nil, cfg, nil)

	var err error
	d.Go(context.Background(), "test.slow", func(ctx context.Context) error {
		<-ctx.Done()
		err = ctx.Err()
		return err
	})
	require.NoError(t, d.Wait(context.Background()))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, testDispatcherConfig, nil)
	release := make(chan struct{})
	d.Go(context.Background(), "test.blocked", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, d.Wait(context.Background()))
}

func TestDispatcher_NilPortsAreSkipped(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, testDispatcherConfig, nil)
	ctx := context.Background()
	d.SendVerification(ctx, mailer.EmailJob{})
	d.NotifyDropped(ctx, "x")
	d.IndexProfile(ctx, profileDocument(sampleAccount()))
	assert.NoError(t, d.Wait(ctx))
}
