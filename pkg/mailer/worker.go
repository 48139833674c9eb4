package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrBadJob marks messages that can never be delivered and must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Worker turns queue messages into sent emails.
type Worker struct {
	Sender  Sender
	AppName string
	Logger  logrus.FieldLogger
	Timeout time.Duration
}

// Handle processes one message body. Errors wrapping ErrBadJob should be
// dropped; any other error is transient and the message should be requeued.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return errors.Join(ErrBadJob, err)
	}
	if job.Email == "" {
		return errors.Join(ErrBadJob, errors.New("missing recipient"))
	}
	if job.Target != TargetVerification {
		w.Logger.WithField("target", job.Target).Warn("unsupported email target, skipping")
		return nil
	}

	subject, text, html, err := Render(VerifyEmail, TemplateData{
		AppName:  w.AppName,
		Username: job.Username,
		Code:     job.VerificationCode,
	})
	if err != nil {
		return errors.Join(ErrBadJob, err)
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return w.Sender.Send(c, job.Email, subject, text, html)
}
