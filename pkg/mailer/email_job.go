package mailer

// Verification targets understood by the email worker.
const TargetVerification = "verification"

// EmailJob is the JSON payload put on the email queue after an account is created.
// VerificationCode travels as a string, matching what existing consumers expect.
type EmailJob struct {
	Email            string `json:"email"`
	Target           string `json:"target"`
	Username         string `json:"username,omitempty"`
	VerificationCode string `json:"verification_code"`
}
