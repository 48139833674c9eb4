package application

// Targets tell notification consumers how to read a message.
const (
	TargetToken    = "token"
	TargetAvatar   = "avatar"
	TargetBackPad  = "back_pad"
	TargetDropUser = "drop_user"
)

type PushTokenMessage struct {
	Target        string `json:"target"`
	FirebaseToken string `json:"firebaseToken"`
	Username      string `json:"username"`
	UserID        string `json:"userId"`
	MediaURL      string `json:"mediaUrl,omitempty"`
}

type MediaChangedMessage struct {
	Target      string `json:"target"`
	UserID      string `json:"userId"`
	NewMediaURL string `json:"newMediaUrl"`
}

type DropUserMessage struct {
	Target string `json:"target"`
	UserID string `json:"userId"`
}
