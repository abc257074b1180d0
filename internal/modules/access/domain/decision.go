package domain

// State is a user's standing for one file, recomputed on every call
type State string

const (
	StateFileUnknown       State = "file_unknown"
	StateAwaitingShortLink State = "awaiting_short_link"
	StateUnverified        State = "unverified"
	StateVerified          State = "verified"
)

// ActionKind tells the transport how to render an action
type ActionKind string

const (
	// ActionVerify opens the monetized short link externally.
	ActionVerify ActionKind = "verify"
	// ActionRetry calls back into the bot to re-evaluate.
	ActionRetry ActionKind = "retry"
	// ActionDownload opens the storage link externally.
	ActionDownload ActionKind = "download"
)

// Action is one button offered to the user. URL is set for external
// actions, FileID for callbacks.
type Action struct {
	Kind   ActionKind
	Label  string
	URL    string
	FileID string
}

// External reports whether the action is a plain link rather than a callback
func (a Action) External() bool {
	return a.Kind != ActionRetry
}

func Verify(shortLink string) Action {
	return Action{Kind: ActionVerify, Label: "✅ Verify", URL: shortLink}
}

func Retry(fileID string) Action {
	return Action{Kind: ActionRetry, Label: "🔁 Retry", FileID: fileID}
}

func Download(storageLink string) Action {
	return Action{Kind: ActionDownload, Label: "📥 Download", URL: storageLink}
}

// Decision is the outcome of evaluating (user, file, now)
type Decision struct {
	State    State
	FileID   string
	FileName string
	Actions  []Action
}
