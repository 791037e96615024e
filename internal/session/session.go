package session

import "context"

type State string

const (
	StateIdle                  State = "idle"
	StateAnnouncement          State = "awaiting_announcement"
	StateHomework              State = "awaiting_homework"
	StatePersonalMessage       State = "awaiting_personal_message"
	StateReplyToTeacher        State = "awaiting_reply_to_teacher"
	StateReplyToParent         State = "awaiting_reply_to_parent"
	StateMessageToTeacher      State = "awaiting_message_to_teacher"
	StatePhoneSetup            State = "awaiting_phone_setup"
	StateCollectionTitle       State = "creating_collection:title"
	StateCollectionDescription State = "creating_collection:description"
	StateCollectionAmount      State = "creating_collection:amount"
	StateSelectingRecipient    State = "selecting_recipient"
)

// Session is the pending multi-step operation of one participant. Scratch
// fields are meaningful only for the states that fill them.
type Session struct {
	Owner       int64            `json:"owner"`
	State       State            `json:"state"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	TargetID    int64            `json:"target_id,omitempty"`
	Candidates  map[string]int64 `json:"candidates,omitempty"`
}

func New(owner int64) *Session {
	return &Session{Owner: owner, State: StateIdle}
}

func (s *Session) Idle() bool {
	return s.State == "" || s.State == StateIdle
}

// Begin starts a new operation, dropping any scratch of the previous one.
func (s *Session) Begin(state State) {
	s.Reset()
	s.State = state
}

// Reset returns the session to idle and clears all scratch.
func (s *Session) Reset() {
	*s = Session{Owner: s.Owner, State: StateIdle}
}

// Store keeps sessions between inbound events. Get returns an idle session
// when none is stored.
type Store interface {
	Get(ctx context.Context, owner int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context, owner int64) error
}
