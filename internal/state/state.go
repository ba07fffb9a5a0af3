package state

import (
	"time"

	"github.com/zhubert/chatstate/internal/kv"
	"github.com/zhubert/chatstate/internal/logger"
)

// State owns one instance of every container. It is created by the
// application root and handed to whatever needs the containers.
type State struct {
	Session      *Session
	ModelConfig  *ModelConfig
	ServerConfig *ServerConfig
	RecentItems  *RecentItems
}

type options struct {
	clearDelay     time.Duration
	afterFunc      AfterFunc
	fallbackModel  string
	sessionFields  map[string]any
	structuredOpts []kv.StructuredOption
}

// Option configures Open.
type Option func(*options)

// WithClearDelay sets how long an action tag stays set.
func WithClearDelay(d time.Duration) Option {
	return func(o *options) { o.clearDelay = d }
}

// WithAfterFunc replaces the timer primitive used by Session.
func WithAfterFunc(f AfterFunc) Option {
	return func(o *options) { o.afterFunc = f }
}

// WithFallbackModel sets the model used when the session names none.
func WithFallbackModel(model string) Option {
	return func(o *options) { o.fallbackModel = model }
}

// WithSessionFields seeds Session.Session before ModelConfig computes its
// defaults, the way a server-provided session (for example its amodel) is
// known before settings load.
func WithSessionFields(fields map[string]any) Option {
	return func(o *options) { o.sessionFields = fields }
}

// WithStructuredOptions configures the accessor RecentItems reads through.
func WithStructuredOptions(opts ...kv.StructuredOption) Option {
	return func(o *options) { o.structuredOpts = append(o.structuredOpts, opts...) }
}

// Open builds every container over store. The store stays owned by the caller.
func Open(store kv.Store, opts ...Option) *State {
	o := options{clearDelay: DefaultActClearDelay}
	for _, opt := range opts {
		opt(&o)
	}

	sessOpts := []SessionOption{WithSessionClearDelay(o.clearDelay)}
	if o.afterFunc != nil {
		sessOpts = append(sessOpts, WithSessionAfterFunc(o.afterFunc))
	}
	sess := NewSession(sessOpts...)
	if o.sessionFields != nil {
		sess.Set(SessionPatch{Session: o.sessionFields})
	}

	st := &State{
		Session:      sess,
		ModelConfig:  OpenModelConfig(store, sess, o.fallbackModel),
		ServerConfig: OpenServerConfig(store),
		RecentItems:  OpenRecentItems(kv.NewStructured(store, o.structuredOpts...)),
	}

	logger.ComponentLogger("state").Debug("state opened",
		"model", st.ModelConfig.Get().Model,
		"recent", st.RecentItems.Len())
	return st
}

// UsePersona records p as recently used and selects it on the model config,
// which is what picking a persona does in the front-end.
func (s *State) UsePersona(p Persona) error {
	if _, err := s.RecentItems.Insert(p); err != nil {
		return err
	}
	return s.ModelConfig.Set(ModelConfigPatch{Gpts: &p})
}

// Close stops the session timer.
func (s *State) Close() {
	s.Session.Close()
}
