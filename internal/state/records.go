package state

import "maps"

// Storage keys of the persisted containers.
const (
	ModelConfigKey  = "gptConfigStore"
	ServerConfigKey = "gptServerStore"
	RecentItemsKey  = "gpts-use-list"
)

// DefaultModel is the model id used when the session does not name one.
const DefaultModel = "gpt-4o-mini"

// SessionData is the value held by Session.
type SessionData struct {
	Act      string         `json:"act"`      // current action tag
	ActData  any            `json:"actData"`  // payload for Act
	Local    string         `json:"local"`    // active variant/version label
	Session  map[string]any `json:"session"`  // server-provided session fields
	IsLoader bool           `json:"isLoader"` // a blocking load is in progress
}

func (d SessionData) clone() SessionData {
	d.Session = maps.Clone(d.Session)
	return d
}

// SessionPatch is a partial SessionData. Nil fields are left unchanged.
// A non-nil Act, even "", schedules the delayed clear.
type SessionPatch struct {
	Act      *string
	ActData  any
	Local    *string
	Session  map[string]any // replaces the whole map
	IsLoader *bool
}

// ModelConfigData is the chat model configuration. The JSON names are the
// stored format and must stay stable.
type ModelConfigData struct {
	Model                string   `json:"model"`
	ModelLabel           string   `json:"modelLabel"`
	MaxTokens            int      `json:"max_tokens"`
	UserModel            string   `json:"userModel"` // custom model name
	TalkCount            int      `json:"talkCount"` // history messages sent with each request
	SystemMessage        string   `json:"systemMessage"`
	KID                  string   `json:"kid"`   // knowledge base id
	KName                string   `json:"kName"` // knowledge base name
	Gpts                 *Persona `json:"gpts,omitempty"`
	UUID                 *int64   `json:"uuid,omitempty"`
	Temperature          float64  `json:"temperature"`
	TopP                 float64  `json:"top_p"`
	FrequencyPenalty     float64  `json:"frequency_penalty"`
	PresencePenalty      float64  `json:"presence_penalty"`
	TTSVoice             string   `json:"tts_voice"`
	EnableKnowledgeGraph bool     `json:"enableKnowledgeGraph,omitempty"`
}

func (d ModelConfigData) clone() ModelConfigData {
	d.Gpts = clonePersonaPtr(d.Gpts)
	if d.UUID != nil {
		id := *d.UUID
		d.UUID = &id
	}
	return d
}

// ModelConfigPatch is a partial ModelConfigData. Nil fields are left unchanged.
type ModelConfigPatch struct {
	Model                *string
	ModelLabel           *string
	MaxTokens            *int
	UserModel            *string
	TalkCount            *int
	SystemMessage        *string
	KID                  *string
	KName                *string
	Gpts                 *Persona
	UUID                 *int64
	Temperature          *float64
	TopP                 *float64
	FrequencyPenalty     *float64
	PresencePenalty      *float64
	TTSVoice             *string
	EnableKnowledgeGraph *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ModelConfigPatch) IsEmpty() bool {
	return p == ModelConfigPatch{}
}

// ServerConfigData holds the backend endpoints and credentials. The JSON names
// are the stored format and must stay stable.
type ServerConfigData struct {
	APIKey      string `json:"OPENAI_API_KEY"`
	APIBaseURL  string `json:"OPENAI_API_BASE_URL"`
	MJServer    string `json:"MJ_SERVER"`
	MJAPISecret string `json:"MJ_API_SECRET"`
	UploaderURL string `json:"UPLOADER_URL"`
	MJCDNWsrv   bool   `json:"MJ_CDN_WSRV"` // proxy images through wsrv.nl
}

// ServerConfigPatch is a partial ServerConfigData. Nil fields are left unchanged.
type ServerConfigPatch struct {
	APIKey      *string
	APIBaseURL  *string
	MJServer    *string
	MJAPISecret *string
	UploaderURL *string
	MJCDNWsrv   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ServerConfigPatch) IsEmpty() bool {
	return p == ServerConfigPatch{}
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
