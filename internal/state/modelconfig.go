package state

import (
	"sync"

	"github.com/zhubert/chatstate/internal/kv"
)

// ModelConfig is the chat model configuration, persisted under ModelConfigKey.
type ModelConfig struct {
	mu            sync.RWMutex
	store         kv.Store
	session       *Session
	fallbackModel string
	data          ModelConfigData
	watchers      watchers[ModelConfigData]
}

// ModelConfigDefaults returns a fresh default configuration. The model comes
// from the session's amodel field when set, otherwise fallbackModel
// (DefaultModel when empty).
func ModelConfigDefaults(sess *Session, fallbackModel string) ModelConfigData {
	model := fallbackModel
	if model == "" {
		model = DefaultModel
	}
	if sess != nil {
		if amodel, ok := sess.AModel(); ok {
			model = amodel
		}
	}

	return ModelConfigData{
		Model:            model,
		ModelLabel:       "",
		MaxTokens:        1024,
		UserModel:        "",
		TalkCount:        10,
		SystemMessage:    "",
		Temperature:      0.5,
		TopP:             1,
		PresencePenalty:  0,
		FrequencyPenalty: 0,
		TTSVoice:         "alloy",
		KID:              "",
		KName:            "",
	}
}

// OpenModelConfig builds the initial configuration: the defaults with any
// stored value laid over them. A bad stored value is logged and ignored.
func OpenModelConfig(store kv.Store, sess *Session, fallbackModel string) *ModelConfig {
	c := &ModelConfig{
		store:         store,
		session:       sess,
		fallbackModel: fallbackModel,
	}
	c.data = loadRecord(store, ModelConfigKey, c.Defaults())
	return c
}

// Defaults returns the defaults as of now, reading the session's current amodel.
func (c *ModelConfig) Defaults() ModelConfigData {
	return ModelConfigDefaults(c.session, c.fallbackModel)
}

// Get returns a copy of the current configuration.
func (c *ModelConfig) Get() ModelConfigData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.clone()
}

// Set merges p and writes the full result to storage. If the write fails the
// in-memory value is left as it was.
func (c *ModelConfig) Set(p ModelConfigPatch) error {
	c.mu.Lock()
	next := MergeModelConfig(c.data, p)
	return c.commitLocked(next)
}

// Reset merges Defaults over the current value and persists the result.
// Keys without a default (uuid, enableKnowledgeGraph) keep their values;
// the persona is dropped because the default model is always named.
func (c *ModelConfig) Reset() error {
	patch := defaultsPatch(c.Defaults())
	c.mu.Lock()
	return c.commitLocked(MergeModelConfig(c.data, patch))
}

// defaultsPatch names every key ModelConfigDefaults sets.
func defaultsPatch(d ModelConfigData) ModelConfigPatch {
	return ModelConfigPatch{
		Model:            &d.Model,
		ModelLabel:       &d.ModelLabel,
		MaxTokens:        &d.MaxTokens,
		UserModel:        &d.UserModel,
		TalkCount:        &d.TalkCount,
		SystemMessage:    &d.SystemMessage,
		KID:              &d.KID,
		KName:            &d.KName,
		Temperature:      &d.Temperature,
		TopP:             &d.TopP,
		FrequencyPenalty: &d.FrequencyPenalty,
		PresencePenalty:  &d.PresencePenalty,
		TTSVoice:         &d.TTSVoice,
	}
}

// commitLocked persists next, installs it and notifies watchers.
// It must be entered with c.mu held and releases it.
func (c *ModelConfig) commitLocked(next ModelConfigData) error {
	if err := persistRecord(c.store, ModelConfigKey, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.data = next
	snapshot := next.clone()
	c.mu.Unlock()

	c.watchers.notify(snapshot)
	return nil
}

// EffectiveModel returns the custom model name when one is set, else the model id.
func (c *ModelConfig) EffectiveModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.UserModel != "" {
		return c.data.UserModel
	}
	return c.data.Model
}

// Subscribe registers fn to be called with a copy of the value after every change.
func (c *ModelConfig) Subscribe(fn func(ModelConfigData)) (cancel func()) {
	return c.watchers.add(fn)
}
