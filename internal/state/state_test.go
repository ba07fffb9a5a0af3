package state

import (
	"testing"

	"github.com/zhubert/chatstate/internal/kv"
)

func TestOpen_WiresContainers(t *testing.T) {
	store := kv.NewMemoryStore()
	st := Open(store)
	defer st.Close()

	if st.Session == nil || st.ModelConfig == nil || st.ServerConfig == nil || st.RecentItems == nil {
		t.Fatal("Open should build every container")
	}
	if st.ModelConfig.Get().Model != DefaultModel {
		t.Errorf("Model = %q, want %q", st.ModelConfig.Get().Model, DefaultModel)
	}
}

func TestOpen_SessionFieldsSeedModel(t *testing.T) {
	st := Open(kv.NewMemoryStore(),
		WithFallbackModel("gpt-4.1"),
		WithSessionFields(map[string]any{"amodel": "o3", "auth": false}),
	)
	defer st.Close()

	if got := st.ModelConfig.Get().Model; got != "o3" {
		t.Errorf("Model = %q, want amodel o3", got)
	}
	if got := st.Session.Get().Session["auth"]; got != false {
		t.Errorf("session auth = %v, want false", got)
	}
}

func TestOpen_SessionSeedDoesNotScheduleClear(t *testing.T) {
	clock := &manualClock{}
	st := Open(kv.NewMemoryStore(),
		WithAfterFunc(clock.AfterFunc),
		WithSessionFields(map[string]any{"amodel": "o3"}),
	)
	defer st.Close()

	if clock.count() != 0 {
		t.Errorf("seeding the session scheduled %d clears", clock.count())
	}
	st.Session.Dispatch("gpts.use", nil)
	if clock.count() != 1 {
		t.Error("Dispatch should schedule a clear through the injected timer")
	}
}

func TestOpen_StoredModelWinsOverSession(t *testing.T) {
	store := kv.NewMemoryStore()
	if err := store.Set(ModelConfigKey, `{"model":"stored"}`); err != nil {
		t.Fatal(err)
	}

	st := Open(store, WithSessionFields(map[string]any{"amodel": "o3"}))
	defer st.Close()

	if got := st.ModelConfig.Get().Model; got != "stored" {
		t.Errorf("Model = %q, want the stored value", got)
	}
}

func TestState_UsePersona(t *testing.T) {
	store := kv.NewMemoryStore()
	st := Open(store)
	defer st.Close()

	if err := st.UsePersona(Persona{GID: "g1", Name: "Writer"}); err != nil {
		t.Fatalf("UsePersona: %v", err)
	}
	if err := st.UsePersona(Persona{GID: "g2", Name: "Coder"}); err != nil {
		t.Fatal(err)
	}

	if got := st.ModelConfig.Get().Gpts; got == nil || got.GID != "g2" {
		t.Errorf("selected persona = %+v, want g2", got)
	}
	if got := gids(st.RecentItems.Items()); len(got) != 2 || got[0] != "g2" {
		t.Errorf("recent = %v, want g2 first", got)
	}

	reopened := Open(store)
	defer reopened.Close()
	if reopened.RecentItems.Len() != 2 || reopened.ModelConfig.Get().Gpts.GID != "g2" {
		t.Error("UsePersona should persist both containers")
	}
}

func TestState_UsePersonaRejectsEmptyGID(t *testing.T) {
	st := Open(kv.NewMemoryStore())
	defer st.Close()

	if err := st.UsePersona(Persona{Name: "nameless"}); err == nil {
		t.Fatal("UsePersona should fail for an empty gid")
	}
	if st.ModelConfig.Get().Gpts != nil {
		t.Error("a rejected persona should not be selected")
	}
}
