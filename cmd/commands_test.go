package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/zhubert/chatstate/internal/notification"
	"github.com/zhubert/chatstate/internal/state"
)

func TestModelSetAndShow(t *testing.T) {
	c := newCLITest(t)

	out := c.mustRun("model", "set", "--model", "gpt-4o", "--temperature", "0", "--system", "be brief")
	if !strings.Contains(out, "model config updated") {
		t.Errorf("set output:\n%s", out)
	}

	var got state.ModelConfigData
	if err := json.Unmarshal([]byte(c.mustRun("model", "show", "--json")), &got); err != nil {
		t.Fatalf("show --json is not JSON: %v", err)
	}
	if got.Model != "gpt-4o" || got.Temperature != 0 || got.SystemMessage != "be brief" {
		t.Errorf("stored = %+v", got)
	}
	if got.MaxTokens != 1024 {
		t.Errorf("untouched fields should keep defaults, MaxTokens = %d", got.MaxTokens)
	}
}

func TestModelSet_NoFlags(t *testing.T) {
	c := newCLITest(t)

	if _, err := c.run("model", "set"); err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Errorf("expected nothing-to-change error, got %v", err)
	}
}

func TestModelSet_ModelChangeClearsPersona(t *testing.T) {
	c := newCLITest(t)
	c.mustRun("recent", "add", "--gid", "g1", "--name", "Writer")

	if out := c.mustRun("model", "show"); !strings.Contains(out, "Writer (g1)") {
		t.Fatalf("persona should be selected:\n%s", out)
	}

	c.mustRun("model", "set", "--model", "X")
	out := c.mustRun("model", "show", "--json")
	if strings.Contains(out, `"gpts"`) {
		t.Errorf("changing the model should clear the persona:\n%s", out)
	}
}

func TestModelReset(t *testing.T) {
	c := newCLITest(t)
	c.writeConfig("fallback_model: gpt-4.1\n")
	c.mustRun("model", "set", "--model", "gpt-4o", "--uuid", "42", "--knowledge-graph")

	out := c.mustRun("model", "reset")
	if !strings.Contains(out, "reset to defaults") {
		t.Errorf("reset output:\n%s", out)
	}

	var got state.ModelConfigData
	if err := json.Unmarshal([]byte(c.mustRun("model", "show", "--json")), &got); err != nil {
		t.Fatal(err)
	}
	if got.Model != "gpt-4.1" || got.MaxTokens != 1024 {
		t.Errorf("after reset = %+v", got)
	}
	if got.UUID == nil || *got.UUID != 42 || !got.EnableKnowledgeGraph {
		t.Errorf("reset should keep uuid and knowledge graph, got %+v", got)
	}
}

func TestModel_SessionAModelFromConfig(t *testing.T) {
	c := newCLITest(t)
	c.writeConfig("session:\n  amodel: o3\n")

	if out := c.mustRun("model", "show"); !strings.Contains(out, "o3") {
		t.Errorf("amodel should seed the default model:\n%s", out)
	}
}

func TestModel_SQLiteBackend(t *testing.T) {
	c := newCLITest(t)

	c.mustRun("--backend", "sqlite", "model", "set", "--max-tokens", "2048")
	out := c.mustRun("--backend", "sqlite", "model", "show")
	if !strings.Contains(out, "2048") {
		t.Errorf("sqlite store should persist across runs:\n%s", out)
	}

	// The file backend in the same directory is independent.
	if out := c.mustRun("model", "show"); strings.Contains(out, "2048") {
		t.Errorf("file backend should not see sqlite data:\n%s", out)
	}
}

func TestServerSetAndShow(t *testing.T) {
	c := newCLITest(t)

	c.mustRun("server", "set", "--api-key", "sk-1234567890abcd", "--base-url", "https://api.example.com", "--cdn-wsrv")

	out := c.mustRun("server", "show")
	if strings.Contains(out, "sk-1234567890abcd") {
		t.Errorf("show should mask the API key:\n%s", out)
	}
	for _, want := range []string{"sk-**********abcd", "https://api.example.com", "cdn wsrv"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	var revealed state.ServerConfigData
	if err := json.Unmarshal([]byte(c.mustRun("server", "show", "--reveal", "--json")), &revealed); err != nil {
		t.Fatal(err)
	}
	if revealed.APIKey != "sk-1234567890abcd" || !revealed.MJCDNWsrv {
		t.Errorf("revealed = %+v", revealed)
	}
}

func TestServerReset(t *testing.T) {
	c := newCLITest(t)
	c.mustRun("server", "set", "--mj-server", "https://mj")
	c.mustRun("server", "reset")

	var got state.ServerConfigData
	if err := json.Unmarshal([]byte(c.mustRun("server", "show", "--json")), &got); err != nil {
		t.Fatal(err)
	}
	if got != (state.ServerConfigData{}) {
		t.Errorf("after reset = %+v", got)
	}
}

func TestServerCopyKey(t *testing.T) {
	c := newCLITest(t)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = orig }()

	if _, err := c.run("server", "copy-key"); err == nil {
		t.Error("copy-key should fail when no key is set")
	}

	c.mustRun("server", "set", "--api-key", "sk-abc")
	c.mustRun("server", "copy-key")
	if copied != "sk-abc" {
		t.Errorf("copied %q, want sk-abc", copied)
	}
}

func TestServerCopyKey_ClipboardError(t *testing.T) {
	c := newCLITest(t)

	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no display") }
	defer func() { writeClipboard = orig }()

	c.mustRun("server", "set", "--api-key", "sk-abc")
	if _, err := c.run("server", "copy-key"); err == nil || !strings.Contains(err.Error(), "no display") {
		t.Errorf("expected clipboard error, got %v", err)
	}
}

func TestServerPasteKey(t *testing.T) {
	c := newCLITest(t)

	clip := ""
	orig := readClipboard
	readClipboard = func() (string, error) { return clip, nil }
	defer func() { readClipboard = orig }()

	if _, err := c.run("server", "paste-key"); err == nil || !strings.Contains(err.Error(), "clipboard is empty") {
		t.Errorf("expected empty clipboard error, got %v", err)
	}

	clip = "  sk-1234567890abcd\n"
	out := c.mustRun("server", "paste-key")
	if !strings.Contains(out, "sk-**********abcd") {
		t.Errorf("paste-key output should show the masked key:\n%s", out)
	}

	var got state.ServerConfigData
	if err := json.Unmarshal([]byte(c.mustRun("server", "show", "--json", "--reveal")), &got); err != nil {
		t.Fatal(err)
	}
	if got.APIKey != "sk-1234567890abcd" {
		t.Errorf("APIKey = %q, want the trimmed clipboard text", got.APIKey)
	}
}

func TestServerFormPatch(t *testing.T) {
	before := state.ServerConfigData{APIKey: "sk-1", MJServer: "https://mj"}

	v := serverFormValuesFrom(before)
	if p := serverFormPatch(before, v); !p.IsEmpty() {
		t.Errorf("unchanged form should give an empty patch, got %+v", p)
	}

	v.APIKey = "sk-2"
	v.MJCDNWsrv = true
	p := serverFormPatch(before, v)
	if p.APIKey == nil || *p.APIKey != "sk-2" {
		t.Errorf("APIKey patch = %v", p.APIKey)
	}
	if p.MJCDNWsrv == nil || !*p.MJCDNWsrv {
		t.Errorf("MJCDNWsrv patch = %v", p.MJCDNWsrv)
	}
	if p.MJServer != nil || p.APIBaseURL != nil {
		t.Error("unchanged fields should stay nil")
	}
}

func TestNewServerForm(t *testing.T) {
	v := serverFormValues{}
	if newServerForm(&v) == nil {
		t.Fatal("newServerForm returned nil")
	}
}

func TestRecentAddAndList(t *testing.T) {
	c := newCLITest(t)

	c.mustRun("recent", "add", "--gid", "A", "--name", "Alpha")
	c.mustRun("recent", "add", "--gid", "B", "--name", "Beta")
	c.mustRun("recent", "add", "--gid", "A", "--name", "Alpha 2")

	var items []state.Persona
	if err := json.Unmarshal([]byte(c.mustRun("recent", "list", "--json")), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].GID != "A" || items[0].Name != "Alpha 2" || items[1].GID != "B" {
		t.Errorf("items = %+v", items)
	}

	out := c.mustRun("recent", "list")
	if !strings.Contains(out, "GID") || !strings.Contains(out, "Alpha 2") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestRecentAdd_ReportsMove(t *testing.T) {
	c := newCLITest(t)

	if out := c.mustRun("recent", "add", "--gid", "A", "--name", "Alpha"); strings.Contains(out, "moved") {
		t.Errorf("first add should not report a move:\n%s", out)
	}
	c.mustRun("recent", "add", "--gid", "B", "--name", "Beta")
	if out := c.mustRun("recent", "add", "--gid", "A", "--name", "Alpha"); !strings.Contains(out, "moved to the front") {
		t.Errorf("re-adding should report the move:\n%s", out)
	}
}

func TestRecentClear(t *testing.T) {
	c := newCLITest(t)
	c.mustRun("recent", "add", "--gid", "A")
	c.mustRun("recent", "add", "--gid", "B")

	if out := c.mustRun("recent", "clear"); !strings.Contains(out, "2 recent persona(s) forgotten") {
		t.Errorf("clear output:\n%s", out)
	}
	if out := c.mustRun("recent", "list"); !strings.Contains(out, "No recently used personas.") {
		t.Errorf("list after clear:\n%s", out)
	}
}

func TestRecentExpireFromConfig(t *testing.T) {
	c := newCLITest(t)
	c.writeConfig("recent_expire: 24h\n")
	c.mustRun("recent", "add", "--gid", "A")

	out := c.mustRun("dump", "gpts-use-list")
	if strings.Contains(out, `"expire": null`) || !strings.Contains(out, `"expire":`) {
		t.Errorf("recent list should carry an expiry:\n%s", out)
	}
}

func TestRecentAdd_GeneratesGID(t *testing.T) {
	c := newCLITest(t)
	c.mustRun("recent", "add", "--name", "Anonymous")

	var items []state.Persona
	if err := json.Unmarshal([]byte(c.mustRun("recent", "list", "--json")), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || len(items[0].GID) != 36 {
		t.Errorf("expected one entry with a generated uuid gid, got %+v", items)
	}
}

func TestRecentList_Empty(t *testing.T) {
	c := newCLITest(t)

	if out := c.mustRun("recent", "list"); !strings.Contains(out, "No recently used personas.") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestSessionAct(t *testing.T) {
	c := newCLITest(t)
	c.writeConfig("act_clear_delay: 10ms\n")

	var notified []string
	notification.SetNotifier(func(title, message string, icon any) error {
		notified = append(notified, message)
		return nil
	})
	defer notification.ResetNotifier()

	out := c.mustRun("session", "act", "open", "--data", `{"id":1}`, "--notify")
	for _, want := range []string{"Dispatched", "open", `{"id":1}`, "Cleared after 10ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("act output missing %q:\n%s", want, out)
		}
	}
	if len(notified) != 1 || notified[0] != "action open dispatched" {
		t.Errorf("notifications = %v", notified)
	}
}

func TestSessionAct_NoWait(t *testing.T) {
	c := newCLITest(t)

	out := c.mustRun("session", "act", "open", "--no-wait")
	if strings.Contains(out, "Cleared") {
		t.Errorf("--no-wait should not wait for the clear:\n%s", out)
	}
	if !strings.Contains(out, "Clear scheduled in 2s") {
		t.Errorf("--no-wait should report the pending clear:\n%s", out)
	}
}

func TestSessionAct_BadData(t *testing.T) {
	c := newCLITest(t)

	if _, err := c.run("session", "act", "open", "--data", "{"); err == nil {
		t.Error("invalid --data should fail")
	}
}

func TestDump(t *testing.T) {
	c := newCLITest(t)

	if out := c.mustRun("dump"); !strings.Contains(out, "Store is empty.") {
		t.Errorf("dump of empty store:\n%s", out)
	}

	c.mustRun("model", "set", "--model", "gpt-4o")
	out := c.mustRun("dump", state.ModelConfigKey, "missing")
	if !strings.Contains(out, `"model": "gpt-4o"`) {
		t.Errorf("dump should pretty-print the stored JSON:\n%s", out)
	}
	if !strings.Contains(out, "(not set)") {
		t.Errorf("dump should mark missing keys:\n%s", out)
	}
}

func TestFormatStored(t *testing.T) {
	if got := formatStored("not json"); got != "not json" {
		t.Errorf("formatStored = %q", got)
	}
	if got := formatStored(`{"a":1}`); got != "{\n  \"a\": 1\n}" {
		t.Errorf("formatStored = %q", got)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	c := newCLITest(t)

	if out := c.mustRun("config", "path"); strings.TrimSpace(out) != c.configPath {
		t.Errorf("config path = %q, want %q", out, c.configPath)
	}

	out := c.mustRun("config", "init")
	if !strings.Contains(out, "created") {
		t.Errorf("init output:\n%s", out)
	}
	if _, err := c.run("config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}

	show := c.mustRun("config", "show")
	if !strings.Contains(show, "backend: file") || !strings.Contains(show, "act_clear_delay: 2s") {
		t.Errorf("config show:\n%s", show)
	}
}
