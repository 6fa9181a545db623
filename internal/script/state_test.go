package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestState_CallString(t *testing.T) {
	s := NewState()
	defer s.Close()

	err := s.DoString(`
function filename(docpath)
  return inklink.dirname(docpath) .. "/figures/" .. inklink.stem(docpath) .. ".svg"
end`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if !s.HasFunction("filename") {
		t.Fatal("HasFunction(filename) = false")
	}

	got, err := s.CallString("filename", "/notes/today.org")
	if err != nil {
		t.Fatalf("CallString: %v", err)
	}
	if got != "/notes/figures/today.svg" {
		t.Errorf("CallString = %q", got)
	}
}

func TestState_Helpers(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function id() return inklink.uuid() end
function base(p) return inklink.basename(p) end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}

	id, err := s.CallString("id")
	if err != nil || len(id) != 36 {
		t.Errorf("uuid = %q, %v", id, err)
	}
	if b, _ := s.CallString("base", "/a/b/c.svg"); b != "c.svg" {
		t.Errorf("basename = %q", b)
	}
}

func TestState_Sandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, code := range []string{
		`io.open("/etc/passwd")`,
		`os.execute("true")`,
		`dofile("/etc/passwd")`,
		`require("os")`,
	} {
		if err := s.DoString(code); err == nil {
			t.Errorf("DoString(%q) succeeded, want sandbox error", code)
		}
	}
}

func TestState_CallErrors(t *testing.T) {
	s := NewState()
	defer s.Close()

	if _, err := s.CallString("missing"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("missing function err = %v", err)
	}

	if err := s.DoString(`function num() return 42 end
function boom() error("bad") end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if _, err := s.CallString("num"); !errors.Is(err, ErrBadReturn) {
		t.Errorf("non-string return err = %v", err)
	}
	if _, err := s.CallString("boom"); err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("runtime error = %v", err)
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	start := time.Now()
	if err := s.DoString(`while true do end`); err == nil {
		t.Fatal("infinite loop returned nil error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout was not enforced")
	}
}

func TestState_DoFileAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.lua")
	if err := os.WriteFile(path, []byte(`function filename(p) return "x.svg" end`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewState()
	if err := s.DoFile(path); err != nil {
		t.Fatalf("DoFile: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := s.CallString("filename", "a"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("call after close err = %v", err)
	}
	if s.HasFunction("filename") {
		t.Error("HasFunction after close = true")
	}
}
