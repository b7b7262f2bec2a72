package cmd

import (
	"testing"
)

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "ragchat" {
		t.Errorf("Use = %q, want ragchat", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected non-empty Short description")
	}

	want := map[string]bool{
		"ask":     false,
		"index":   false,
		"clear":   false,
		"stats":   false,
		"version": false,
	}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestAskRequiresQuestion(t *testing.T) {
	if err := askCmd.Args(askCmd, nil); err == nil {
		t.Error("ask with no arguments should fail validation")
	}
	if err := askCmd.Args(askCmd, []string{"what", "is", "this"}); err != nil {
		t.Errorf("ask with arguments failed validation: %v", err)
	}
}

func TestIndexRequiresPath(t *testing.T) {
	if err := indexCmd.Args(indexCmd, nil); err == nil {
		t.Error("index with no arguments should fail validation")
	}
}
