package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out.String(), "webedge") {
		t.Errorf("expected version output to mention webedge, got %q", out.String())
	}
}

func TestRootShowsHelp(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if !strings.Contains(out.String(), "serve") {
		t.Errorf("expected help to list serve command, got %q", out.String())
	}
}

func TestServeRejectsBadConfig(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"serve", "--config", "does-not-exist.yaml"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing config file")
	}
}
