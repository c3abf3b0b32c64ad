package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spiraldrift/spiraldrift/internal/config"
)

func setupGlobals(t *testing.T) {
	t.Helper()
	var err error
	cfg, err = config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	logger = zap.NewNop()
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	setupGlobals(t)
	path := writeTranscript(t, `User: frueher dachte ich nur an erfolg
AI: erzaehl mir mehr davon
User: inzwischen sehe ich das anders
User: jetzt zaehlt gemeinschaft und empathie
`)

	out, err := analyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}

	for _, want := range []string{
		"SEMANTIC DRIFT ANALYSIS",
		"Nachrichten: 4",
		"Werteebenen-Profil",
		"Drift-Events",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestAnalyzeFileEmptyTranscript(t *testing.T) {
	setupGlobals(t)
	path := writeTranscript(t, "   \n\n")

	if _, err := analyzeFile(context.Background(), path); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestAnalyzeFileExports(t *testing.T) {
	setupGlobals(t)
	path := writeTranscript(t, "User: inzwischen sehe ich das anders\n")

	dir := t.TempDir()
	analyzeJSON = filepath.Join(dir, "out.json")
	analyzeCSV = filepath.Join(dir, "out.csv")
	t.Cleanup(func() { analyzeJSON, analyzeCSV = "", "" })

	if _, err := analyzeFile(context.Background(), path); err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}

	jsonData, err := os.ReadFile(analyzeJSON)
	if err != nil {
		t.Fatalf("json export missing: %v", err)
	}
	if !strings.Contains(string(jsonData), `"profile"`) {
		t.Errorf("json export lacks profile: %s", jsonData)
	}

	csvData, err := os.ReadFile(analyzeCSV)
	if err != nil {
		t.Fatalf("csv export missing: %v", err)
	}
	if !strings.HasPrefix(string(csvData), "line,speaker,text,") {
		t.Errorf("csv export header wrong: %s", csvData)
	}
}

func TestValidateCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"validate", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(buf.String(), "ok: 9 categories") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
