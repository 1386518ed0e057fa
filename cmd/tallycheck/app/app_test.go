package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
)

var reportText = strings.Join([]string{
	"# FINAL PILES REPORT",
	"",
	`.CANDIDATE C01, "Bob Kiss"`,
	`.CANDIDATE C02, "Kurt Wright"`,
	`.CANDIDATE C03, "Andy Montroll"`,
	"",
	".FINAL-PILE C01",
	"000001-00-0001, 1) C01,C02,C03",
	"000002-00-0002, 1) C03,C01",
	"000003-00-0003, 1) C01",
	"",
	".FINAL-PILE C02",
	"000004-00-0004, 1) C02=C03,C01",
	"000005-00-0005, 1) C02",
	"",
	finalpiles.InvalidBallotsMarker,
	"000006-00-0006, 0) ",
	"",
}, "\r\n")

const widgetPage = `<html><body><pre>"inline_ballots": [
 {"vote": {"Kiss": 3, "Wright": 2, "Montroll": 1}, "qty": 1},
 {"vote": {"Montroll": 2, "Kiss": 1}, "qty": 1},
 {"vote": {"Kiss": 1}, "qty": 1},
 {"vote": {"Wright": 2, "Montroll": 2, "Kiss": 1}, "qty": 1},
 {"vote": {"Wright": 1}, "qty": 1}
]</pre></body></html>`

// writeSources writes a report, a page and a data source file naming both.
func writeSources(t *testing.T, page string) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	report := write("report.txt", reportText)
	community := write("page.html", page)
	return write("data_sources.toml", `
[official]
path = "`+filepath.ToSlash(report)+`"

[community]
path = "`+filepath.ToSlash(community)+`"

[aliases]
preset = "burlington-2009"
`)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New("1.0.0", "abc123", "2026-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// execute runs the root command and captures its output.
func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2026-01-01" {
		t.Errorf("Date() = %s, want 2026-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_Transport_Singleton verifies concurrent callers share one client.
func TestApp_Transport_Singleton(t *testing.T) {
	app := newTestApp(t)

	first := app.Transport()
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if app.Transport() != first {
				t.Error("Transport() returned a different client")
			}
		}()
	}
	wg.Wait()

	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

// TestApp_DataSources verifies the file is read once and options win.
func TestApp_DataSources(t *testing.T) {
	app := newTestApp(t)
	app.config.ConfigFile = writeSources(t, widgetPage)

	first, err := app.DataSources()
	if err != nil {
		t.Fatalf("DataSources() failed: %v", err)
	}
	second, _ := app.DataSources()
	if first != second {
		t.Error("DataSources() loaded the file twice")
	}

	preset := &config.Sources{Aliases: config.Aliases{Identity: true}}
	app2, err := New("dev", "", "", "", WithDataSources(preset))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got, err := app2.DataSources()
	if err != nil || got != preset {
		t.Errorf("DataSources() = %v, %v; want the injected configuration", got, err)
	}
}

// TestExecute_Version verifies the version command.
func TestExecute_Version(t *testing.T) {
	out, err := execute(t, newTestApp(t), "version", "-v")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "tallycheck 1.0.0") {
		t.Errorf("output %q missing version", out)
	}
	if !strings.Contains(out, "abc123") {
		t.Errorf("verbose output %q missing commit", out)
	}
}

// TestExecute_InvalidFormat verifies --format is validated before running.
func TestExecute_InvalidFormat(t *testing.T) {
	_, err := execute(t, newTestApp(t), "version", "-o", "csv")
	if !errors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// TestExecute_Verify runs a full audit from a data source file.
func TestExecute_Verify(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		path := writeSources(t, widgetPage)
		out, err := execute(t, newTestApp(t), "verify", "--config", path, "-o", "json")
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		var got struct {
			Matched bool `json:"matched"`
			Stats   struct {
				Valid int `json:"valid"`
			} `json:"stats"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if !got.Matched || got.Stats.Valid != 5 {
			t.Errorf("unexpected result %+v", got)
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		page := strings.Replace(widgetPage, `{"vote": {"Kiss": 1}, "qty": 1}`, `{"vote": {"Kiss": 1}, "qty": 3}`, 1)
		path := writeSources(t, page)
		out, err := execute(t, newTestApp(t), "verify", "--config", path, "-o", "table")
		if !errors.IsMismatch(err) {
			t.Fatalf("expected mismatch, got %v", err)
		}
		if !strings.Contains(out, "Distributions differ") {
			t.Errorf("output %q missing summary", out)
		}
		if !strings.Contains(out, "mismatched") {
			t.Errorf("output %q missing changes", out)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := execute(t, newTestApp(t), "verify", "--config", filepath.Join(t.TempDir(), "none.toml"))
		var cfgErr *errors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected config error, got %v", err)
		}
	})
}

// TestExecute_Man verifies man page generation.
func TestExecute_Man(t *testing.T) {
	out, err := execute(t, newTestApp(t), "man")
	if err != nil {
		t.Fatalf("man failed: %v", err)
	}
	if !strings.Contains(out, "TALLYCHECK") || !strings.Contains(out, "verify") {
		t.Errorf("man page incomplete:\n%s", out)
	}
}
