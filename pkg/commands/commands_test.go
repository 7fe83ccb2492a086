package commands

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/app"
)

func TestExecuteClosesServiceWhenCommandFails(t *testing.T) {
	t.Setenv("MOODLOG_PATH", filepath.Join(t.TempDir(), "mood.db"))
	t.Setenv("MOODLOG_CONFIG_PATH", t.TempDir())

	boom := errors.New("boom")
	var opened *app.Service
	root := New()
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.AddCommand(&cobra.Command{
		Use: "fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			opened = svc
			return boom
		},
	})
	root.SetArgs([]string{"fail"})

	if err := execute(root); !errors.Is(err, boom) {
		t.Fatalf("expected the command error, got %v", err)
	}
	if opened == nil {
		t.Fatalf("command never opened the service")
	}
	if service != nil {
		t.Fatalf("expected the cached service to be released")
	}
	opened.AddMoodEntry("Calm 🙂", 4, "")
	if f := <-opened.Failures(); !errors.Is(f, app.ErrClosed) {
		t.Fatalf("expected the service to be closed, got %v", f)
	}
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"debug", "INFO", " warn ", "error"} {
		if _, err := parseLevel(in); err != nil {
			t.Fatalf("parseLevel(%q): %v", in, err)
		}
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}
