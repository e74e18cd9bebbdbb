package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalsfoundry/prepoint/session"
)

const sharpCapBlock = "RA=05:35:17.29, Dec=-05:23:28.0 (J2000)\n" +
	"Field of view 1.23 x 0.92 degrees\n" +
	"\n" +
	"Solved Saturday, 17 Oct 2026 03:04:05 GMT, in 2.3 seconds\n" +
	"Field rotation is -1.52 degrees\n"

const jobText = `
[site]
longitude = "-105:31:40"
latitude = "32:54:10"

[target]
ra = "05:55:10.3"
dec = "+07:24:25"
event_time = "03:45:00"
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunComputesMove(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	cfgPath := writeFile(t, dir, "prepoint.yaml", "log:\n  level: error\nmetrics:\n  dump: true\n")
	jobPath := writeFile(t, dir, "tonight.job", jobText)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), Options{
		ConfigPath:   cfgPath,
		JobPath:      jobPath,
		SharpCapPath: "-",
		Now:          "2026-10-17T03:00:00Z",
	}, strings.NewReader(sharpCapBlock), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"site      [locked]",
		"-105:31:40.00",
		"target    [locked]",
		"05:55:10.300",
		"2026-10-17T03:45:00Z",
		"plate     [sharpcap] image 2026-10-17T03:04:05Z",
		"05:35:17.290",
		"rot     -1.52",
		"scope now az",
		"Turn camera CW by 1.52",
		"prepoint_moves_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunReportsIncompleteInputs(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	jobPath := writeFile(t, dir, "tonight.job", jobText)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), Options{JobPath: jobPath, Now: "2026-10-17T03:00:00Z"},
		nil, &stdout, &stderr)
	if !errors.Is(err, session.ErrNotReady) {
		t.Fatalf("run error = %v, want ErrNotReady", err)
	}
	if !strings.Contains(stdout.String(), "image ---") || !strings.Contains(stdout.String(), "move      ---") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunRejectsBadInputs(t *testing.T) {
	chdir(t, t.TempDir())
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), Options{Now: "tonight"}, nil, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for unparsable -now")
	}
	if err := run(context.Background(), Options{SharpCapPath: "-", Now: "2026-10-17T03:00:00Z"},
		strings.NewReader("RA=1"), &stdout, &stderr); err == nil {
		t.Fatalf("expected error for malformed sharpcap block")
	}
}

// chdir changes the working directory to dir for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory %s: %v", old, err)
		}
	})
}
