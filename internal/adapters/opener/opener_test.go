package opener

import (
	"errors"
	"testing"
)

func TestFileURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "simple path",
			path: "/home/test/.local/share/sentinel/report.html",
			want: "file:///home/test/.local/share/sentinel/report.html",
		},
		{
			name: "path with spaces",
			path: "/home/test/My Reports/report.html",
			want: "file:///home/test/My%20Reports/report.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileURL(tt.path)
			if err != nil {
				t.Fatalf("FileURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FileURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "cmd"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := (&Browser{goos: tt.goos}).Command("/tmp/report.html")
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("Command() runs %q, want %q", cmd.Args[0], tt.want)
			}
			if last := cmd.Args[len(cmd.Args)-1]; last != "file:///tmp/report.html" {
				t.Errorf("Command() opens %q", last)
			}
		})
	}
}

func TestEditorFind(t *testing.T) {
	notFound := func(string) (string, error) { return "", errors.New("not found") }

	t.Run("EDITOR wins", func(t *testing.T) {
		t.Setenv("EDITOR", "hx")
		t.Setenv("VISUAL", "code")
		if got := (&Editor{lookPath: notFound}).find(); got != "hx" {
			t.Errorf("find() = %q, want hx", got)
		}
	})

	t.Run("VISUAL fallback", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "code")
		if got := (&Editor{lookPath: notFound}).find(); got != "code" {
			t.Errorf("find() = %q, want code", got)
		}
	})

	t.Run("PATH lookup", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")
		e := &Editor{lookPath: func(name string) (string, error) {
			if name == "nano" {
				return "/usr/bin/nano", nil
			}
			return "", errors.New("not found")
		}}
		if got := e.find(); got != "/usr/bin/nano" {
			t.Errorf("find() = %q, want /usr/bin/nano", got)
		}
	})

	t.Run("nothing available", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")
		if _, err := (&Editor{lookPath: notFound}).Command("config.yaml"); err == nil {
			t.Error("expected an error")
		}
	})
}
