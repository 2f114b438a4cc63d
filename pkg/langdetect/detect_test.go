package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/dashgram/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "shebang sh",
			content:  "#!/bin/sh\necho hello",
			expected: "sh",
		},
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hello",
			expected: "sh",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hello')",
			expected: "python",
		},
		{
			name:     "empty content fallback",
			content:  "",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestMatcher_MatchPath(t *testing.T) {
	t.Parallel()

	m := langdetect.Matcher{Extensions: []string{".sh", ".dash"}}

	tests := []struct {
		path string
		want bool
	}{
		{"install.sh", true},
		{"scripts/run.SH", true},
		{"lib.dash", true},
		{"main.go", false},
		{"configure", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, m.MatchPath(tt.path))
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matcher langdetect.Matcher
		path    string
		content string
		want    bool
	}{
		{
			name:    "extension",
			matcher: langdetect.Matcher{Extensions: []string{".sh"}},
			path:    "build.sh",
			content: "make\n",
			want:    true,
		},
		{
			name:    "extensionless with shebang",
			matcher: langdetect.Matcher{Shebang: true},
			path:    "bin/configure",
			content: "#!/bin/sh\nset -e\n",
			want:    true,
		},
		{
			name:    "shebang detection disabled",
			matcher: langdetect.Matcher{},
			path:    "bin/configure",
			content: "#!/bin/sh\nset -e\n",
			want:    false,
		},
		{
			name:    "other interpreter",
			matcher: langdetect.Matcher{Shebang: true},
			path:    "bin/tool",
			content: "#!/usr/bin/env python3\nprint(1)\n",
			want:    false,
		},
		{
			name:    "unknown extension is not sniffed",
			matcher: langdetect.Matcher{Shebang: true},
			path:    "notes.txt",
			content: "#!/bin/sh\n",
			want:    false,
		},
		{
			name:    "configure script at project root",
			matcher: langdetect.Matcher{Shebang: true},
			path:    "configure",
			content: "#!/bin/sh\n",
			want:    true,
		},
		{
			name:    "project below a vendor directory",
			matcher: langdetect.Matcher{Shebang: true},
			path:    "/home/u/vendor/proj/run",
			content: "#!/bin/sh\n",
			want:    true,
		},
		{
			name:    "vendored path with extension",
			matcher: langdetect.Matcher{Extensions: []string{".sh"}},
			path:    "vendor/github.com/x/y/run.sh",
			content: "echo\n",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.matcher.Match(tt.path, []byte(tt.content)))
		})
	}
}

func TestIsShellFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info string
		body string
		want bool
	}{
		{name: "sh", info: "sh", body: "ls", want: true},
		{name: "shell with attributes", info: "shell title=x", body: "ls", want: true},
		{name: "pandoc class", info: "{.bash}", body: "ls", want: true},
		{name: "upper case", info: "SH", body: "ls", want: true},
		{name: "other language", info: "go", body: "package main", want: false},
		{name: "unlabeled with shebang", info: "", body: "#!/bin/sh\nls\n", want: true},
		{name: "unlabeled empty", info: "", body: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, langdetect.IsShellFence(tt.info, []byte(tt.body)))
		})
	}
}
