package yamlutil_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alnah/go-course2pdf/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "test" || cfg.Count != 42 || !cfg.Enabled {
					t.Errorf("got %+v", cfg)
				}
			},
		},
		{
			name: "unknown fields are ignored",
			data: []byte("name: loose\nextra: 1"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				if got := v.(*testConfig).Name; got != "loose" {
					t.Errorf("Name = %q, want %q", got, "loose")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("name: [unclosed"),
			dest:    &testConfig{},
			wantErr: errors.New("yamlutil:"),
		},
		{
			name: "unicode content",
			data: []byte("name: \"∑ 😀\""),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				if got := v.(*testConfig).Name; got != "∑ 😀" {
					t.Errorf("Name = %q, want %q", got, "∑ 😀")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			assertErr(t, err, tt.wantErr)
			if tt.wantErr == nil && tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "known fields only", data: []byte("name: strict\ncount: 10")},
		{name: "unknown field", data: []byte("name: test\nunknown_field: value"), wantErr: errors.New("yamlutil:")},
		{name: "empty data", data: []byte{}, wantErr: yamlutil.ErrNilData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg testConfig
			assertErr(t, yamlutil.UnmarshalStrict(tt.data, &cfg), tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// TestReadFileStrict - Reads and decodes a file from an fs.FS
// ---------------------------------------------------------------------------

func TestReadFileStrict(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"ok.yaml":  {Data: []byte("name: fs\ncount: 3")},
		"bad.yaml": {Data: []byte("name: fs\nother: 3")},
	}

	t.Run("decodes file", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		if err := yamlutil.ReadFileStrict(fsys, "ok.yaml", &cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Count != 3 {
			t.Errorf("Count = %d, want 3", cfg.Count)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		err := yamlutil.ReadFileStrict(fsys, "missing.yaml", &cfg)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("errors.Is(err, fs.ErrNotExist) = false, got: %v", err)
		}
	})

	t.Run("error names the file", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		err := yamlutil.ReadFileStrict(fsys, "bad.yaml", &cfg)
		if err == nil || !strings.HasPrefix(err.Error(), "bad.yaml:") {
			t.Errorf("error = %v, want prefix %q", err, "bad.yaml:")
		}
	})
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: modifies the global MaxInputSize, so it does not run in parallel.

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	yamlutil.MaxInputSize = 50
	data := []byte("name: " + strings.Repeat("x", 94))
	var cfg testConfig

	err := yamlutil.Unmarshal(data, &cfg)
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
	if !strings.Contains(err.Error(), "100 bytes") || !strings.Contains(err.Error(), "max 50") {
		t.Errorf("error should contain sizes, got: %s", err)
	}
	if err := yamlutil.UnmarshalStrict(data, &cfg); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict: errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if want == nil {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if errors.Is(err, want) {
		return
	}
	if !strings.Contains(err.Error(), want.Error()) {
		t.Fatalf("error = %q, want containing %q", err, want)
	}
}
