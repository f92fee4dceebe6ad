package envstruct_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stegangeorgiev/fitness-app/internal/envstruct"
)

func notSet(_ string) (string, bool) { return "", false }

func TestPopulate(t *testing.T) {
	type typed struct {
		Model       string        `env:"MODEL" envDefault:"gpt-4o-mini"`
		Enabled     bool          `env:"ENABLED" envDefault:"true"`
		MaxTokens   int           `env:"MAX_TOKENS" envDefault:"1500"`
		Temperature float64       `env:"TEMPERATURE" envDefault:"0.7"`
		Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
		Equipment   []string      `env:"EQUIPMENT" envDefault:"dumbbells, bench,,"`
		Untagged    int
	}

	tests := []struct {
		name      string
		v         any
		lookupEnv func(string) (string, bool)
		want      any
		wantErr   error
	}{
		{
			name:      "nil",
			v:         nil,
			lookupEnv: notSet,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "not pointer",
			v:         struct{}{},
			lookupEnv: notSet,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "empty struct",
			v:         &struct{}{},
			lookupEnv: notSet,
			want:      &struct{}{},
		},
		{
			name: "missing without default",
			v: &struct {
				APIKey string `env:"API_KEY"`
			}{},
			lookupEnv: notSet,
			wantErr:   envstruct.ErrEnvNotSet,
		},
		{
			name: "env is set",
			v: &struct {
				APIKey string `env:"API_KEY"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "sk-test", true },
			want: &struct {
				APIKey string `env:"API_KEY"`
			}{APIKey: "sk-test"},
		},
		{
			name:      "typed defaults",
			v:         &typed{},
			lookupEnv: notSet,
			want: &typed{
				Model:       "gpt-4o-mini",
				Enabled:     true,
				MaxTokens:   1500,
				Temperature: 0.7,
				Timeout:     30 * time.Second,
				Equipment:   []string{"dumbbells", "bench"},
			},
		},
		{
			name: "typed from environment",
			v:    &typed{},
			lookupEnv: func(s string) (string, bool) {
				env := map[string]string{
					"ENABLED":   "false",
					"TIMEOUT":   "8s",
					"EQUIPMENT": "",
				}
				v, ok := env[s]
				return v, ok
			},
			want: &typed{
				Model:       "gpt-4o-mini",
				Enabled:     false,
				MaxTokens:   1500,
				Temperature: 0.7,
				Timeout:     8 * time.Second,
				Equipment:   []string{},
			},
		},
		{
			name: "unparsable value",
			v: &struct {
				Timeout time.Duration `env:"TIMEOUT"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "soon", true },
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name: "unsupported kind",
			v: &struct {
				Ratio float32 `env:"RATIO"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "1", true },
			wantErr:   envstruct.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Populate() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Populate() unexpected error = %v", err)
			}
			if diff := cmp.Diff(tt.want, tt.v); diff != "" {
				t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopulate_collectsAllErrors(t *testing.T) {
	var cfg struct {
		A string `env:"A"`
		B string `env:"B"`
	}
	err := envstruct.Populate(&cfg, notSet)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{"A", "B"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}
