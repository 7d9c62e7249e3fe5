package config

import (
	"testing"
	"time"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		envSet       bool
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_STRING",
			defaultValue: "default",
			envValue:     "from-env",
			envSet:       true,
			want:         "from-env",
		},
		{
			name:         "environment variable not set",
			key:          "TEST_STRING_UNSET",
			defaultValue: "default",
			envSet:       false,
			want:         "default",
		},
		{
			name:         "environment variable empty string",
			key:          "TEST_STRING_EMPTY",
			defaultValue: "default",
			envValue:     "",
			envSet:       true,
			want:         "default",
		},
		{
			name:         "sensitive variable",
			key:          "TEST_AUTH_TOKEN",
			defaultValue: "default",
			envValue:     "secret123",
			envSet:       true,
			want:         "secret123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}
			got := ParseString(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		envSet       bool
		want         int
	}{
		{name: "valid integer", key: "TEST_INT", defaultValue: 5, envValue: "42", envSet: true, want: 42},
		{name: "invalid integer", key: "TEST_INT_BAD", defaultValue: 5, envValue: "abc", envSet: true, want: 5},
		{name: "not set", key: "TEST_INT_UNSET", defaultValue: 5, envSet: false, want: 5},
		{name: "empty string", key: "TEST_INT_EMPTY", defaultValue: 5, envValue: "", envSet: true, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}
			got := ParseInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		envSet       bool
		want         bool
	}{
		{name: "true", key: "TEST_BOOL", envValue: "true", envSet: true, want: true},
		{name: "numeric true", key: "TEST_BOOL_ONE", envValue: "1", envSet: true, want: true},
		{name: "invalid", key: "TEST_BOOL_BAD", defaultValue: true, envValue: "maybe", envSet: true, want: true},
		{name: "not set", key: "TEST_BOOL_UNSET", defaultValue: true, envSet: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}
			got := ParseBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		envSet       bool
		want         time.Duration
	}{
		{name: "valid duration", key: "TEST_DUR", defaultValue: time.Second, envValue: "2500ms", envSet: true, want: 2500 * time.Millisecond},
		{name: "negative duration rejected", key: "TEST_DUR_NEG", defaultValue: time.Second, envValue: "-3s", envSet: true, want: time.Second},
		{name: "invalid", key: "TEST_DUR_BAD", defaultValue: time.Second, envValue: "soon", envSet: true, want: time.Second},
		{name: "not set", key: "TEST_DUR_UNSET", defaultValue: time.Second, envSet: false, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}
			got := ParseDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}
