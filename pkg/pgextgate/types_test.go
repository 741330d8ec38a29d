package pgextgate_test

import (
	"errors"
	"testing"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func TestOptions_Accessors(t *testing.T) {
	opts := pgextgate.Options{
		pgextgate.OptionSchema:     "public",
		pgextgate.OptionNewVersion: "1.4",
		"cascade":                  "true", // unrecognized keys are carried but never consulted
	}

	if v, ok := opts.Schema(); !ok || v != "public" {
		t.Errorf("Schema() = (%q, %v), want (\"public\", true)", v, ok)
	}
	if v, ok := opts.NewVersion(); !ok || v != "1.4" {
		t.Errorf("NewVersion() = (%q, %v), want (\"1.4\", true)", v, ok)
	}
	if v, ok := opts.OldVersion(); ok {
		t.Errorf("OldVersion() = (%q, %v), want unset", v, ok)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input   string
		want    pgextgate.Action
		wantErr bool
	}{
		{"create", pgextgate.ActionCreate, false},
		{"update", pgextgate.ActionUpdate, false},
		{"drop", pgextgate.ActionDrop, false},
		{"CREATE", 0, true},
		{"alter", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := pgextgate.ParseAction(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, pgextgate.ErrInvalidConfig) {
					t.Errorf("ParseAction(%q) error should wrap ErrInvalidConfig, got %v", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAction_String(t *testing.T) {
	tests := []struct {
		action pgextgate.Action
		want   string
	}{
		{pgextgate.ActionCreate, "create"},
		{pgextgate.ActionUpdate, "update"},
		{pgextgate.ActionDrop, "drop"},
		{pgextgate.Action(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", int(tt.action), got, tt.want)
		}
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method pgextgate.AuthMethod
		want   string
	}{
		{pgextgate.AuthMethodStandard, "Standard"},
		{pgextgate.AuthMethodAWSIAM, "AWS IAM"},
		{pgextgate.AuthMethodGoogleIAM, "Google IAM"},
		{pgextgate.AuthMethodAzureEntraID, "Azure Entra ID"},
		{pgextgate.AuthMethod(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAuthMethod_IsValid(t *testing.T) {
	if !pgextgate.AuthMethodStandard.IsValid() || !pgextgate.AuthMethodAzureEntraID.IsValid() {
		t.Error("defined auth methods should be valid")
	}
	if pgextgate.AuthMethod(-1).IsValid() || pgextgate.AuthMethod(42).IsValid() {
		t.Error("out-of-range auth methods should be invalid")
	}
}
