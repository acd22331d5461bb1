package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/St1cky1/user-service/internal/entity"
)

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     entity.RegisterRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  entity.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "hunter22", Age: 30},
		},
		{
			name:    "missing name",
			req:     entity.RegisterRequest{Email: "ann@example.com", Password: "hunter22"},
			wantErr: "name is required",
		},
		{
			name:    "bad email",
			req:     entity.RegisterRequest{Name: "Ann", Email: "nope", Password: "hunter22"},
			wantErr: "email is invalid",
		},
		{
			name:    "short password",
			req:     entity.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "abc"},
			wantErr: "password must be at least 7 characters",
		},
		{
			name:    "password contains password",
			req:     entity.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "myPassWord1"},
			wantErr: `password cannot contain "password"`,
		},
		{
			name:    "negative age",
			req:     entity.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "hunter22", Age: -1},
			wantErr: "age must be a positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var vErr *entity.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if !strings.Contains(vErr.Message, tt.wantErr) {
				t.Errorf("Expected message %q, got %q", tt.wantErr, vErr.Message)
			}
		})
	}
}

func TestValidateUpdateSkipsMissingFields(t *testing.T) {
	v := New()

	if err := v.Validate(&entity.UpdateProfileRequest{}); err != nil {
		t.Errorf("Expected empty update to pass, got %v", err)
	}

	bad := "password123"
	err := v.Validate(&entity.UpdateProfileRequest{Password: &bad})
	if err == nil {
		t.Error("Expected error for password containing password")
	}
}

func TestValidateUpdateRejectsEmptyName(t *testing.T) {
	empty := ""
	if err := New().Validate(&entity.UpdateProfileRequest{Name: &empty}); err == nil {
		t.Error("Expected error for explicitly empty name")
	}
}
