package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://youtu.be/abc", false},
		{"http with spaces", "  http://vimeo.com/1  ", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"flag", "--exec=rm", true},
		{"local path", "/etc/passwd", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateURL(tt.url)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
			} else {
				gt.NoError(t, err)
			}
		})
	}
}
