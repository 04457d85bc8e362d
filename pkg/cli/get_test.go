package cli_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/unidl/pkg/cli"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

func TestSubtitleKey(t *testing.T) {
	meta := &model.MediaMetadata{
		Subtitles:    []string{"en"},
		AutoCaptions: []string{"en", "he"},
	}

	tests := []struct {
		name    string
		lang    string
		want    string
		wantErr bool
	}{
		{name: "human track preferred", lang: "en", want: "en"},
		{name: "falls back to auto captions", lang: "he", want: "auto:he"},
		{name: "missing language", lang: "fr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cli.SubtitleKey(meta, tt.lang)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}
