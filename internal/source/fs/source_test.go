package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rawen554/userdir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Fetch(t *testing.T) {
	want := []models.User{
		{ID: 1, Name: "Ana", Username: "ana1", Address: models.Address{City: "NY"}},
		{ID: 2, Name: "Bo", Username: "bo1", Address: models.Address{City: "LA"}},
	}

	tests := []struct {
		name    string
		content string
		want    []models.User
		wantErr bool
	}{
		{
			name: "json array",
			content: `
[{"id":1,"name":"Ana","username":"ana1","address":{"city":"NY"}},
 {"id":2,"name":"Bo","username":"bo1","address":{"city":"LA"}}]`,
			want: want,
		},
		{
			name: "one object per line",
			content: `{"id":1,"name":"Ana","username":"ana1","address":{"city":"NY"}}
{"id":2,"name":"Bo","username":"bo1","address":{"city":"LA"}}
`,
			want: want,
		},
		{
			name:    "empty file",
			content: "",
			want:    []models.User{},
		},
		{
			name:    "broken line",
			content: "{\"id\":1}\n{\"id\":",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "users.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			got, err := NewFileSource(path).Fetch(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSource_FetchMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Fetch(context.Background())
	assert.Error(t, err)
}
