package report

import (
	"bytes"
	"slices"
	"testing"
	"time"

	"github.com/rawen554/userdir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUsersPDF(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		users   []models.User
	}{
		{
			name: "two users",
			users: []models.User{
				{ID: 1, Name: "Ana", Username: "ana1", Address: models.Address{City: "NY"}},
				{ID: 2, Name: "Bo", Username: "bo1", Address: models.Address{City: "LA"}},
			},
		},
		{name: "empty view", keyword: "zzz"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := WriteUsersPDF(buf, slices.Values(tt.users), tt.keyword, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestWriteUsersPDF_ManyRows(t *testing.T) {
	users := make([]models.User, 0, maxRows+10)
	for i := 1; i <= maxRows+10; i++ {
		users = append(users, models.User{ID: i, Name: "User", Username: "user"})
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteUsersPDF(buf, slices.Values(users), "", time.Now()))
	assert.NotZero(t, buf.Len())
}
