package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rawen554/userdir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `[
  {
    "id": 1,
    "name": "Leanne Graham",
    "username": "Bret",
    "email": "Sincere@april.biz",
    "address": {
      "street": "Kulas Light",
      "suite": "Apt. 556",
      "city": "Gwenborough",
      "zipcode": "92998-3874",
      "geo": {"lat": "-37.3159", "lng": "81.1496"}
    },
    "phone": "1-770-736-8031 x56442",
    "website": "hildegard.org",
    "company": {"name": "Romaguera-Crona"}
  },
  {"id": 2, "name": "Ervin Howell", "username": "Antonette"}
]`

func TestRemoteSource_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []models.User
		status  int
		wantErr bool
	}{
		{
			name:   "users decoded in order",
			status: http.StatusOK,
			body:   usersBody,
			want: []models.User{
				{
					ID:       1,
					Name:     "Leanne Graham",
					Username: "Bret",
					Email:    "Sincere@april.biz",
					Phone:    "1-770-736-8031 x56442",
					Website:  "hildegard.org",
					Address:  models.Address{Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough"},
				},
				{ID: 2, Name: "Ervin Howell", Username: "Antonette"},
			},
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    "oops",
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"id":`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Error(err)
				}
			}))
			defer srv.Close()

			s := NewRemoteSource(srv.Client(), srv.URL)
			got, err := s.Fetch(context.Background())
			assert.Equal(t, 1, calls)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoteSource_FetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteSource(http.DefaultClient, url).Fetch(context.Background())
	assert.Error(t, err)
}
