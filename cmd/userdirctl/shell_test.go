package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rawen554/userdir/internal/directory"
	"github.com/rawen554/userdir/internal/models"
	"github.com/rawen554/userdir/internal/prompt"
	"github.com/rawen554/userdir/internal/source/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDirectory(t *testing.T) *directory.UserDirectory {
	t.Helper()

	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Fetch(gomock.Any()).Return([]models.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Address: models.Address{City: "Gwenborough"}},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Address: models.Address{City: "Wisokyburgh"}},
	}, nil)

	d, err := directory.NewUserDirectory(source, directory.CountIDs, zap.L().Sugar())
	require.NoError(t, err)
	require.NoError(t, d.Load(context.Background()))
	return d
}

func runScript(t *testing.T, d *directory.UserDirectory, script string) (string, string) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	in := prompt.NewReader(strings.NewReader(script), out)
	require.NoError(t, runShell(&session{dir: d, confirm: in, out: out}, in, errOut))
	return out.String(), errOut.String()
}

func TestRunShell(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantOut    []string
		wantErrOut []string
		wantIDs    []int
	}{
		{
			name:    "search",
			script:  "search graham\n",
			wantOut: []string{"Leanne Graham"},
			wantIDs: []int{1, 2},
		},
		{
			name:    "add with quoted name",
			script:  "add --name \"Bo Bo\" --username bo1 --city LA\nshow 3\n",
			wantOut: []string{"added user 3", "Bo Bo", "LA"},
			wantIDs: []int{1, 2, 3},
		},
		{
			name:       "add missing username",
			script:     "add --name Bo --username \"\"\n",
			wantErrOut: []string{"missing required fields: username"},
			wantIDs:    []int{1, 2},
		},
		{
			name:    "edit address",
			script:  "edit 1 city=Boston \"name=Leanne G\"\nshow 1\n",
			wantOut: []string{"updated user 1", "Boston", "Leanne G"},
			wantIDs: []int{1, 2},
		},
		{
			name:       "edit unknown field",
			script:     "edit 1 zip=123\n",
			wantErrOut: []string{"unknown field"},
			wantIDs:    []int{1, 2},
		},
		{
			name:    "remove confirmed",
			script:  "remove 2\ny\n",
			wantOut: []string{"removed user 2"},
			wantIDs: []int{1},
		},
		{
			name:    "remove declined",
			script:  "remove 2\nn\n",
			wantOut: []string{"nothing removed"},
			wantIDs: []int{1, 2},
		},
		{
			name:    "quit stops reading",
			script:  "quit\nremove 1\ny\n",
			wantIDs: []int{1, 2},
		},
		{
			name:       "unknown command",
			script:     "frobnicate\nstatus\n",
			wantOut:    []string{"state: ready", "users: 2"},
			wantErrOut: []string{"frobnicate"},
			wantIDs:    []int{1, 2},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDirectory(t)

			out, errOut := runScript(t, d, tt.script)
			for _, s := range tt.wantOut {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.wantErrOut {
				assert.Contains(t, errOut, s)
			}

			var ids []int
			for u := range d.Search("") {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "plain", line: "search ana", want: []string{"search", "ana"}},
		{name: "extra spaces", line: "  show   1 ", want: []string{"show", "1"}},
		{name: "quoted", line: `edit 1 "name=Ana Maria"`, want: []string{"edit", "1", "name=Ana Maria"}},
		{name: "empty quotes", line: `add --username ""`, want: []string{"add", "--username", ""}},
		{name: "blank", line: "   ", want: nil},
		{name: "unterminated", line: `edit "name`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUnterminatedQuote)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
