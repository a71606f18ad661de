package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNoteID(t *testing.T) {
	svc := NewHedgedocService("http://localhost:3000")

	noteID := svc.CreateNoteID()
	require.True(t, strings.HasPrefix(noteID, "/"))

	_, err := uuid.Parse(strings.TrimPrefix(noteID, "/"))
	assert.NoError(t, err)

	assert.NotEqual(t, noteID, svc.CreateNoteID())
}

func TestRegisterAccountSucceedsOnRedirect(t *testing.T) {
	var gotEmail, gotPassword string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/register", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotEmail = r.PostFormValue("email")
		gotPassword = r.PostFormValue("password")
		// HedgeDoc redirects back to the landing page on success.
		http.Redirect(w, r, "/", http.StatusFound)
	}))
	defer server.Close()

	svc := NewHedgedocService(server.URL)
	ok := svc.RegisterAccount(context.Background(), "alice@ctfpad", "secret")

	assert.True(t, ok)
	assert.Equal(t, "alice@ctfpad", gotEmail)
	assert.Equal(t, "secret", gotPassword)
}

func TestRegisterAccountFailsOnNonRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	svc := NewHedgedocService(server.URL)
	assert.False(t, svc.RegisterAccount(context.Background(), "alice@ctfpad", "secret"))
}

func TestRegisterAccountFailsWhenUnreachable(t *testing.T) {
	svc := NewHedgedocService("http://127.0.0.1:1")
	assert.False(t, svc.RegisterAccount(context.Background(), "alice@ctfpad", "secret"))
}

func TestNoteExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/known-note" {
			http.Redirect(w, r, "/s/known-note", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewHedgedocService(server.URL)
	assert.True(t, svc.NoteExists(context.Background(), "/known-note"))
	assert.False(t, svc.NoteExists(context.Background(), "/missing-note"))
}
