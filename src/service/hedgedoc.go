package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HedgedocService talks to the external note-taking service. Every failure
// at this boundary degrades to a benign default: registration failures turn
// the member anonymous, probe failures read as "note does not exist".
type HedgedocService struct {
	baseURL string
	client  *http.Client
}

func NewHedgedocService(baseURL string) *HedgedocService {
	return &HedgedocService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			// HedgeDoc answers both probes and registrations with a 302;
			// following it would hide the status we need.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *HedgedocService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "hedgedoc-service").Logger()
	return &l
}

// CreateNoteID returns a fresh opaque note identifier. No I/O happens here:
// HedgeDoc materializes the note on first access, so handing out an unused
// random ID is enough.
func (s *HedgedocService) CreateNoteID() string {
	return "/" + uuid.New().String()
}

// NoteExists probes the note service for the given identifier. Transport
// errors are reported as "does not exist".
func (s *HedgedocService) NoteExists(ctx context.Context, noteID string) bool {
	target := s.baseURL + "/" + strings.TrimPrefix(noteID, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}

	res, err := s.client.Do(req)
	if err != nil {
		s.logger(ctx).Warn().Err(err).Str("note_id", noteID).Msg("note existence probe failed")
		return false
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusFound
}

// RegisterAccount creates a note-service account for the given login. Any
// outcome other than a redirect-found response counts as failure; errors are
// absorbed, never propagated.
func (s *HedgedocService) RegisterAccount(ctx context.Context, email, password string) bool {
	form := url.Values{
		"email":    {email},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/register", strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		s.logger(ctx).Warn().Err(err).Str("email", email).Msg("hedgedoc registration failed")
		return false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusFound {
		s.logger(ctx).Warn().
			Int("status", res.StatusCode).
			Str("email", email).
			Msg("hedgedoc registration rejected")
		return false
	}

	return true
}
