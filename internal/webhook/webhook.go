package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/go-github/v75/github"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

// IssueSyncer oppdaterer tavle-elementet for ett issue.
type IssueSyncer interface {
	SyncIssue(ctx context.Context, repo models.Repository, issue models.Issue) error
}

type Handler struct {
	Secret []byte
	Syncer IssueSyncer
	// Repos begrenser hvilke repos som synkes. nil slipper gjennom alt.
	Repos *regexp.Regexp
}

func NewHandler(secret string, syncer IssueSyncer, repos *regexp.Regexp) *Handler {
	return &Handler{Secret: []byte(secret), Syncer: syncer, Repos: repos}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, h.Secret)
	if err != nil {
		slog.Warn("Avviste webhook med ugyldig signatur", "error", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		slog.Warn("Kunne ikke tolke webhook", "type", eventType, "error", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	issuesEvent, ok := event.(*github.IssuesEvent)
	if !ok {
		slog.Debug("Ignorerer hendelse", "type", eventType)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	repo, issue := convertEvent(issuesEvent)
	action := issuesEvent.GetAction()
	log := slog.With("action", action, "issue", fmt.Sprintf("%s#%d", repo.FullName(), issue.Number))

	if h.Repos != nil && !h.Repos.MatchString(repo.Name) {
		log.Debug("Repo er ikke valgt, ignorerer")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	switch action {
	case "opened", "reopened", "closed":
		if err := h.Syncer.SyncIssue(r.Context(), repo, issue); err != nil {
			log.Error("Kunne ikke synke issue", "error", err)
			http.Error(w, "sync failed", http.StatusBadGateway)
			return
		}
		log.Info("🔔 Synket issue fra webhook")
		w.WriteHeader(http.StatusOK)
	case "deleted":
		// Elementet forsvinner fra tavla sammen med issuet.
		log.Info("Issue slettet, ingenting å gjøre")
		w.WriteHeader(http.StatusAccepted)
	default:
		log.Debug("Ignorerer issue-hendelse")
		w.WriteHeader(http.StatusAccepted)
	}
}

func convertEvent(e *github.IssuesEvent) (models.Repository, models.Issue) {
	gi := e.GetIssue()

	assignees := []string{}
	for _, a := range gi.Assignees {
		if a.GetLogin() != "" {
			assignees = append(assignees, a.GetLogin())
			break
		}
	}

	issue := models.Issue{
		ID:        gi.GetNodeID(),
		Number:    gi.GetNumber(),
		Title:     gi.GetTitle(),
		Closed:    gi.GetState() == "closed",
		CreatedAt: gi.GetCreatedAt().Time,
		Assignees: assignees,
	}
	if gi.ClosedAt != nil {
		closed := gi.GetClosedAt().Time
		issue.ClosedAt = &closed
	}

	repo := models.Repository{
		Owner:  e.GetRepo().GetOwner().GetLogin(),
		Name:   e.GetRepo().GetName(),
		Issues: []models.Issue{issue},
	}
	return repo, issue
}

// NewServer ruter POST /webhook til handleren og svarer på GET /healthz.
func NewServer(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("POST /webhook", h)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve kjører serveren til ctx avsluttes, og stenger den pent.
func Serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("🎧 Lytter på webhooks", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("webhook-server stoppet: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("kunne ikke stoppe webhook-server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Webhook-server stoppet")
	return nil
}
