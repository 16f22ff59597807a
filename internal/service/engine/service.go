package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/commonbase/backlog"
	"github.com/w-h-a/commonbase/embedder"
	"github.com/w-h-a/commonbase/sampler"
	"github.com/w-h-a/commonbase/store"
)

const (
	missPrompt     = "No results found. I kept your query - /insert something about it or send /expand to search with a wider net."
	nothingPending = "Nothing to expand. Send me a question first."
	emptyCorpus    = "No results found."
)

// Service is the conversational retrieval engine. It owns threshold
// selection and escalation, the per-user backlog of unanswered queries, and
// reply composition for query, expand, and random draws.
type Service struct {
	embedder embedder.Embedder
	store    store.Store
	backlog  *backlog.Buffer
	options  Options
}

// Insert embeds content and persists it as a new record owned by ownerID.
func (s *Service) Insert(ctx context.Context, ownerID string, content string) error {
	vec, err := s.embed(ctx, ownerID, content)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	if _, err := s.store.InsertRecord(ctx, ownerID, content, vec); err != nil {
		slog.ErrorContext(ctx, "failed to insert record", "owner", ownerID, "error", err)
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	return nil
}

// Query answers free text with the single best match at the default
// threshold. On a miss the text is buffered for a later /expand rather than
// discarded.
func (s *Service) Query(ctx context.Context, ownerID string, text string) (string, error) {
	vec, err := s.embed(ctx, ownerID, text)
	if err != nil {
		return "", err
	}

	match, found, err := s.search(ctx, vec, s.options.DefaultThreshold)
	if err != nil {
		return "", err
	}

	if !found {
		s.backlog.Push(ownerID, text)
		return missPrompt, nil
	}

	return s.formatMatch(ctx, match), nil
}

// Expand drains the owner's backlog from most recent to oldest, re-querying
// each entry at the relaxed threshold. It stops at the first hit; every
// entry drained without one is consumed and reported by name. A failed
// external call restores everything drained so far, so a provider outage
// never costs the user their backlog.
func (s *Service) Expand(ctx context.Context, ownerID string) (string, error) {
	var misses []string

	for {
		pending, ok := s.backlog.PopLatest(ownerID)
		if !ok {
			break
		}

		vec, err := s.embed(ctx, ownerID, pending.Text)
		if err != nil {
			s.restore(ownerID, pending.Text, misses)
			return "", err
		}

		match, found, err := s.search(ctx, vec, s.options.ExpandThreshold)
		if err != nil {
			s.restore(ownerID, pending.Text, misses)
			return "", err
		}

		if !found {
			misses = append(misses, pending.Text)
			continue
		}

		return expandReply(misses, s.formatMatch(ctx, match)), nil
	}

	if len(misses) == 0 {
		return nothingPending, nil
	}

	return expandReply(misses, ""), nil
}

// Random surfaces up to RandomCount records drawn uniformly from the corpus.
func (s *Service) Random(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	ids, err := s.store.RandomRecordIDs(ctx, s.options.RandomCount)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch random ids", "error", err)
		return "", fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	if len(ids) == 0 {
		return emptyCorpus, nil
	}

	records, err := s.store.GetRecordsByIDs(ctx, ids)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch records", "error", err)
		return "", fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	if len(records) == 0 {
		return emptyCorpus, nil
	}

	picked := sampler.Sample(records, s.options.RandomCount)

	blocks := make([]string, 0, len(picked))
	for i, rec := range picked {
		name := s.displayName(ctx, rec.OwnerID)
		blocks = append(blocks, fmt.Sprintf("%d. %s by %s", i+1, strings.TrimSpace(rec.Content), name))
	}

	return strings.Join(blocks, "\n---\n"), nil
}

func (s *Service) embed(ctx context.Context, ownerID string, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, text, embedder.WithRequester(ownerID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to embed text", "owner", ownerID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	return vec, nil
}

func (s *Service) search(ctx context.Context, vec []float32, threshold float64) (store.Match, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	matches, err := s.store.SearchSimilar(ctx, vec, threshold, 1)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search records", "threshold", threshold, "error", err)
		return store.Match{}, false, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	if len(matches) == 0 {
		return store.Match{}, false, nil
	}

	return matches[0], true, nil
}

// restore puts drained entries back, oldest first, so a failed expand
// leaves the backlog as it found it instead of eating the user's queries.
func (s *Service) restore(ownerID string, current string, misses []string) {
	s.backlog.Push(ownerID, current)
	for i := len(misses) - 1; i >= 0; i-- {
		s.backlog.Push(ownerID, misses[i])
	}
}

func (s *Service) formatMatch(ctx context.Context, match store.Match) string {
	name := s.displayName(ctx, match.Record.OwnerID)

	return fmt.Sprintf(
		"%s\n\nby %s\n\nwritten on %s",
		strings.TrimSpace(match.Record.Content),
		name,
		match.Record.CreatedAt.Format("2006-01-02"),
	)
}

func (s *Service) displayName(ctx context.Context, ownerID string) string {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	user, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve display name", "owner", ownerID, "error", err)
		return "someone"
	}

	return user.DisplayName
}

func expandReply(misses []string, hit string) string {
	var sb strings.Builder

	for _, miss := range misses {
		sb.WriteString(fmt.Sprintf("Still nothing for %q, even with a wider net.\n", miss))
	}

	if len(hit) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(hit)
	} else {
		sb.WriteString("\nNobody has written about that yet - /insert something about it!")
	}

	return sb.String()
}

func New(e embedder.Embedder, st store.Store, b *backlog.Buffer, opts ...Option) *Service {
	options := NewOptions(opts...)

	return &Service{
		embedder: e,
		store:    st,
		backlog:  b,
		options:  options,
	}
}
