package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/llm"
	"github.com/ashaai/asha-server/internal/session"
	"github.com/ashaai/asha-server/internal/vectordb"
	"github.com/ashaai/asha-server/internal/websearch"
)

var (
	// ErrEmptyQuery is returned when a query is blank after trimming.
	ErrEmptyQuery = errors.New("chat: empty query")
	// ErrEmptyContent is returned when title generation receives no content.
	ErrEmptyContent = errors.New("chat: empty content")
)

// Reply source labels reported to clients.
const (
	SourceIdentity    = "Identity"
	SourceChatHistory = "Chat-History"
	SourceWebSearch   = "Web Search"
)

// ragSource is the label for replies grounded in the listings index.
func ragSource(category listings.Category) string {
	return "RAG-" + string(category)
}

const identityReply = "I'm Asha, the official AI assistant for HerKey by JobsForHer. I help women discover jobs, upskill through events, and restart their careers. How can I support your career journey today?"

// noListingsReply is the canned fallback when retrieval finds nothing
// upcoming; the model is not consulted in that case.
func noListingsReply(category listings.Category) string {
	return fmt.Sprintf("I couldn't find any upcoming %s matching your question right now. New opportunities are added all the time, so please check https://www.herkey.com/ for the latest listings.", category)
}

// Reply is the answer to one query.
type Reply struct {
	Text   string
	Source string
	URLs   []string
}

// Options configures an Engine.
type Options struct {
	Store      vectordb.VectorStore
	Provider   llm.Provider
	Searcher   websearch.Searcher
	Sessions   session.Store
	Classifier Classifier

	Model       string
	TopK        int
	CallTimeout time.Duration

	// IndexFn populates the vector store. It runs at most once, before the
	// first retrieval.
	IndexFn func(ctx context.Context) error

	// Now overrides the clock, for tests.
	Now func() time.Time

	Logger zerolog.Logger
}

// Engine answers queries by routing them to the listings index, the
// conversation history, or web search, and records each exchange in the
// session store.
type Engine struct {
	store      vectordb.VectorStore
	provider   llm.Provider
	searcher   websearch.Searcher
	sessions   session.Store
	classifier Classifier

	model       string
	topK        int
	callTimeout time.Duration

	indexFn   func(ctx context.Context) error
	indexOnce sync.Once
	indexErr  error

	now func() time.Time
	log zerolog.Logger
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		store:       opts.Store,
		provider:    opts.Provider,
		searcher:    opts.Searcher,
		sessions:    opts.Sessions,
		classifier:  opts.Classifier,
		model:       opts.Model,
		topK:        opts.TopK,
		callTimeout: opts.CallTimeout,
		indexFn:     opts.IndexFn,
		now:         opts.Now,
		log:         opts.Logger,
	}
	if e.classifier == nil {
		e.classifier = KeywordClassifier{}
	}
	if e.topK <= 0 {
		e.topK = 5
	}
	if e.callTimeout <= 0 {
		e.callTimeout = 60 * time.Second
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// EnsureIndex builds the listings index exactly once. Subsequent calls
// return the first build's outcome without rebuilding.
func (e *Engine) EnsureIndex(ctx context.Context) error {
	e.indexOnce.Do(func() {
		if e.indexFn == nil {
			return
		}
		start := e.now()
		e.indexErr = e.indexFn(ctx)
		if e.indexErr != nil {
			e.log.Error().Err(e.indexErr).Msg("index build failed")
			return
		}
		e.log.Info().Dur("took", e.now().Sub(start)).Msg("listings index ready")
	})
	return e.indexErr
}

// Answer routes the query, produces a reply, and appends the exchange to the
// (userID, chatTitle) transcript. The transcript is only written after a
// reply is produced; a failed query leaves it untouched.
func (e *Engine) Answer(ctx context.Context, userID, chatTitle, query string) (Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Reply{}, ErrEmptyQuery
	}
	if err := e.EnsureIndex(ctx); err != nil {
		return Reply{}, fmt.Errorf("building index: %w", err)
	}

	key := session.Key{UserID: userID, ChatTitle: chatTitle}
	history, err := e.sessions.History(ctx, key)
	if err != nil {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("loading history failed, continuing without it")
		history = nil
	}

	decision := e.classifier.Classify(query, len(history) > 0)
	start := e.now()

	var reply Reply
	switch decision.Intent {
	case IntentIdentity:
		reply = Reply{Text: identityReply, Source: SourceIdentity}
	case IntentListings:
		reply, err = e.answerFromListings(ctx, decision.Category, query)
	case IntentFollowUp:
		reply, err = e.answerFromHistory(ctx, history, query)
	default:
		reply, err = e.answerFromWeb(ctx, query)
	}
	if err != nil {
		return Reply{}, err
	}

	e.log.Info().
		Str("intent", decision.Intent.String()).
		Str("source", reply.Source).
		Dur("took", e.now().Sub(start)).
		Msg("query answered")

	now := e.now()
	appendErr := e.sessions.Append(ctx, key,
		session.Message{ID: uuid.NewString(), Role: session.RoleUser, Content: query, At: now},
		session.Message{ID: uuid.NewString(), Role: session.RoleAssistant, Content: reply.Text, URLs: reply.URLs, At: now},
	)
	if appendErr != nil {
		e.log.Warn().Err(appendErr).Str("user_id", userID).Msg("recording exchange failed")
	}
	return reply, nil
}

func (e *Engine) answerFromListings(ctx context.Context, category listings.Category, query string) (Reply, error) {
	searchCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	results, err := e.store.Search(searchCtx, category, query, e.topK)
	if err != nil {
		return Reply{}, fmt.Errorf("searching %s: %w", category, err)
	}
	upcoming := FilterUpcoming(results, e.now())
	if len(upcoming) == 0 {
		return Reply{Text: noListingsReply(category), Source: ragSource(category)}, nil
	}

	chunks := make([]string, len(upcoming))
	for i, r := range upcoming {
		chunks[i] = r.Document.Content
	}
	text, err := e.complete(ctx, RAGPrompt(strings.Join(chunks, "\n\n"), query, e.now()))
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Source: ragSource(category), URLs: ExtractURLs(upcoming)}, nil
}

func (e *Engine) answerFromHistory(ctx context.Context, history []session.Message, query string) (Reply, error) {
	text, err := e.complete(ctx, FollowUpPrompt(history, query, e.now()))
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Source: SourceChatHistory}, nil
}

func (e *Engine) answerFromWeb(ctx context.Context, query string) (Reply, error) {
	searchCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	results, err := e.searcher.Search(searchCtx, query, e.topK)
	if err != nil {
		return Reply{}, fmt.Errorf("web search: %w", err)
	}

	var b strings.Builder
	urls := make([]string, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", r.Title, r.URL, r.Snippet)
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	text, err := e.complete(ctx, WebPrompt(b.String(), query, e.now()))
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Source: SourceWebSearch, URLs: urls}, nil
}

// Title generates a short chat title for the given conversation content.
func (e *Engine) Title(ctx context.Context, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	title, err := e.complete(ctx, TitlePrompt(content))
	if err != nil {
		return "", err
	}
	return strings.Trim(title, `"'`), nil
}

func (e *Engine) complete(ctx context.Context, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	resp, err := e.provider.Complete(cctx, llm.CompletionRequest{
		Model:    e.model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
