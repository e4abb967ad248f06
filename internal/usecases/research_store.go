package usecases

import (
	"context"
	"math"

	"go.uber.org/zap"
	"token-research.backend/internal/domain/entities"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/pkg/logger"
)

// SlotPersister loads and saves the two durable slots. Implementations never
// fail the caller: loads report absence, saves swallow errors.
type SlotPersister interface {
	LoadTokens(ctx context.Context) ([]*entities.Token, bool)
	LoadNotes(ctx context.Context) (map[int]string, bool)
	SaveTokens(ctx context.Context, tokens []*entities.Token)
	SaveNotes(ctx context.Context, notes map[int]string)
	Clear(ctx context.Context)
}

// ResearchStore owns the token collection, research notes and navigation state.
//
// The store is not safe for concurrent use: callers deliver one intent at a
// time. Every mutation of tokens or notes writes the affected slot before
// returning. Token values are never modified in place; a mutation replaces
// the changed token and the collection slice, so pointers handed out earlier
// keep describing the state they were read from.
type ResearchStore struct {
	persist SlotPersister

	tokens    []*entities.Token
	tokensRev uint64
	notes     map[int]string
	nav       entities.Navigation

	// highWater is the largest id ever assigned since the last boot or reset
	highWater int

	filtered filterMemo
	selected selectMemo
}

// NewResearchStore creates a store holding boot defaults. Call Initialize to
// load durable state.
func NewResearchStore(persist SlotPersister) *ResearchStore {
	s := &ResearchStore{persist: persist}
	s.setDefaults()
	return s
}

func (s *ResearchStore) setDefaults() {
	s.replaceTokens(entities.StarterTokens())
	s.highWater = maxTokenID(s.tokens)
	s.notes = map[int]string{}
	s.nav = entities.DefaultNavigation()
}

// Initialize loads both slots, falling back to the starter tokens and an
// empty notes mapping when a slot is missing or unreadable.
func (s *ResearchStore) Initialize(ctx context.Context) {
	s.setDefaults()

	if tokens, ok := s.persist.LoadTokens(ctx); ok {
		s.replaceTokens(tokens)
		s.highWater = maxTokenID(tokens)
	}
	if notes, ok := s.persist.LoadNotes(ctx); ok {
		s.notes = notes
	}

	logger.Info(ctx, "Research store initialized",
		zap.Int("tokens", len(s.tokens)),
		zap.Int("notes", len(s.notes)),
	)
}

// AddToken creates a token from the new-token form and returns it.
// Blank fields are rejected with ErrInvalidInput and leave state unchanged.
// The new token is placed first; navigation returns to the list view.
func (s *ResearchStore) AddToken(ctx context.Context, in entities.NewTokenInput) (*entities.Token, error) {
	if !in.CanSave() {
		return nil, domainerrors.ErrInvalidInput
	}

	id, ok := s.nextID()
	if !ok {
		logger.Warn(ctx, "Token id space exhausted", zap.Int("high_water", s.highWater))
		return nil, domainerrors.ErrIDSpaceExhausted
	}
	token := entities.NewToken(id, in)

	next := make([]*entities.Token, 0, len(s.tokens)+1)
	next = append(next, token)
	next = append(next, s.tokens...)
	s.replaceTokens(next)

	s.nav = s.nav.Apply(entities.IntentSave, 0)
	s.persist.SaveTokens(ctx, s.tokens)

	logger.Debug(ctx, "Token added", zap.Int("token_id", id), zap.String("ticker", token.Ticker))
	return token, nil
}

// ToggleChecklist flips the done flag of one checklist item. Unknown token
// or item ids are ignored. Applying the same toggle twice restores the state.
func (s *ResearchStore) ToggleChecklist(ctx context.Context, tokenID int, itemID string) {
	pos := s.indexOf(tokenID)
	if pos < 0 {
		return
	}
	item := s.tokens[pos].ChecklistIndex(itemID)
	if item < 0 {
		return
	}

	next := make([]*entities.Token, len(s.tokens))
	copy(next, s.tokens)
	next[pos] = s.tokens[pos].WithToggledItem(item)
	s.replaceTokens(next)

	s.persist.SaveTokens(ctx, s.tokens)
}

// SaveResearchOutput stores text as the note for tokenID, replacing any
// earlier note. An empty string is a valid note.
func (s *ResearchStore) SaveResearchOutput(ctx context.Context, tokenID int, text string) {
	next := make(map[int]string, len(s.notes)+1)
	for k, v := range s.notes {
		next[k] = v
	}
	next[tokenID] = text
	s.notes = next

	s.persist.SaveNotes(ctx, s.notes)
}

// ResetDemoData deletes both durable slots and returns every piece of state
// to its boot default.
func (s *ResearchStore) ResetDemoData(ctx context.Context) {
	s.persist.Clear(ctx)
	s.setDefaults()
	logger.Info(ctx, "Research data reset to defaults")
}

// Note returns the note saved for tokenID and whether one exists
func (s *ResearchStore) Note(tokenID int) (string, bool) {
	v, ok := s.notes[tokenID]
	return v, ok
}

// Notes returns a copy of the notes mapping
func (s *ResearchStore) Notes() map[int]string {
	out := make(map[int]string, len(s.notes))
	for k, v := range s.notes {
		out[k] = v
	}
	return out
}

// Tokens returns a copy of the token collection. The tokens themselves are
// shared and must not be modified.
func (s *ResearchStore) Tokens() []*entities.Token {
	out := make([]*entities.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Token returns the token with the given id, or nil
func (s *ResearchStore) Token(id int) *entities.Token {
	if pos := s.indexOf(id); pos >= 0 {
		return s.tokens[pos]
	}
	return nil
}

// Navigation returns the current navigation state
func (s *ResearchStore) Navigation() entities.Navigation {
	return s.nav
}

// SelectedToken returns the token picked in the detail view, or nil when no
// token is selected or the selection no longer resolves.
func (s *ResearchStore) SelectedToken() *entities.Token {
	return s.selected.get(s.tokensRev, s.tokens, s.nav.SelectedTokenID)
}

// FilteredTokens returns the tokens matching the search query. The same
// slice is returned while neither the collection nor the query change, so
// callers must not write to it.
func (s *ResearchStore) FilteredTokens() []*entities.Token {
	return s.filtered.get(s.tokensRev, s.tokens, s.nav.SearchQuery)
}

// SetSearchQuery replaces the search query
func (s *ResearchStore) SetSearchQuery(query string) {
	s.nav.SearchQuery = query
}

// Select opens the detail view for tokenID. An id that does not resolve
// leaves the detail view without a selection.
func (s *ResearchStore) Select(ctx context.Context, tokenID int) {
	s.navigate(ctx, entities.IntentSelect, tokenID)
	s.reconcileSelection()
}

// Back returns to the list view and clears the selection
func (s *ResearchStore) Back(ctx context.Context) {
	s.navigate(ctx, entities.IntentBack, 0)
}

// OpenNew shows the new-token form
func (s *ResearchStore) OpenNew(ctx context.Context) {
	s.navigate(ctx, entities.IntentOpenNew, 0)
}

// Cancel abandons the new-token form
func (s *ResearchStore) Cancel(ctx context.Context) {
	s.navigate(ctx, entities.IntentCancel, 0)
}

// SubmitNew saves the new-token form through AddToken
func (s *ResearchStore) SubmitNew(ctx context.Context, in entities.NewTokenInput) (*entities.Token, error) {
	if !s.nav.IsLegal(entities.IntentSave) {
		logger.Debug(ctx, "Token submitted outside the new view", zap.String("view", string(s.nav.View)))
	}
	return s.AddToken(ctx, in)
}

func (s *ResearchStore) navigate(ctx context.Context, intent entities.Intent, tokenID int) {
	if !s.nav.IsLegal(intent) {
		logger.Debug(ctx, "Navigation intent outside transition table",
			zap.String("view", string(s.nav.View)),
			zap.String("intent", string(intent)),
		)
	}
	s.nav = s.nav.Apply(intent, tokenID)
}

// reconcileSelection drops a selection that does not name an existing token
func (s *ResearchStore) reconcileSelection() {
	if id, ok := s.nav.Selected(); ok && s.indexOf(id) < 0 {
		s.nav.SelectedTokenID = nil
	}
}

func (s *ResearchStore) replaceTokens(tokens []*entities.Token) {
	s.tokens = tokens
	s.tokensRev++
	s.reconcileSelection()
}

func (s *ResearchStore) indexOf(id int) int {
	for i, t := range s.tokens {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID never hands out an id at or below one already assigned, even if the
// token holding it has since disappeared from the collection. It reports false
// once math.MaxInt has been assigned.
func (s *ResearchStore) nextID() (int, bool) {
	if m := maxTokenID(s.tokens); m > s.highWater {
		s.highWater = m
	}
	if s.highWater == math.MaxInt {
		return 0, false
	}
	s.highWater++
	return s.highWater, true
}

func maxTokenID(tokens []*entities.Token) int {
	m := 0
	for _, t := range tokens {
		if t.ID > m {
			m = t.ID
		}
	}
	return m
}
