package usecases

import (
	"strings"

	"token-research.backend/internal/domain/entities"
)

// SelectToken returns the token whose id equals selectedID, or nil
func SelectToken(tokens []*entities.Token, selectedID *int) *entities.Token {
	if selectedID == nil {
		return nil
	}
	for _, t := range tokens {
		if t.ID == *selectedID {
			return t
		}
	}
	return nil
}

// FilterTokens returns the tokens whose name, ticker, chain or category contain
// query, ignoring case and surrounding whitespace. Order follows tokens.
func FilterTokens(tokens []*entities.Token, query string) []*entities.Token {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tokens[:len(tokens):len(tokens)]
	}

	out := make([]*entities.Token, 0, len(tokens))
	for _, t := range tokens {
		if strings.Contains(t.SearchText(), q) {
			out = append(out, t)
		}
	}
	return out
}

// filterMemo caches FilterTokens for one (collection revision, query) pair
type filterMemo struct {
	valid  bool
	rev    uint64
	query  string
	result []*entities.Token
}

func (m *filterMemo) get(rev uint64, tokens []*entities.Token, query string) []*entities.Token {
	if m.valid && m.rev == rev && m.query == query {
		return m.result
	}
	m.valid, m.rev, m.query = true, rev, query
	m.result = FilterTokens(tokens, query)
	return m.result
}

// selectMemo caches SelectToken for one (collection revision, selected id) pair
type selectMemo struct {
	valid  bool
	rev    uint64
	id     int
	hasID  bool
	result *entities.Token
}

func (m *selectMemo) get(rev uint64, tokens []*entities.Token, selectedID *int) *entities.Token {
	id, hasID := 0, selectedID != nil
	if hasID {
		id = *selectedID
	}
	if m.valid && m.rev == rev && m.hasID == hasID && m.id == id {
		return m.result
	}
	m.valid, m.rev, m.id, m.hasID = true, rev, id, hasID
	m.result = SelectToken(tokens, selectedID)
	return m.result
}
