package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigation_LegalTransitions(t *testing.T) {
	nav := DefaultNavigation()
	assert.Equal(t, ViewList, nav.View)
	_, ok := nav.Selected()
	assert.False(t, ok)

	nav = nav.Apply(IntentSelect, 4)
	assert.Equal(t, ViewDetail, nav.View)
	id, ok := nav.Selected()
	assert.True(t, ok)
	assert.Equal(t, 4, id)

	nav = nav.Apply(IntentBack, 0)
	assert.Equal(t, ViewList, nav.View)
	assert.Nil(t, nav.SelectedTokenID)

	nav = nav.Apply(IntentOpenNew, 0)
	assert.Equal(t, ViewNew, nav.View)

	assert.Equal(t, ViewList, nav.Apply(IntentCancel, 0).View)
	assert.Equal(t, ViewList, nav.Apply(IntentSave, 0).View)
}

func TestNavigation_OffTableIntents(t *testing.T) {
	cases := []struct {
		name   string
		from   View
		intent Intent
		want   View
		legal  bool
	}{
		{"select from new abandons form", ViewNew, IntentSelect, ViewDetail, false},
		{"select from detail", ViewDetail, IntentSelect, ViewDetail, false},
		{"openNew from detail", ViewDetail, IntentOpenNew, ViewNew, false},
		{"back from list", ViewList, IntentBack, ViewList, false},
		{"cancel from detail", ViewDetail, IntentCancel, ViewList, false},
		{"cancel from new", ViewNew, IntentCancel, ViewList, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nav := Navigation{View: tc.from}
			assert.Equal(t, tc.legal, nav.IsLegal(tc.intent))
			assert.Equal(t, tc.want, nav.Apply(tc.intent, 9).View)
		})
	}
}

func TestNavigation_UnknownIntentKeepsState(t *testing.T) {
	nav := Navigation{View: ViewNew, SearchQuery: "sol"}
	assert.Equal(t, nav, nav.Apply(Intent("jump"), 1))
}

func TestNavigation_ApplyKeepsSearchQuery(t *testing.T) {
	nav := Navigation{View: ViewList, SearchQuery: "eth"}
	assert.Equal(t, "eth", nav.Apply(IntentSelect, 1).SearchQuery)
}
