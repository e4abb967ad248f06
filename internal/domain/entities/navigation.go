package entities

// View represents the screen the presentation layer shows
type View string

const (
	ViewList   View = "list"
	ViewDetail View = "detail"
	ViewNew    View = "new"
)

// Intent represents a navigation request coming from the presentation layer
type Intent string

const (
	IntentSelect  Intent = "select"
	IntentBack    Intent = "back"
	IntentOpenNew Intent = "openNew"
	IntentSave    Intent = "save"
	IntentCancel  Intent = "cancel"
)

type transitionKey struct {
	from   View
	intent Intent
}

// transitions lists the legal edges of the navigation state machine
var transitions = map[transitionKey]View{
	{ViewList, IntentSelect}:  ViewDetail,
	{ViewDetail, IntentBack}:  ViewList,
	{ViewList, IntentOpenNew}: ViewNew,
	{ViewNew, IntentSave}:     ViewList,
	{ViewNew, IntentCancel}:   ViewList,
}

// intentTargets is where an intent lands when it arrives outside its legal edge
var intentTargets = map[Intent]View{
	IntentSelect:  ViewDetail,
	IntentBack:    ViewList,
	IntentOpenNew: ViewNew,
	IntentSave:    ViewList,
	IntentCancel:  ViewList,
}

// Navigation is the ephemeral view state. It is never persisted.
type Navigation struct {
	View            View   `json:"view"`
	SelectedTokenID *int   `json:"selectedTokenId"`
	SearchQuery     string `json:"searchQuery"`
}

// DefaultNavigation returns the boot-time navigation state
func DefaultNavigation() Navigation {
	return Navigation{View: ViewList}
}

// IsLegal reports whether intent is a listed edge out of the current view
func (n Navigation) IsLegal(intent Intent) bool {
	_, ok := transitions[transitionKey{n.View, intent}]
	return ok
}

// Apply returns the navigation state after intent. tokenID is only read for select.
// Unknown intents leave the state unchanged.
func (n Navigation) Apply(intent Intent, tokenID int) Navigation {
	target, ok := transitions[transitionKey{n.View, intent}]
	if !ok {
		target, ok = intentTargets[intent]
		if !ok {
			return n
		}
	}

	next := n
	next.View = target
	if target == ViewDetail {
		id := tokenID
		next.SelectedTokenID = &id
	} else {
		next.SelectedTokenID = nil
	}
	return next
}

// Selected returns the selected token id and whether one is set
func (n Navigation) Selected() (int, bool) {
	if n.SelectedTokenID == nil {
		return 0, false
	}
	return *n.SelectedTokenID, true
}
