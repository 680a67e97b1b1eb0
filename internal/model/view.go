package model

// FilterAll is the activeFilter value that shows every series.
const FilterAll = "all"

// Target is a hovered or selected chart element. Exactly one field is set.
type Target struct {
	Candle *Candle        `json:"candle,omitempty"`
	Point  *TimelinePoint `json:"point,omitempty"`
}

// ViewState is the engine-local interaction state read on every repaint.
type ViewState struct {
	ActiveFilter string
	Hovered      *Target
	Selected     *Target
}

// DefaultViewState returns the state used after every data change.
func DefaultViewState() ViewState {
	return ViewState{ActiveFilter: FilterAll}
}

// Shows reports whether a series with the given key passes the active filter.
func (v ViewState) Shows(key string) bool {
	return v.ActiveFilter == "" || v.ActiveFilter == FilterAll || v.ActiveFilter == key
}
