package domain

// A single entry of an autocomplete suggestion list.
// Reference is opaque and must be geocoded before it can be used as a coordinate.
type PlaceSuggestion struct {
	Description string
	Reference   string
}
