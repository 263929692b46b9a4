package render

import "fmt"

// AssetLoadError reports an image asset that could not be read or decoded.
// It is absorbed: the asset is omitted and layout continues.
type AssetLoadError struct {
	Key  string
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading %s asset %q: %v", e.Key, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// InvalidPartyDataError reports a party record with no usable name or
// address under any resolution rule. It is absorbed: placeholder text is
// rendered instead.
type InvalidPartyDataError struct {
	Kind PartyKind
}

func (e *InvalidPartyDataError) Error() string {
	return fmt.Sprintf("%s record has no usable name or address fields", e.Kind)
}

// LayoutOverflowError reports a single content unit taller than an empty
// page. It is absorbed: the unit's text is truncated with an ellipsis.
type LayoutOverflowError struct {
	Unit   string
	Height float64
	Budget float64
}

func (e *LayoutOverflowError) Error() string {
	return fmt.Sprintf("%s (%.1fmm) cannot fit an empty page body (%.1fmm)", e.Unit, e.Height, e.Budget)
}

// RenderFailure is the only fatal render error. It carries the offending
// document's identifier and a human-readable cause.
type RenderFailure struct {
	DocumentID string
	Cause      string
	Err        error
}

func (e *RenderFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rendering document %s: %s: %v", e.DocumentID, e.Cause, e.Err)
	}
	return fmt.Sprintf("rendering document %s: %s", e.DocumentID, e.Cause)
}

func (e *RenderFailure) Unwrap() error { return e.Err }
