package domain

// FetchFailedMessage is the single user-facing message for any fetch failure.
const FetchFailedMessage = "安否情報の取得に失敗しました"

type ViewKind string

const (
	ViewLoading   ViewKind = "loading"
	ViewError     ViewKind = "error"
	ViewEmpty     ViewKind = "empty"
	ViewPopulated ViewKind = "populated"
)

type EmptyReason string

const (
	// EmptyNoReports means the fetch succeeded but nothing could be shown
	// even without a query.
	EmptyNoReports EmptyReason = "no_reports"
	// EmptyNoMatches means the active query removed every entry.
	EmptyNoMatches EmptyReason = "no_matches"
)

// View is the state handed to a renderer. It is one of Loading, Failed,
// Empty or Populated; the unexported marker keeps the set closed.
type View interface {
	Kind() ViewKind
	view()
}

type Loading struct{}

type Failed struct {
	Message string
}

type Empty struct {
	Reason EmptyReason
	// Unresolved counts reports dropped because their user is unknown.
	Unresolved int
}

type Populated struct {
	Entries    []Entry
	Unresolved int
}

func (Loading) Kind() ViewKind   { return ViewLoading }
func (Failed) Kind() ViewKind    { return ViewError }
func (Empty) Kind() ViewKind     { return ViewEmpty }
func (Populated) Kind() ViewKind { return ViewPopulated }

func (Loading) view()   {}
func (Failed) view()    {}
func (Empty) view()     {}
func (Populated) view() {}
