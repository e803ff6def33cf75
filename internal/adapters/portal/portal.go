// Package portal drives the PDPJ court-communications portal through a real
// browser session and extracts publication notices from its results grid
package portal

// DefaultTargetURL is the communications search page the driver lands on
const DefaultTargetURL = "https://portaldeservicos.pdpj.jus.br/central-comunicacoes"

const (
	// ssoHost identifies the Keycloak redirect that requires an operator login
	ssoHost = "sso.cloud.pje.jus.br"

	// loginFormSelector is the Keycloak credentials form on the SSO page
	loginFormSelector = "#kc-form-login"

	searchFormSelector   = "form#form_busca_diario_justica"
	searchButtonSelector = ".box-search-filter-buttons button.mat-primary"
)

// Cookie is the serializable subset of a browser cookie kept across runs
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"http_only"`
	SameSite string  `json:"same_site"`
}

// Snapshot captures an authenticated portal session for reuse across runs
// It is opaque outside this package
type Snapshot struct {
	Cookies        []Cookie          `json:"cookies"`
	LocalStorage   map[string]string `json:"local_storage"`
	SessionStorage map[string]string `json:"session_storage"`
	SavedAt        string            `json:"saved_at"`
}

// RawNotice is one result row scraped from the portal grid, in source order
type RawNotice struct {
	ProcessNumber   string
	Court           string
	NoticeType      string
	PublicationDate string
	CaseClass       string
	Content         string
}

// State tracks the driver lifecycle
type State uint8

// Driver states; Failed and Closed are terminal
const (
	StateIdle State = iota
	StateNavigating
	StateAwaitingLogin
	StateSearchReady
	StateSearching
	StateResultsReady
	StateClosed
	StateFailed
)

// String implements fmt.Stringer for log fields
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigating:
		return "navigating"
	case StateAwaitingLogin:
		return "awaiting_login"
	case StateSearchReady:
		return "search_ready"
	case StateSearching:
		return "searching"
	case StateResultsReady:
		return "results_ready"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// transitions lists the legal forward edges of the driver state machine
var transitions = map[State][]State{
	StateIdle:          {StateNavigating},
	StateNavigating:    {StateAwaitingLogin, StateSearchReady},
	StateAwaitingLogin: {StateSearchReady},
	StateSearchReady:   {StateSearching},
	StateSearching:     {StateResultsReady},
}

// canEnter reports whether next is a legal transition from cur
// Closed and Failed are reachable from any non-terminal state
func canEnter(cur, next State) bool {
	if cur == StateClosed || cur == StateFailed {
		return false
	}
	if next == StateClosed || next == StateFailed {
		return true
	}
	for _, s := range transitions[cur] {
		if s == next {
			return true
		}
	}
	return false
}
