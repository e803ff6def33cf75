// Package domain defines the office settings types and ports
package domain

import (
	"context"
	"strings"
	"unicode"
)

// OfficeSettings is the singleton configuration row for the office
// External API credentials ride along so operators manage them in one place
type OfficeSettings struct {
	CompanyName  string `json:"company_name"`
	AttorneyName string `json:"attorney_name"`
	OABAttorney  string `json:"oab_attorney"`
	OABCompany   string `json:"oab_company"`
	ZapSignToken string `json:"zapsign_token"`
	DataJudKey   string `json:"datajud_key"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// OABCredential is the registration used for portal publication searches
type OABCredential struct {
	Number string
	State  string
}

// DefaultUF is assumed when a registration carries no recognizable state code
const DefaultUF = "PA"

// CredentialsPort resolves the search credential from stored settings
type CredentialsPort interface {
	ResolveOAB(ctx context.Context) (OABCredential, error)
}

// ParseOAB extracts number and state from a free-form OAB registration such
// as "OAB/PA 12.345" or "12345 PA". The attorney registration wins; the firm
// registration is the fallback. Empty input yields ok=false
func ParseOAB(attorney, company string) (OABCredential, bool) {
	src := strings.TrimSpace(attorney)
	if src == "" {
		src = strings.TrimSpace(company)
	}
	if src == "" {
		return OABCredential{}, false
	}

	cred := OABCredential{State: DefaultUF}

	// first run of exactly two letters is the UF; longer runs ("OAB") are not
	if uf, ok := firstTwoLetterRun(strings.ToUpper(src)); ok {
		cred.State = uf
	}

	var digits strings.Builder
	for _, r := range src {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	cred.Number = digits.String()

	if cred.Number == "" {
		return OABCredential{}, false
	}
	return cred, true
}

// firstTwoLetterRun scans s for the first maximal run of A-Z letters whose
// length is exactly two
func firstTwoLetterRun(s string) (string, bool) {
	run := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
			run++
			continue
		}
		if run == 2 {
			return s[i-2 : i], true
		}
		run = 0
	}
	return "", false
}
