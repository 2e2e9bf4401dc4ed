package domain

type ClaimStatus string

const (
	ClaimSubmitted ClaimStatus = "submitted"
)

type DocumentStatus string

const (
	DocumentVerified DocumentStatus = "verified"
	DocumentPending  DocumentStatus = "pending"
)

// Claim is one entry in the claims ledger. Immutable after creation except
// for Status; the ledger is ordered most-recent-first.
type Claim struct {
	ID          int64       `json:"id"`
	ClaimNumber int         `json:"claimNumber"`
	Date        string      `json:"date"`
	Status      ClaimStatus `json:"status"`
	Vehicle     string      `json:"vehicle"`
	Incident    string      `json:"incident"`
	Estimate    string      `json:"estimate"`
	Parts       []PartCost  `json:"parts"`
}

// PartCost pairs a damaged part with its display-formatted repair cost.
type PartCost struct {
	Name string `json:"name"`
	Cost string `json:"cost"`
}

// Document is vault metadata for an uploaded file. The original bytes live
// in object storage keyed by the document ID.
type Document struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Date   string         `json:"date"`
	Status DocumentStatus `json:"status"`
}

// DamageReport is the structured result of a vision analysis. It is consumed
// immediately to build a Claim and is never persisted on its own.
type DamageReport struct {
	RiskTitle       string     `json:"risk_title"`
	RiskDescription string     `json:"risk_description"`
	Parts           []PartCost `json:"parts"`
	TotalEstimate   string     `json:"total_estimate"`
	Repairability   string     `json:"repairability"`
}

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Turn is a single chat message within an advisor session. Turns are not
// persisted across sessions.
type Turn struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
	Lang   string `json:"lang,omitempty"`
}

// Language is one of the advisor's supported languages.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// Insurer is a marketplace catalog entry. Price is the monthly premium in
// Naira; Reviews is the display-formatted count.
type Insurer struct {
	Name        string  `json:"name"`
	Price       int     `json:"price"`
	Rating      float64 `json:"rating"`
	Reviews     string  `json:"reviews"`
	PayoutSpeed string  `json:"payoutSpeed"`
	BestFor     string  `json:"bestFor"`
	Popular     bool    `json:"popular"`
	Link        string  `json:"link"`
}

// PaymentPlan is one premium payment cadence option.
type PaymentPlan struct {
	Period string `json:"period"`
	Price  string `json:"price"`
	Note   string `json:"note,omitempty"`
}
