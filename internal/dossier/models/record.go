// Package models defines typed views over the five merged onboarding
// documents. Fields that may be absent in the source JSON use the zero value
// ("" for strings, nil for pointers and maps) as the absence signal, so rules
// never have to probe raw maps.
package models

// Record aggregates the documents of one client dossier. It retains the raw
// decoded map so annotation preserves fields this engine does not model.
type Record struct {
	Passport          *Passport
	ClientProfile     *ClientProfile
	AccountForm       *AccountForm
	ClientDescription map[string]any
	Label             *Label

	// PassportNumber is the rarely populated top-level copy of the passport
	// number, kept because the cross-document number check consults it.
	PassportNumber string

	raw map[string]any
}

// Passport mirrors passport.json.
type Passport struct {
	BirthDate   string
	IssueDate   string
	ExpiryDate  string
	MRZ         []string
	Number      string
	Country     string
	CountryCode string
	Nationality string
	Gender      string
}

// Address is shared by the client profile and the account form. Pointer
// fields distinguish a key that is present (possibly empty) from one that is
// missing entirely, which the mandatory-address checks care about.
type Address struct {
	City         *string
	StreetName   *string
	StreetNumber *string
	PostalCode   *string
}

// Complete reports whether all four required subfields are present.
func (a *Address) Complete() bool {
	return a != nil && a.City != nil && a.StreetName != nil && a.StreetNumber != nil && a.PostalCode != nil
}

// Equal compares two addresses field by field, treating a missing subfield as
// distinct from an empty one.
func (a *Address) Equal(b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return eqPtr(a.City, b.City) &&
		eqPtr(a.StreetName, b.StreetName) &&
		eqPtr(a.StreetNumber, b.StreetNumber) &&
		eqPtr(a.PostalCode, b.PostalCode)
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AUM is the assets-under-management breakdown of the client profile.
type AUM struct {
	Savings         float64
	Inheritance     float64
	RealEstateValue float64
}

// Employment is one entry of the profile's employment history.
type Employment struct {
	StartYear *int
	EndYear   *int
	Salary    float64
	Position  string
}

// ClientProfile mirrors client_profile.json.
type ClientProfile struct {
	Name               string
	Gender             string
	BirthDate          string
	Nationality        string
	PassportNumber     string
	PassportIssueDate  string
	PassportExpiryDate string
	Address            *Address
	Email              string
	Phone              string
	Currency           string
	CountryOfDomicile  string
	AUM                AUM
	InheritanceDetails map[string]any
	RealEstateDetails  []any
	EmploymentHistory  []Employment

	InvestmentRiskProfile string
	InvestmentExperience  string
	TypeOfMandate         string
	PreferredMarkets      []string
}

// InheritanceYear returns the "inheritance year" detail rendered as a string,
// or "" when absent. The source data carries it as either a number or a
// string.
func (p *ClientProfile) InheritanceYear() string {
	if p == nil || p.InheritanceDetails == nil {
		return ""
	}
	return scalarString(p.InheritanceDetails["inheritance year"])
}

// AccountForm mirrors account_form.json.
type AccountForm struct {
	FirstName         string
	MiddleName        string
	LastName          string
	Name              string
	Address           *Address
	Email             string
	Phone             string
	CountryOfDomicile string
	PassportNumber    string
}

// Label is the ground-truth decision shipped with training dossiers. It is
// consumed only by batch audit statistics, never by the engine.
type Label struct {
	Value string
}

// Verdict is the engine's output: accepted iff no rule reported an issue,
// with all issue messages joined by "; " in rule order.
type Verdict struct {
	Accepted    bool   `json:"preprocessing"`
	Explanation string `json:"explanation"`
}
