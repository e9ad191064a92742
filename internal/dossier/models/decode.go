package models

import (
	"strconv"

	dErrors "dossier/pkg/domainerrors"
)

// Decode builds a typed Record from an already-unmarshalled dossier object.
// The only hard failure is a nil top level; nested values of unexpected types
// degrade to absent fields so a single malformed document never aborts a
// batch.
func Decode(raw map[string]any) (*Record, error) {
	if raw == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "dossier must be a JSON object")
	}

	rec := &Record{
		raw:            raw,
		PassportNumber: getString(raw, "passport_number"),
	}

	if m := getMap(raw, "passport"); m != nil {
		rec.Passport = decodePassport(m)
	}
	if m := getMap(raw, "client_profile"); m != nil {
		rec.ClientProfile = decodeClientProfile(m)
	}
	if m := getMap(raw, "account_form"); m != nil {
		rec.AccountForm = decodeAccountForm(m)
	}
	rec.ClientDescription = getMap(raw, "client_description")
	if m := getMap(raw, "label"); m != nil {
		rec.Label = &Label{Value: getString(m, "label")}
	}
	return rec, nil
}

// Annotate writes the verdict into the retained raw map under the
// internal_score key. Re-annotating overwrites the previous verdict.
func (r *Record) Annotate(v Verdict) {
	if r.raw == nil {
		r.raw = map[string]any{}
	}
	r.raw["internal_score"] = map[string]any{
		"preprocessing": v.Accepted,
		"explanation":   v.Explanation,
	}
}

// Raw returns the underlying map, including any annotation.
func (r *Record) Raw() map[string]any {
	return r.raw
}

func decodePassport(m map[string]any) *Passport {
	return &Passport{
		BirthDate:   getString(m, "birth_date"),
		IssueDate:   getString(m, "passport_issue_date"),
		ExpiryDate:  getString(m, "passport_expiry_date"),
		MRZ:         getStringList(m, "passport_mrz"),
		Number:      getString(m, "passport_number"),
		Country:     getString(m, "country"),
		CountryCode: getString(m, "country_code"),
		Nationality: getString(m, "nationality"),
		Gender:      getString(m, "gender"),
	}
}

func decodeClientProfile(m map[string]any) *ClientProfile {
	p := &ClientProfile{
		Name:               getString(m, "name"),
		Gender:             getString(m, "gender"),
		BirthDate:          getString(m, "birth_date"),
		Nationality:        getString(m, "nationality"),
		PassportNumber:     getString(m, "passport_number"),
		PassportIssueDate:  getString(m, "passport_issue_date"),
		PassportExpiryDate: getString(m, "passport_expiry_date"),
		Address:            decodeAddress(getMap(m, "address")),
		Email:              getString(m, "email_address"),
		Phone:              getString(m, "phone_number"),
		Currency:           getString(m, "currency"),
		CountryOfDomicile:  getString(m, "country_of_domicile"),
		InheritanceDetails: getMap(m, "inheritance_details"),
		RealEstateDetails:  getList(m, "real_estate_details"),

		InvestmentRiskProfile: getString(m, "investment_risk_profile"),
		InvestmentExperience:  getString(m, "investment_experience"),
		TypeOfMandate:         getString(m, "type_of_mandate"),
		PreferredMarkets:      getStringList(m, "preferred_markets"),
	}
	if aum := getMap(m, "aum"); aum != nil {
		p.AUM = AUM{
			Savings:         getNumber(aum, "savings"),
			Inheritance:     getNumber(aum, "inheritance"),
			RealEstateValue: getNumber(aum, "real_estate_value"),
		}
	}
	for _, entry := range getList(m, "employment_history") {
		job, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		p.EmploymentHistory = append(p.EmploymentHistory, Employment{
			StartYear: getYear(job, "start_year"),
			EndYear:   getYear(job, "end_year"),
			Salary:    getNumber(job, "salary"),
			Position:  getString(job, "position"),
		})
	}
	return p
}

func decodeAccountForm(m map[string]any) *AccountForm {
	return &AccountForm{
		FirstName:         getString(m, "first_name"),
		MiddleName:        getString(m, "middle_name"),
		LastName:          getString(m, "last_name"),
		Name:              getString(m, "name"),
		Address:           decodeAddress(getMap(m, "address")),
		Email:             getString(m, "email_address"),
		Phone:             getString(m, "phone_number"),
		CountryOfDomicile: getString(m, "country_of_domicile"),
		PassportNumber:    getString(m, "passport_number"),
	}
}

func decodeAddress(m map[string]any) *Address {
	if m == nil {
		return nil
	}
	return &Address{
		City:         getKeyed(m, "city"),
		StreetName:   getKeyed(m, "street name"),
		StreetNumber: getKeyed(m, "street number"),
		PostalCode:   getKeyed(m, "postal code"),
	}
}

func getMap(m map[string]any, key string) map[string]any {
	v, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	return v
}

func getList(m map[string]any, key string) []any {
	v, ok := m[key].([]any)
	if !ok {
		return nil
	}
	return v
}

func getString(m map[string]any, key string) string {
	return scalarString(m[key])
}

// getKeyed preserves key presence: a key that exists with any scalar value
// yields a non-nil pointer, a missing key yields nil.
func getKeyed(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s := scalarString(v)
	return &s
}

func getNumber(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func getYear(m map[string]any, key string) *int {
	switch v := m[key].(type) {
	case float64:
		y := int(v)
		return &y
	case int:
		return &v
	default:
		return nil
	}
}

func getStringList(m map[string]any, key string) []string {
	var out []string
	for _, v := range getList(m, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}
