package screening

import (
	"fmt"
	"strings"
	"time"

	"dossier/internal/dossier/models"
	"dossier/internal/refdata"
)

// Issue is one detected inconsistency. Message is the audit-visible text;
// Rule identifies the originating rule for metrics.
type Issue struct {
	Rule    string
	Message string
}

// Env carries the injected collaborators a rule may consult. Now is the
// wall clock for forward-looking checks; the age floor uses a fixed instant.
type Env struct {
	Lookup refdata.Lookup
	Now    func() time.Time
}

// Rule is a pure check over a full dossier. Rules only ever append issues;
// missing optional fields short-circuit to no issues unless the rule's
// contract makes the field mandatory.
type Rule struct {
	Name  string
	Check func(*models.Record, Env) []Issue
}

// ageFloorReference is the fixed instant against which the minimum-age check
// is evaluated, so batch reruns over historical dossiers stay reproducible.
var ageFloorReference = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

// acceptedCurrencies is the allow-list for client profile currencies.
var acceptedCurrencies = map[string]struct{}{
	"DKK": {}, "NOK": {}, "CHF": {}, "EUR": {}, "GBP": {}, "USD": {}, "ISK": {},
}

func one(rule, message string) []Issue {
	return []Issue{{Rule: rule, Message: message}}
}

// Catalog returns the full rule set in evaluation order. The order is part of
// the engine's contract: explanations join issue messages in exactly this
// sequence.
func Catalog() []Rule {
	return []Rule{
		{Name: "passport_birth_date", Check: checkPassportBirthDate},
		{Name: "passport_validity_window", Check: checkPassportValidityWindow},
		{Name: "passport_number_format", Check: checkPassportNumberFormat},
		{Name: "passport_country_consistency", Check: checkPassportCountryConsistency},
		{Name: "profile_address", Check: checkProfileAddress},
		{Name: "profile_email", Check: checkProfileEmail},
		{Name: "profile_wealth_details", Check: checkProfileWealthDetails},
		{Name: "profile_inheritance_year", Check: checkProfileInheritanceYear},
		{Name: "profile_phone", Check: checkProfilePhone},
		{Name: "profile_currency", Check: checkProfileCurrency},
		{Name: "account_name_composition", Check: checkAccountNameComposition},
		{Name: "account_contact_details", Check: checkAccountContactDetails},
		{Name: "cross_gender", Check: checkCrossGender},
		{Name: "cross_nationality", Check: checkCrossNationality},
		{Name: "cross_birth_date", Check: checkCrossBirthDate},
		{Name: "cross_passport_dates", Check: checkCrossPassportDates},
		{Name: "cross_name", Check: checkCrossName},
		{Name: "cross_address", Check: checkCrossAddress},
		{Name: "cross_phone", Check: checkCrossPhone},
		{Name: "cross_email", Check: checkCrossEmail},
		{Name: "cross_full_name", Check: checkCrossFullName},
		{Name: "cross_passport_number", Check: checkCrossPassportNumber},
	}
}

func checkPassportBirthDate(r *models.Record, _ Env) []Issue {
	p := r.Passport
	if p == nil || p.BirthDate == "" {
		return nil
	}
	born, ok := parseDate(p.BirthDate)
	if !ok || !born.Before(ageFloorReference) {
		return one("passport_birth_date", "Invalid or inconsistent birth date in passport.")
	}
	ageDays := int(ageFloorReference.Sub(born).Hours() / 24)
	leapDays := 0
	for year := born.Year(); year <= ageFloorReference.Year(); year++ {
		if isLeapYear(year) {
			leapDays++
		}
	}
	if float64(ageDays-leapDays)/365 < 18 {
		return one("passport_birth_date", "Client is under 18 years old based on birth date.")
	}
	return nil
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func checkPassportValidityWindow(r *models.Record, env Env) []Issue {
	p := r.Passport
	if p == nil || p.IssueDate == "" || p.ExpiryDate == "" {
		return nil
	}
	var issues []Issue
	issued, okIssued := parseDate(p.IssueDate)
	expires, okExpires := parseDate(p.ExpiryDate)
	if !okIssued || !okExpires || !issued.Before(expires) {
		issues = append(issues, Issue{Rule: "passport_validity_window", Message: "Passport issue date is not before expiry date."})
	}
	now := env.Now()
	if okExpires && !expires.After(now) {
		issues = append(issues, Issue{Rule: "passport_validity_window", Message: "Passport expiry date is not in the future."})
	}
	if okIssued && !issued.Before(now) {
		issues = append(issues, Issue{Rule: "passport_validity_window", Message: "Passport issue date is in the future."})
	}
	return issues
}

func checkPassportNumberFormat(r *models.Record, _ Env) []Issue {
	p := r.Passport
	if p == nil || p.Number == "" {
		return nil
	}
	if !passportNumberShaped(p.Number) {
		return one("passport_number_format", "Invalid passport number format.")
	}
	return nil
}

func checkPassportCountryConsistency(r *models.Record, env Env) []Issue {
	p := r.Passport
	if p == nil || p.Country == "" || p.CountryCode == "" || p.Nationality == "" {
		return nil
	}
	country, ok := env.Lookup.Resolve(p.CountryCode)
	if !ok {
		return one("passport_country_consistency", "Invalid country code.")
	}
	var issues []Issue
	if !strings.EqualFold(p.Country, country.Name) {
		issues = append(issues, Issue{
			Rule: "passport_country_consistency",
			Message: fmt.Sprintf("Country code does not match the country. Expected: %s, Provided: %s.",
				strings.ToLower(country.Name), strings.ToLower(p.Country)),
		})
	}
	// A missing demonym means the reference data cannot verify nationality;
	// that is a data gap, not a client inconsistency.
	if country.Nationality != "" && !strings.EqualFold(p.Nationality, country.Nationality) {
		issues = append(issues, Issue{
			Rule: "passport_country_consistency",
			Message: fmt.Sprintf("Nationality does not match the expected nationality based on country code. Expected: %s, Provided: %s.",
				strings.ToLower(country.Nationality), strings.ToLower(p.Nationality)),
		})
	}
	return issues
}

func checkProfileAddress(r *models.Record, _ Env) []Issue {
	cp := r.ClientProfile
	if cp == nil {
		return nil
	}
	if !cp.Address.Complete() {
		return one("profile_address", "Address in client profile is missing or incorrectly formatted.")
	}
	return nil
}

func checkProfileEmail(r *models.Record, _ Env) []Issue {
	cp := r.ClientProfile
	if cp == nil || cp.Email == "" {
		return nil
	}
	if !emailShaped(cp.Email) {
		return one("profile_email", "Invalid email address in client profile.")
	}
	return nil
}

func checkProfileWealthDetails(r *models.Record, _ Env) []Issue {
	cp := r.ClientProfile
	if cp == nil {
		return nil
	}
	var issues []Issue
	if cp.AUM.Inheritance > 0 && len(cp.InheritanceDetails) == 0 {
		issues = append(issues, Issue{Rule: "profile_wealth_details", Message: "Inheritance details are missing despite inheritance > 0."})
	}
	if cp.AUM.RealEstateValue > 0 && len(cp.RealEstateDetails) == 0 {
		issues = append(issues, Issue{Rule: "profile_wealth_details", Message: "Real estate details are missing despite real estate value > 0."})
	}
	return issues
}

func checkProfileInheritanceYear(r *models.Record, env Env) []Issue {
	cp := r.ClientProfile
	if cp == nil {
		return nil
	}
	year := cp.InheritanceYear()
	if year == "" {
		return nil
	}
	inherited, ok := parseDate(year + "-01-01")
	if !ok || !inherited.Before(env.Now()) {
		return one("profile_inheritance_year", "Inheritance year is not in the past or within lifetime.")
	}
	return nil
}

func checkProfilePhone(r *models.Record, _ Env) []Issue {
	cp := r.ClientProfile
	if cp == nil || cp.Phone == "" {
		return nil
	}
	if !phoneShaped(cp.Phone) {
		return one("profile_phone", "Phone number in client profile is not numerical.")
	}
	return nil
}

func checkProfileCurrency(r *models.Record, _ Env) []Issue {
	cp := r.ClientProfile
	if cp == nil || cp.Currency == "" {
		return nil
	}
	if _, ok := acceptedCurrencies[cp.Currency]; !ok {
		return one("profile_currency", fmt.Sprintf("Currency %s is not accepted", cp.Currency))
	}
	return nil
}

func checkAccountNameComposition(r *models.Record, _ Env) []Issue {
	af := r.AccountForm
	if af == nil || af.Name == "" {
		return nil
	}
	composed := squashName(af.FirstName + af.MiddleName + af.LastName)
	if composed != squashName(af.Name) {
		return one("account_name_composition", "Name in account form does not match first, middle, and last name (ignoring case and whitespace).")
	}
	return nil
}

func checkAccountContactDetails(r *models.Record, _ Env) []Issue {
	af := r.AccountForm
	if af == nil {
		return nil
	}
	var issues []Issue
	if !af.Address.Complete() {
		issues = append(issues, Issue{Rule: "account_contact_details", Message: "Address in account form is missing or incorrectly formatted."})
	}
	if af.Email != "" && !emailShaped(af.Email) {
		issues = append(issues, Issue{Rule: "account_contact_details", Message: "Invalid email address in account form."})
	}
	if af.Phone != "" && !phoneShaped(af.Phone) {
		issues = append(issues, Issue{Rule: "account_contact_details", Message: "Phone number in account form is not numerical."})
	}
	return issues
}

func checkCrossGender(r *models.Record, _ Env) []Issue {
	if r.Passport == nil || r.ClientProfile == nil {
		return nil
	}
	a, b := r.Passport.Gender, r.ClientProfile.Gender
	if a != "" && b != "" && !strings.EqualFold(a, b) {
		return one("cross_gender", "Gender in passport and client profile do not match.")
	}
	return nil
}

func checkCrossNationality(r *models.Record, _ Env) []Issue {
	if r.Passport == nil || r.ClientProfile == nil {
		return nil
	}
	a, b := r.Passport.Nationality, r.ClientProfile.Nationality
	if a != "" && b != "" && !strings.EqualFold(a, b) {
		return one("cross_nationality", "Nationality in passport and client profile do not match.")
	}
	return nil
}

func checkCrossBirthDate(r *models.Record, _ Env) []Issue {
	if r.Passport == nil || r.ClientProfile == nil {
		return nil
	}
	a, b := r.Passport.BirthDate, r.ClientProfile.BirthDate
	if a != "" && b != "" && a != b {
		return one("cross_birth_date", "Birth date in passport and client profile do not match.")
	}
	return nil
}

func checkCrossPassportDates(r *models.Record, _ Env) []Issue {
	p, cp := r.Passport, r.ClientProfile
	if p == nil || cp == nil {
		return nil
	}
	if p.IssueDate == "" || p.ExpiryDate == "" || cp.PassportIssueDate == "" || cp.PassportExpiryDate == "" {
		return nil
	}
	if p.IssueDate != cp.PassportIssueDate || p.ExpiryDate != cp.PassportExpiryDate {
		return one("cross_passport_dates", "Passport issue or expiry date in passport and client profile do not match.")
	}
	return nil
}

func checkCrossName(r *models.Record, _ Env) []Issue {
	if r.ClientProfile == nil || r.AccountForm == nil {
		return nil
	}
	a, b := r.ClientProfile.Name, r.AccountForm.Name
	if a != "" && b != "" && !strings.EqualFold(a, b) {
		return one("cross_name", "Name in client profile and account form do not match.")
	}
	return nil
}

func checkCrossAddress(r *models.Record, _ Env) []Issue {
	if r.ClientProfile == nil || r.AccountForm == nil {
		return nil
	}
	a, b := r.ClientProfile.Address, r.AccountForm.Address
	if !addressPresent(a) || !addressPresent(b) {
		return nil
	}
	if !a.Equal(b) {
		return one("cross_address", "Address in client profile and account form do not match.")
	}
	return nil
}

// addressPresent treats an address block with no recognized subfields the
// same as a missing one.
func addressPresent(a *models.Address) bool {
	return a != nil && (a.City != nil || a.StreetName != nil || a.StreetNumber != nil || a.PostalCode != nil)
}

func checkCrossPhone(r *models.Record, _ Env) []Issue {
	if r.ClientProfile == nil || r.AccountForm == nil {
		return nil
	}
	a, b := r.ClientProfile.Phone, r.AccountForm.Phone
	if a != "" && b != "" && a != b {
		return one("cross_phone", "Phone number in client profile and account form do not match.")
	}
	return nil
}

func checkCrossEmail(r *models.Record, _ Env) []Issue {
	if r.ClientProfile == nil || r.AccountForm == nil {
		return nil
	}
	a, b := r.ClientProfile.Email, r.AccountForm.Email
	if a != "" && b != "" && !strings.EqualFold(a, b) {
		return one("cross_email", "Email address in client profile and account form do not match.")
	}
	return nil
}

func checkCrossFullName(r *models.Record, _ Env) []Issue {
	af := r.AccountForm
	if af == nil {
		return nil
	}
	if af.FirstName == "" || af.MiddleName == "" || af.LastName == "" || af.Name == "" {
		return nil
	}
	if squashName(af.FirstName+af.MiddleName+af.LastName) != squashName(af.Name) {
		return one("cross_full_name", "Full name in passport and account form do not match.")
	}
	return nil
}

// checkCrossPassportNumber intentionally mirrors the historical three-way
// comparison: the client profile's copy gates the rule but is never compared;
// the second comparison is against the dossier's top-level passport_number.
// Changing this to a symmetric comparison changes acceptance behavior.
func checkCrossPassportNumber(r *models.Record, _ Env) []Issue {
	p, cp, af := r.Passport, r.ClientProfile, r.AccountForm
	if p == nil || cp == nil || af == nil {
		return nil
	}
	if p.Number == "" || af.PassportNumber == "" || cp.PassportNumber == "" {
		return nil
	}
	if p.Number != af.PassportNumber && p.Number != r.PassportNumber {
		return one("cross_passport_number", "Passport number in passport or account form or client data do not match.")
	}
	return nil
}
