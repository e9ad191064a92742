package screening

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dossier/internal/dossier/models"
	"dossier/internal/refdata"
)

// =============================================================================
// Rule Catalog Test Suite
// =============================================================================
// Each rule is exercised in isolation against hand-built records so a failing
// rule points directly at the broken check rather than at an aggregate
// verdict.

type RulesSuite struct {
	suite.Suite
	env Env
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) SetupTest() {
	s.env = Env{
		Lookup: refdata.Static(),
		Now:    func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func strPtr(v string) *string {
	return &v
}

func completeAddress() *models.Address {
	return &models.Address{
		City:         strPtr("Zurich"),
		StreetName:   strPtr("Bahnhofstrasse"),
		StreetNumber: strPtr("1"),
		PostalCode:   strPtr("8001"),
	}
}

func messages(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Message)
	}
	return out
}

// =============================================================================
// Passport intra-document rules
// =============================================================================

func (s *RulesSuite) TestPassportBirthDate() {
	s.Run("absent passport yields no issues", func() {
		s.Empty(checkPassportBirthDate(&models.Record{}, s.env))
	})

	s.Run("absent birth date yields no issues", func() {
		rec := &models.Record{Passport: &models.Passport{}}
		s.Empty(checkPassportBirthDate(rec, s.env))
	})

	s.Run("unparseable birth date is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{BirthDate: "01.02.1990"}}
		s.Equal([]string{"Invalid or inconsistent birth date in passport."},
			messages(checkPassportBirthDate(rec, s.env)))
	})

	s.Run("birth date on or after the reference instant is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{BirthDate: "2025-04-01"}}
		s.Equal([]string{"Invalid or inconsistent birth date in passport."},
			messages(checkPassportBirthDate(rec, s.env)))
	})

	s.Run("under 18 is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{BirthDate: "2010-01-01"}}
		s.Equal([]string{"Client is under 18 years old based on birth date."},
			messages(checkPassportBirthDate(rec, s.env)))
	})

	s.Run("adult passes", func() {
		rec := &models.Record{Passport: &models.Passport{BirthDate: "1990-02-03"}}
		s.Empty(checkPassportBirthDate(rec, s.env))
	})

	s.Run("just over 18 passes", func() {
		rec := &models.Record{Passport: &models.Passport{BirthDate: "2007-03-31"}}
		s.Empty(checkPassportBirthDate(rec, s.env))
	})
}

func (s *RulesSuite) TestPassportValidityWindow() {
	s.Run("requires both dates", func() {
		rec := &models.Record{Passport: &models.Passport{IssueDate: "2020-01-01"}}
		s.Empty(checkPassportValidityWindow(rec, s.env))
	})

	s.Run("issue after expiry is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{
			IssueDate:  "2031-01-01",
			ExpiryDate: "2030-01-01",
		}}
		s.Equal([]string{
			"Passport issue date is not before expiry date.",
			"Passport issue date is in the future.",
		}, messages(checkPassportValidityWindow(rec, s.env)))
	})

	s.Run("expired passport is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{
			IssueDate:  "2010-05-01",
			ExpiryDate: "2020-05-01",
		}}
		s.Equal([]string{"Passport expiry date is not in the future."},
			messages(checkPassportValidityWindow(rec, s.env)))
	})

	s.Run("issue date in the future is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{
			IssueDate:  "2030-01-01",
			ExpiryDate: "2040-01-01",
		}}
		s.Equal([]string{"Passport issue date is in the future."},
			messages(checkPassportValidityWindow(rec, s.env)))
	})

	s.Run("unparseable dates only flag the ordering check", func() {
		rec := &models.Record{Passport: &models.Passport{
			IssueDate:  "soon",
			ExpiryDate: "later",
		}}
		s.Equal([]string{"Passport issue date is not before expiry date."},
			messages(checkPassportValidityWindow(rec, s.env)))
	})

	s.Run("valid window passes", func() {
		rec := &models.Record{Passport: &models.Passport{
			IssueDate:  "2020-05-01",
			ExpiryDate: "2030-05-01",
		}}
		s.Empty(checkPassportValidityWindow(rec, s.env))
	})
}

func (s *RulesSuite) TestPassportNumberFormat() {
	s.Run("absent number yields no issues", func() {
		rec := &models.Record{Passport: &models.Passport{}}
		s.Empty(checkPassportNumberFormat(rec, s.env))
	})

	s.Run("upper-case alphanumeric passes", func() {
		rec := &models.Record{Passport: &models.Passport{Number: "X1234567"}}
		s.Empty(checkPassportNumberFormat(rec, s.env))
	})

	s.Run("lower case is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{Number: "x1234567"}}
		s.Equal([]string{"Invalid passport number format."},
			messages(checkPassportNumberFormat(rec, s.env)))
	})

	s.Run("separator characters are flagged", func() {
		rec := &models.Record{Passport: &models.Passport{Number: "X123-4567"}}
		s.Equal([]string{"Invalid passport number format."},
			messages(checkPassportNumberFormat(rec, s.env)))
	})
}

func (s *RulesSuite) TestPassportCountryConsistency() {
	s.Run("requires country, code, and nationality", func() {
		rec := &models.Record{Passport: &models.Passport{Country: "France", CountryCode: "FRA"}}
		s.Empty(checkPassportCountryConsistency(rec, s.env))
	})

	s.Run("consistent triple passes", func() {
		rec := &models.Record{Passport: &models.Passport{
			Country:     "France",
			CountryCode: "FRA",
			Nationality: "French",
		}}
		s.Empty(checkPassportCountryConsistency(rec, s.env))
	})

	s.Run("comparison is case-insensitive", func() {
		rec := &models.Record{Passport: &models.Passport{
			Country:     "FRANCE",
			CountryCode: "fra",
			Nationality: "french",
		}}
		s.Empty(checkPassportCountryConsistency(rec, s.env))
	})

	s.Run("country name mismatch quotes both values", func() {
		rec := &models.Record{Passport: &models.Passport{
			Country:     "Germany",
			CountryCode: "FRA",
			Nationality: "French",
		}}
		s.Equal([]string{"Country code does not match the country. Expected: france, Provided: germany."},
			messages(checkPassportCountryConsistency(rec, s.env)))
	})

	s.Run("nationality mismatch quotes both values", func() {
		rec := &models.Record{Passport: &models.Passport{
			Country:     "France",
			CountryCode: "FRA",
			Nationality: "German",
		}}
		s.Equal([]string{"Nationality does not match the expected nationality based on country code. Expected: french, Provided: german."},
			messages(checkPassportCountryConsistency(rec, s.env)))
	})

	s.Run("unknown code is flagged", func() {
		rec := &models.Record{Passport: &models.Passport{
			Country:     "Atlantis",
			CountryCode: "ATL",
			Nationality: "Atlantean",
		}}
		s.Equal([]string{"Invalid country code."},
			messages(checkPassportCountryConsistency(rec, s.env)))
	})

	s.Run("missing demonym is a data gap, not an issue", func() {
		env := s.env
		env.Lookup = fakeLookup{"FRA": {Name: "France"}}
		rec := &models.Record{Passport: &models.Passport{
			Country:     "France",
			CountryCode: "FRA",
			Nationality: "Martian",
		}}
		s.Empty(checkPassportCountryConsistency(rec, env))
	})
}

type fakeLookup map[string]refdata.Country

func (f fakeLookup) Resolve(code string) (refdata.Country, bool) {
	c, ok := f[code]
	return c, ok
}

// =============================================================================
// Client profile intra-document rules
// =============================================================================

func (s *RulesSuite) TestProfileAddress() {
	s.Run("absent profile yields no issues", func() {
		s.Empty(checkProfileAddress(&models.Record{}, s.env))
	})

	s.Run("profile without address is flagged", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{}}
		s.Equal([]string{"Address in client profile is missing or incorrectly formatted."},
			messages(checkProfileAddress(rec, s.env)))
	})

	s.Run("partial address is flagged", func() {
		addr := completeAddress()
		addr.PostalCode = nil
		rec := &models.Record{ClientProfile: &models.ClientProfile{Address: addr}}
		s.Equal([]string{"Address in client profile is missing or incorrectly formatted."},
			messages(checkProfileAddress(rec, s.env)))
	})

	s.Run("complete address passes", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Address: completeAddress()}}
		s.Empty(checkProfileAddress(rec, s.env))
	})
}

func (s *RulesSuite) TestProfileEmail() {
	s.Run("absent email yields no issues", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{}}
		s.Empty(checkProfileEmail(rec, s.env))
	})

	s.Run("shaped email passes", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Email: "jane.doe@example.com"}}
		s.Empty(checkProfileEmail(rec, s.env))
	})

	s.Run("malformed email is flagged", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Email: "jane.doe-example.com"}}
		s.Equal([]string{"Invalid email address in client profile."},
			messages(checkProfileEmail(rec, s.env)))
	})
}

func (s *RulesSuite) TestProfileWealthDetails() {
	s.Run("inheritance without details is flagged", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{
			AUM:                models.AUM{Inheritance: 50000},
			InheritanceDetails: map[string]any{},
		}}
		s.Equal([]string{"Inheritance details are missing despite inheritance > 0."},
			messages(checkProfileWealthDetails(rec, s.env)))
	})

	s.Run("real estate value without details is flagged", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{
			AUM: models.AUM{RealEstateValue: 900000},
		}}
		s.Equal([]string{"Real estate details are missing despite real estate value > 0."},
			messages(checkProfileWealthDetails(rec, s.env)))
	})

	s.Run("both gaps report both issues in order", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{
			AUM: models.AUM{Inheritance: 1, RealEstateValue: 1},
		}}
		s.Equal([]string{
			"Inheritance details are missing despite inheritance > 0.",
			"Real estate details are missing despite real estate value > 0.",
		}, messages(checkProfileWealthDetails(rec, s.env)))
	})

	s.Run("zero amounts need no details", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{}}
		s.Empty(checkProfileWealthDetails(rec, s.env))
	})

	s.Run("populated details pass", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{
			AUM:                models.AUM{Inheritance: 50000, RealEstateValue: 900000},
			InheritanceDetails: map[string]any{"relationship": "grandmother"},
			RealEstateDetails:  []any{map[string]any{"type": "villa"}},
		}}
		s.Empty(checkProfileWealthDetails(rec, s.env))
	})
}

func (s *RulesSuite) TestProfileInheritanceYear() {
	profileWithYear := func(year any) *models.Record {
		return &models.Record{ClientProfile: &models.ClientProfile{
			InheritanceDetails: map[string]any{"inheritance year": year},
		}}
	}

	s.Run("absent year yields no issues", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{
			InheritanceDetails: map[string]any{"relationship": "aunt"},
		}}
		s.Empty(checkProfileInheritanceYear(rec, s.env))
	})

	s.Run("past year passes", func() {
		s.Empty(checkProfileInheritanceYear(profileWithYear(float64(2015)), s.env))
	})

	s.Run("future year is flagged", func() {
		s.Equal([]string{"Inheritance year is not in the past or within lifetime."},
			messages(checkProfileInheritanceYear(profileWithYear(float64(2030)), s.env)))
	})

	s.Run("unparseable year is flagged", func() {
		s.Equal([]string{"Inheritance year is not in the past or within lifetime."},
			messages(checkProfileInheritanceYear(profileWithYear("a while ago"), s.env)))
	})
}

func (s *RulesSuite) TestProfilePhone() {
	s.Run("digits with plus and spaces pass", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Phone: "+41 79 123 45 67"}}
		s.Empty(checkProfilePhone(rec, s.env))
	})

	s.Run("letters are flagged", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Phone: "call me"}}
		s.Equal([]string{"Phone number in client profile is not numerical."},
			messages(checkProfilePhone(rec, s.env)))
	})
}

func (s *RulesSuite) TestProfileCurrency() {
	s.Run("allow-listed currency passes", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Currency: "CHF"}}
		s.Empty(checkProfileCurrency(rec, s.env))
	})

	s.Run("rejected currency is named", func() {
		rec := &models.Record{ClientProfile: &models.ClientProfile{Currency: "JPY"}}
		s.Equal([]string{"Currency JPY is not accepted"},
			messages(checkProfileCurrency(rec, s.env)))
	})
}

// =============================================================================
// Account form intra-document rules
// =============================================================================

func (s *RulesSuite) TestAccountNameComposition() {
	s.Run("case and whitespace differences are tolerated", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{
			FirstName:  "Jane",
			MiddleName: "A",
			LastName:   "Doe",
			Name:       "Jane A Doe",
		}}
		s.Empty(checkAccountNameComposition(rec, s.env))
	})

	s.Run("mismatching composition is flagged", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{
			FirstName:  "Jane",
			MiddleName: "A",
			LastName:   "Doe",
			Name:       "Janet A Doe",
		}}
		s.Equal([]string{"Name in account form does not match first, middle, and last name (ignoring case and whitespace)."},
			messages(checkAccountNameComposition(rec, s.env)))
	})

	s.Run("absent composed name yields no issues", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{FirstName: "Jane", LastName: "Doe"}}
		s.Empty(checkAccountNameComposition(rec, s.env))
	})
}

func (s *RulesSuite) TestAccountContactDetails() {
	s.Run("absent account form yields no issues", func() {
		s.Empty(checkAccountContactDetails(&models.Record{}, s.env))
	})

	s.Run("missing address, bad email, and bad phone stack in order", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{
			Email: "nope",
			Phone: "ring ring",
		}}
		s.Equal([]string{
			"Address in account form is missing or incorrectly formatted.",
			"Invalid email address in account form.",
			"Phone number in account form is not numerical.",
		}, messages(checkAccountContactDetails(rec, s.env)))
	})

	s.Run("well-formed contact details pass", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{
			Address: completeAddress(),
			Email:   "jane@example.com",
			Phone:   "+41791234567",
		}}
		s.Empty(checkAccountContactDetails(rec, s.env))
	})
}

// =============================================================================
// Cross-document rules
// =============================================================================

func (s *RulesSuite) TestCrossFieldMatches() {
	s.Run("gender mismatch", func() {
		rec := &models.Record{
			Passport:      &models.Passport{Gender: "F"},
			ClientProfile: &models.ClientProfile{Gender: "M"},
		}
		s.Equal([]string{"Gender in passport and client profile do not match."},
			messages(checkCrossGender(rec, s.env)))
	})

	s.Run("gender comparison ignores case", func() {
		rec := &models.Record{
			Passport:      &models.Passport{Gender: "f"},
			ClientProfile: &models.ClientProfile{Gender: "F"},
		}
		s.Empty(checkCrossGender(rec, s.env))
	})

	s.Run("nationality mismatch", func() {
		rec := &models.Record{
			Passport:      &models.Passport{Nationality: "French"},
			ClientProfile: &models.ClientProfile{Nationality: "Swiss"},
		}
		s.Equal([]string{"Nationality in passport and client profile do not match."},
			messages(checkCrossNationality(rec, s.env)))
	})

	s.Run("birth date comparison is exact", func() {
		rec := &models.Record{
			Passport:      &models.Passport{BirthDate: "1990-02-03"},
			ClientProfile: &models.ClientProfile{BirthDate: "1990-02-04"},
		}
		s.Equal([]string{"Birth date in passport and client profile do not match."},
			messages(checkCrossBirthDate(rec, s.env)))
	})

	s.Run("passport dates require all four fields", func() {
		rec := &models.Record{
			Passport:      &models.Passport{IssueDate: "2020-01-01", ExpiryDate: "2030-01-01"},
			ClientProfile: &models.ClientProfile{PassportIssueDate: "2020-01-01"},
		}
		s.Empty(checkCrossPassportDates(rec, s.env))
	})

	s.Run("passport date mismatch", func() {
		rec := &models.Record{
			Passport: &models.Passport{IssueDate: "2020-01-01", ExpiryDate: "2030-01-01"},
			ClientProfile: &models.ClientProfile{
				PassportIssueDate:  "2020-01-01",
				PassportExpiryDate: "2031-01-01",
			},
		}
		s.Equal([]string{"Passport issue or expiry date in passport and client profile do not match."},
			messages(checkCrossPassportDates(rec, s.env)))
	})

	s.Run("name mismatch", func() {
		rec := &models.Record{
			ClientProfile: &models.ClientProfile{Name: "Jane Doe"},
			AccountForm:   &models.AccountForm{Name: "John Doe"},
		}
		s.Equal([]string{"Name in client profile and account form do not match."},
			messages(checkCrossName(rec, s.env)))
	})

	s.Run("address mismatch", func() {
		other := completeAddress()
		other.City = strPtr("Geneva")
		rec := &models.Record{
			ClientProfile: &models.ClientProfile{Address: completeAddress()},
			AccountForm:   &models.AccountForm{Address: other},
		}
		s.Equal([]string{"Address in client profile and account form do not match."},
			messages(checkCrossAddress(rec, s.env)))
	})

	s.Run("empty address block counts as absent", func() {
		rec := &models.Record{
			ClientProfile: &models.ClientProfile{Address: &models.Address{}},
			AccountForm:   &models.AccountForm{Address: completeAddress()},
		}
		s.Empty(checkCrossAddress(rec, s.env))
	})

	s.Run("phone comparison is exact", func() {
		rec := &models.Record{
			ClientProfile: &models.ClientProfile{Phone: "+41 79 123 45 67"},
			AccountForm:   &models.AccountForm{Phone: "+41791234567"},
		}
		s.Equal([]string{"Phone number in client profile and account form do not match."},
			messages(checkCrossPhone(rec, s.env)))
	})

	s.Run("email comparison ignores case", func() {
		rec := &models.Record{
			ClientProfile: &models.ClientProfile{Email: "Jane@Example.com"},
			AccountForm:   &models.AccountForm{Email: "jane@example.com"},
		}
		s.Empty(checkCrossEmail(rec, s.env))
	})

	s.Run("full name requires every part including middle name", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{
			FirstName: "Jane",
			LastName:  "Doe",
			Name:      "Someone Else",
		}}
		s.Empty(checkCrossFullName(rec, s.env))
	})

	s.Run("full name mismatch", func() {
		rec := &models.Record{AccountForm: &models.AccountForm{
			FirstName:  "Jane",
			MiddleName: "A",
			LastName:   "Doe",
			Name:       "John B Smith",
		}}
		s.Equal([]string{"Full name in passport and account form do not match."},
			messages(checkCrossFullName(rec, s.env)))
	})
}

func (s *RulesSuite) TestCrossPassportNumber() {
	base := func() *models.Record {
		return &models.Record{
			Passport:      &models.Passport{Number: "X1111111"},
			ClientProfile: &models.ClientProfile{PassportNumber: "X3333333"},
			AccountForm:   &models.AccountForm{PassportNumber: "X2222222"},
		}
	}

	s.Run("differs from account form and top level", func() {
		s.Equal([]string{"Passport number in passport or account form or client data do not match."},
			messages(checkCrossPassportNumber(base(), s.env)))
	})

	s.Run("matching account form copy suppresses the issue even when the profile differs", func() {
		rec := base()
		rec.AccountForm.PassportNumber = "X1111111"
		s.Empty(checkCrossPassportNumber(rec, s.env))
	})

	s.Run("matching top-level copy suppresses the issue", func() {
		rec := base()
		rec.PassportNumber = "X1111111"
		s.Empty(checkCrossPassportNumber(rec, s.env))
	})

	s.Run("profile copy only gates the rule", func() {
		rec := base()
		rec.ClientProfile.PassportNumber = ""
		s.Empty(checkCrossPassportNumber(rec, s.env))
	})
}
