// Package eligibility derives an applicant's age and age category from a date
// of birth and a scheme's inclusive age bounds.
package eligibility

import (
	"strconv"
	"strings"
	"time"
)

// Category is the age band shown next to the date of birth.
type Category string

const (
	CategoryNone       Category = ""
	CategoryJunior     Category = "Junior"
	CategorySenior     Category = "Senior"
	CategoryOverage    Category = "Overage"
	CategoryEligible   Category = "Eligible"
	CategoryIneligible Category = "Ineligible"
)

// JuniorCeiling is the oldest age still counted as Junior in banded schemes.
const JuniorCeiling = 18

// BandedThreshold separates the two category policies: schemes whose minimum
// age is at most this value use Junior/Senior/Overage bands, the rest use a
// binary Eligible/Ineligible rule.
const BandedThreshold = 15

func (c Category) String() string { return string(c) }

// Result is the outcome of Compute. Age is nil when the date is empty or
// unparseable, in which case Category is CategoryNone.
type Result struct {
	Age      *int
	Category Category
}

// Valid reports whether an age could be derived.
func (r Result) Valid() bool { return r.Age != nil }

// Compute derives whole-years age as of now and its category.
func Compute(dob string, minAge, maxAge int, now time.Time) Result {
	born, ok := ParseDOB(dob)
	if !ok {
		return Result{}
	}
	age := AgeAt(born, now)
	return Result{Age: &age, Category: Categorize(age, minAge, maxAge)}
}

// AgeAt counts completed years between born and now, using the calendar date
// of each in now's location.
func AgeAt(born, now time.Time) int {
	by, bm, bd := born.Date()
	ny, nm, nd := now.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// Categorize applies the category policy. The two policies are deliberately
// not unified: a banded scheme reports Overage above maxAge, a binary scheme
// reports Ineligible.
func Categorize(age, minAge, maxAge int) Category {
	if minAge > BandedThreshold {
		if age >= minAge && age <= maxAge {
			return CategoryEligible
		}
		return CategoryIneligible
	}

	switch {
	case age >= minAge && age <= JuniorCeiling:
		return CategoryJunior
	case age > JuniorCeiling && age <= maxAge:
		return CategorySenior
	case age > JuniorCeiling && age > maxAge:
		return CategoryOverage
	default:
		return CategoryIneligible
	}
}

// ParseDOB accepts a date input value (2006-01-02) or an RFC 3339 timestamp.
func ParseDOB(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Badge maps a category to the CSS modifier of the age badge.
func Badge(c Category) string {
	switch c {
	case CategoryJunior:
		return "junior"
	case CategorySenior, CategoryEligible:
		return "senior"
	case CategoryIneligible, CategoryOverage:
		return "ineligible"
	default:
		return ""
	}
}

// AgeLabel renders the age widget text: "17 yrs", or "—" without an age.
func (r Result) AgeLabel() string {
	if r.Age == nil {
		return "—"
	}
	return strconv.Itoa(*r.Age) + " yrs"
}
