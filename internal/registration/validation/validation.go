// Package validation holds the field validators shared by every scheme.
//
// A validator returns "" when the value is acceptable and a user-facing
// message otherwise. Field errors are outcomes, not Go errors.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"regdesk/internal/registration/eligibility"
	id "regdesk/pkg/domain"
)

var (
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// MinNameLength is the shortest accepted name after trimming.
const MinNameLength = 3

// FullName requires a trimmed name of at least three characters.
func FullName(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Full name is required."
	}
	if len([]rune(v)) < MinNameLength {
		return "Name must be at least 3 characters."
	}
	return ""
}

// DOB requires a parseable date whose age lies within [minAge, maxAge].
func DOB(v string, minAge, maxAge int, now time.Time) string {
	if v == "" {
		return "Date of birth is required."
	}
	info := eligibility.Compute(v, minAge, maxAge, now)
	if info.Age == nil {
		return "Invalid date."
	}
	if *info.Age < minAge {
		return fmt.Sprintf("Minimum age is %d years.", minAge)
	}
	if *info.Age > maxAge {
		return fmt.Sprintf("Maximum age is %d years.", maxAge)
	}
	return ""
}

// Gender requires a selection.
func Gender(v string) string {
	if v == "" {
		return "Please select a gender option."
	}
	return ""
}

// Mobile requires a 10-digit number starting with 6-9.
func Mobile(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Mobile number is required."
	}
	if !phonePattern.MatchString(v) {
		return "Enter a valid 10-digit mobile number."
	}
	return ""
}

// Email is optional; a present value must look like local@domain.tld.
func Email(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !emailPattern.MatchString(v) {
		return "Enter a valid email address."
	}
	return ""
}

// District requires a selection.
func District(v string) string {
	if v == "" {
		return "Please select your district."
	}
	return ""
}

// Photo requires an accepted upload.
func Photo(hasPhoto bool) string {
	if !hasPhoto {
		return "Please upload a photo."
	}
	return ""
}

// EmergencyName requires a trimmed name of at least three characters.
func EmergencyName(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Emergency contact name is required."
	}
	if len([]rune(v)) < MinNameLength {
		return "Name must be at least 3 characters."
	}
	return ""
}

// EmergencyPhone requires a 10-digit number starting with 6-9.
func EmergencyPhone(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Emergency contact phone is required."
	}
	if !phonePattern.MatchString(v) {
		return "Enter a valid 10-digit phone number."
	}
	return ""
}

// EmergencyRelation requires a selection.
func EmergencyRelation(v string) string {
	if v == "" {
		return "Please select the relation."
	}
	return ""
}

var consentMessages = map[id.ConsentKind]string{
	id.ConsentAccuracy: "Please confirm accuracy of information.",
	id.ConsentMedical:  "Please confirm medical fitness.",
	id.ConsentRules:    "Please agree to program rules.",
	id.ConsentData:     "Please consent to data processing.",
}

// Consent requires the box to be ticked.
func Consent(kind id.ConsentKind, checked bool) string {
	if checked {
		return ""
	}
	return consentMessages[kind]
}
