package domain

// ConsentKind names one of the declarations an applicant must accept.
// Invariant: a record is only accepted when every kind is true.
type ConsentKind string

// Declarations shared by every scheme form. The values are the form field names.
const (
	ConsentAccuracy ConsentKind = "consentAccuracy"
	ConsentMedical  ConsentKind = "consentMedical"
	ConsentRules    ConsentKind = "consentRules"
	ConsentData     ConsentKind = "consentData"
)

// ConsentKinds returns the declarations in form order.
func ConsentKinds() []ConsentKind {
	return []ConsentKind{ConsentAccuracy, ConsentMedical, ConsentRules, ConsentData}
}

// IsValid checks the kind is one of the supported declarations.
func (k ConsentKind) IsValid() bool {
	switch k {
	case ConsentAccuracy, ConsentMedical, ConsentRules, ConsentData:
		return true
	}
	return false
}

func (k ConsentKind) String() string {
	return string(k)
}
