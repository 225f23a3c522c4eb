package models

import "time"

// BloodGroup is the patient's blood classification.
type BloodGroup string

const (
	BloodGroupAPositive  BloodGroup = "A_POSITIVE"
	BloodGroupANegative  BloodGroup = "A_NEGATIVE"
	BloodGroupBPositive  BloodGroup = "B_POSITIVE"
	BloodGroupBNegative  BloodGroup = "B_NEGATIVE"
	BloodGroupABPositive BloodGroup = "AB_POSITIVE"
	BloodGroupABNegative BloodGroup = "AB_NEGATIVE"
	BloodGroupOPositive  BloodGroup = "O_POSITIVE"
	BloodGroupONegative  BloodGroup = "O_NEGATIVE"
)

// Valid reports whether bg is one of the known blood groups.
func (bg BloodGroup) Valid() bool {
	switch bg {
	case BloodGroupAPositive, BloodGroupANegative,
		BloodGroupBPositive, BloodGroupBNegative,
		BloodGroupABPositive, BloodGroupABNegative,
		BloodGroupOPositive, BloodGroupONegative:
		return true
	}
	return false
}

// Diagnosis is one clinical entry attached to a patient. Diagnoses are
// ordered most recent first when loaded from a store.
type Diagnosis struct {
	ID      int64
	Details string
	Date    time.Time
}

// Patient is the persisted record. ID is assigned by the store on first save.
type Patient struct {
	ID         int64
	Name       string
	Email      string
	BloodGroup BloodGroup
	Active     bool
	Diagnoses  []Diagnosis
}

// LatestDiagnosis returns the most recent diagnosis, or nil if none exists.
func (p *Patient) LatestDiagnosis() *Diagnosis {
	if len(p.Diagnoses) == 0 {
		return nil
	}
	return &p.Diagnoses[0]
}
