package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used on the wire.
const DateLayout = "2006-01-02"

// MonthLayout is the AdmissionMonth format.
const MonthLayout = "2006-01"

type Service string

const (
	ServiceGynecology Service = "Gynecology"
	ServiceSurgery    Service = "Surgery"
	ServiceEmergency  Service = "Emergency"
	ServiceObstetrics Service = "Obstetrics"
)

type Physician string

const (
	PhysicianLopez     Physician = "Dr. López"
	PhysicianMartinez  Physician = "Dra. Martínez"
	PhysicianVelazquez Physician = "Dr. Velázquez"
	PhysicianSanchez   Physician = "Dra. Sánchez"
)

type DeliveryType string

const (
	DeliveryCesarean DeliveryType = "Cesarean Section"
	DeliveryVaginal  DeliveryType = "Vaginal Delivery"
)

type Complication string

const (
	ComplicationNone        Complication = "None"
	ComplicationInfection   Complication = "Infection"
	ComplicationHemorrhage  Complication = "Hemorrhage"
	ComplicationFever       Complication = "Fever"
	ComplicationReadmission Complication = "Readmission"
)

type Sex string

const (
	SexFemale Sex = "Female"
	SexMale   Sex = "Male"
)

// Canonical orderings. Generators sample by index into these slices, so the
// order is part of the deterministic output.
var (
	services      = []Service{ServiceGynecology, ServiceSurgery, ServiceEmergency, ServiceObstetrics}
	physicians    = []Physician{PhysicianLopez, PhysicianMartinez, PhysicianVelazquez, PhysicianSanchez}
	deliveryTypes = []DeliveryType{DeliveryCesarean, DeliveryVaginal}
	complications = []Complication{
		ComplicationNone,
		ComplicationInfection,
		ComplicationHemorrhage,
		ComplicationFever,
		ComplicationReadmission,
	}
	sexes = []Sex{SexFemale, SexMale}
)

func Services() []Service           { return append([]Service(nil), services...) }
func Physicians() []Physician       { return append([]Physician(nil), physicians...) }
func DeliveryTypes() []DeliveryType { return append([]DeliveryType(nil), deliveryTypes...) }
func Complications() []Complication { return append([]Complication(nil), complications...) }
func Sexes() []Sex                  { return append([]Sex(nil), sexes...) }

// ParseService matches a known service case-insensitively.
func ParseService(s string) (Service, bool) {
	for _, v := range services {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, true
		}
	}
	return "", false
}

// ParsePhysician matches a known physician case-insensitively.
func ParsePhysician(s string) (Physician, bool) {
	for _, v := range physicians {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, true
		}
	}
	return "", false
}

// AdmissionRecord is one synthetic hospital admission.
type AdmissionRecord struct {
	PatientID             string       `json:"patient_id"`
	AdmissionDate         time.Time    `json:"admission_date"`
	Service               Service      `json:"service"`
	Physician             Physician    `json:"physician"`
	DeliveryType          DeliveryType `json:"delivery_type"`
	Complication          Complication `json:"complication"`
	LengthOfStayDays      int          `json:"length_of_stay_days"`
	Sex                   Sex          `json:"sex"`
	DischargeDate         time.Time    `json:"discharge_date"`
	ReadmittedWithin7Days bool         `json:"readmitted_within_7_days"`
	AdmissionMonth        string       `json:"admission_month"`
}

// NewAdmissionRecord fills the fields derived from the sampled ones:
// discharge date, the readmission flag and the admission month.
func NewAdmissionRecord(
	patientID string,
	admitted time.Time,
	service Service,
	physician Physician,
	delivery DeliveryType,
	complication Complication,
	stayDays int,
	sex Sex,
) AdmissionRecord {
	admitted = CalendarDay(admitted)
	return AdmissionRecord{
		PatientID:             patientID,
		AdmissionDate:         admitted,
		Service:               service,
		Physician:             physician,
		DeliveryType:          delivery,
		Complication:          complication,
		LengthOfStayDays:      stayDays,
		Sex:                   sex,
		DischargeDate:         admitted.AddDate(0, 0, stayDays),
		ReadmittedWithin7Days: complication == ComplicationReadmission,
		AdmissionMonth:        admitted.Format(MonthLayout),
	}
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ServiceComplication keys the grouped service × complication counts.
type ServiceComplication struct {
	Service      Service      `json:"service"`
	Complication Complication `json:"complication"`
}

// MonthCount is one point of the monthly admissions trend.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
