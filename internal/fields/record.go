package fields

import (
	"bytes"
	"encoding/json"

	"github.com/joseph-ayodele/lease-extractor/constants"
)

// Record is the canonical output for one contract. Field order here is the
// serialized key order.
type Record struct {
	VehicleName            string   `json:"vehicle_name"`
	MonthlyPayment         string   `json:"monthly_payment"`
	DownPayment            string   `json:"down_payment"`
	LeaseTermMonths        string   `json:"lease_term_months"`
	AnnualMileage          string   `json:"annual_mileage"`
	ExcessMileageClause    string   `json:"excess_mileage_clause"`
	MaintenanceIncluded    string   `json:"maintenance_included"`
	TotalLeaseCost         string   `json:"total_lease_cost"`
	FuelType               string   `json:"fuel_type"`
	Transmission           string   `json:"transmission"`
	CO2Emissions           string   `json:"co2_emissions"`
	P11DValue              string   `json:"p11d_value"`
	NotAvailableInDocument []string `json:"not_available_in_document"`
}

// NewRecord returns a record with every field set to its absence value.
func NewRecord() Record {
	na := constants.NotAvailable
	return Record{
		VehicleName:            na,
		MonthlyPayment:         na,
		DownPayment:            na,
		LeaseTermMonths:        na,
		AnnualMileage:          na,
		ExcessMileageClause:    na,
		MaintenanceIncluded:    na,
		TotalLeaseCost:         na,
		FuelType:               na,
		Transmission:           na,
		CO2Emissions:           na,
		P11DValue:              na,
		NotAvailableInDocument: constants.FieldsNeverInDocument(),
	}
}

// Values returns the scalar fields keyed by field name.
func (r Record) Values() map[string]string {
	return map[string]string{
		constants.FieldVehicleName:         r.VehicleName,
		constants.FieldMonthlyPayment:      r.MonthlyPayment,
		constants.FieldDownPayment:         r.DownPayment,
		constants.FieldLeaseTermMonths:     r.LeaseTermMonths,
		constants.FieldAnnualMileage:       r.AnnualMileage,
		constants.FieldExcessMileageClause: r.ExcessMileageClause,
		constants.FieldMaintenanceIncluded: r.MaintenanceIncluded,
		constants.FieldTotalLeaseCost:      r.TotalLeaseCost,
		constants.FieldFuelType:            r.FuelType,
		constants.FieldTransmission:        r.Transmission,
		constants.FieldCO2Emissions:        r.CO2Emissions,
		constants.FieldP11DValue:           r.P11DValue,
	}
}

// Encode renders the record as 4-space indented JSON with a trailing newline.
// HTML characters are written as-is.
func (r Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
