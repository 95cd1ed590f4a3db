package domain

// UtilityService enumerates the billers a utility payment can target.
type UtilityService string

const (
	ServiceAirtime     UtilityService = "AIRTIME"
	ServiceData        UtilityService = "DATA"
	ServiceElectricity UtilityService = "ELECTRICITY"
	ServiceWater       UtilityService = "WATER"
)

// IsValid checks whether the service is one of the supported billers.
func (s UtilityService) IsValid() bool {
	switch s {
	case ServiceAirtime, ServiceData, ServiceElectricity, ServiceWater:
		return true
	}
	return false
}

// Label returns the display name shown on statements.
func (s UtilityService) Label() string {
	switch s {
	case ServiceAirtime:
		return "Airtime"
	case ServiceData:
		return "Mobile Data"
	case ServiceElectricity:
		return "Electricity"
	case ServiceWater:
		return "Water"
	default:
		return string(s)
	}
}
