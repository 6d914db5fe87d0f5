package models

// CampaignCode identifies one of the static campaign datasets. The code is
// also the key prefix written into the shared call log.
type CampaignCode string

const (
	CampaignRecovery    CampaignCode = "recovery"
	CampaignConquestSN  CampaignCode = "conquest_sn"
	CampaignConquestEDA CampaignCode = "conquest_eda"
	CampaignParts       CampaignCode = "parts"
	CampaignService     CampaignCode = "service"
	CampaignConsignment CampaignCode = "consignment"

	// CampaignConquestPrefix groups the two conquest datasets into one
	// logical campaign for progress reporting and activity labels.
	CampaignConquestPrefix = "conquest"
)

// CampaignCodes lists every dataset code.
var CampaignCodes = []CampaignCode{
	CampaignRecovery,
	CampaignConquestSN,
	CampaignConquestEDA,
	CampaignParts,
	CampaignService,
	CampaignConsignment,
}

// String returns the string representation of the code
func (c CampaignCode) String() string {
	return string(c)
}

// Valid checks if the code names a known campaign dataset
func (c CampaignCode) Valid() bool {
	switch c {
	case CampaignRecovery, CampaignConquestSN, CampaignConquestEDA,
		CampaignParts, CampaignService, CampaignConsignment:
		return true
	default:
		return false
	}
}

// Title returns the display title used on the campaign cards.
func (c CampaignCode) Title() string {
	switch c {
	case CampaignRecovery:
		return "Recovery"
	case CampaignConquestSN:
		return "Conquest SN"
	case CampaignConquestEDA:
		return "Conquest EDA"
	case CampaignParts:
		return "Parts Campaign"
	case CampaignService:
		return "Service"
	case CampaignConsignment:
		return "Consignment"
	default:
		return string(c)
	}
}

// MonthNames maps month numbers to display names for the service
// seasonality campaign.
var MonthNames = map[int]string{
	1: "January", 2: "February", 3: "March", 4: "April",
	5: "May", 6: "June", 7: "July", 8: "August",
	9: "September", 10: "October", 11: "November", 12: "December",
}
