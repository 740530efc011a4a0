package models

// EnergyStatusSuccess is the only status carrying a usable reading.
const EnergyStatusSuccess = "success"

// EnergyStatusResponse mirrors GET /api/energy_status/{address}.
type EnergyStatusResponse struct {
	Status    string `json:"status"`
	Energy    int64  `json:"energy"`
	HasEnough bool   `json:"has_enough"`
	Message   string `json:"message,omitempty"`
}
