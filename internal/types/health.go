package types

type HealthStorage struct {
	Backend  string `json:"backend"`
	Location string `json:"location"`
}

type HealthResponse struct {
	Status         string        `json:"status"`
	Environment    string        `json:"environment"`
	EmailTransport string        `json:"emailTransport"`
	Storage        HealthStorage `json:"storage"`
}
