package health

type Input struct{}

type Output struct {
	Body Response
}

// Response tells a probing client the daemon is up and answering on its
// loopback port. The CLI uses it to distinguish "daemon down" from any
// other request failure.
type Response struct {
	Status string `json:"status" example:"OK" doc:"Daemon liveness"`
}
