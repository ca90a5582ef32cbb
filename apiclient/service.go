package apiclient

// Service names the external REST service a Client targets.
// It only labels clients for logging and metrics.
type Service string

const (
	ServiceAssets       Service = "assets"
	ServiceNode         Service = "node"
	ServiceStateService Service = "state_service"
)

// String returns the service name
func (s Service) String() string {
	return string(s)
}
