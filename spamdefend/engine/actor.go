package engine

// Actor identifies a local or remote account participating in the federated
// network. A nil Host means the account lives on the local instance;
// locally-hosted actors are exempt from all remote reputation heuristics.
type Actor struct {
	ID   string
	Host *string
}

func (a Actor) IsLocal() bool {
	return a.Host == nil
}

// HostString is the actor's host for logging, empty for local actors.
func (a Actor) HostString() string {
	if a.Host == nil {
		return ""
	}
	return *a.Host
}
