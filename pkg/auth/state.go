package auth

//go:generate go run github.com/dmarkham/enumer -type State -trimprefix State -transform lower -output state.gen.go

// State is the authentication state of a request
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateRejected
)
