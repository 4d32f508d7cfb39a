// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Valid access token required
	SecurityAdmin                       // Access token with the admin role required
)

// Route names used by the HTTP router.
const (
	RouteRoot     = "root"
	RouteHealth   = "health"
	RouteMetrics  = "metrics"
	RouteRegister = "auth.register"
	RouteLogin    = "auth.login"

	RouteListClubs   = "clubs.all"
	RouteListMyClubs = "clubs.my"
	RouteCreateClub  = "clubs.create"
	RouteGetClub     = "clubs.get"

	RouteRequestMembership = "membership.request"
	RouteListPending       = "membership.pending"
	RouteListMyRequests    = "membership.mine"
	RouteApproveRequest    = "membership.approve"
	RouteRejectRequest     = "membership.reject"

	RouteCreateEvent = "events.create"
	RouteListEvents  = "events.all"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteRoot:     SecurityPublic,
	RouteHealth:   SecurityPublic,
	RouteMetrics:  SecurityPublic,
	RouteRegister: SecurityPublic,
	RouteLogin:    SecurityPublic,

	// Clubs
	RouteListClubs:   SecurityAccess,
	RouteListMyClubs: SecurityAccess,
	RouteGetClub:     SecurityAccess,
	RouteCreateClub:  SecurityAdmin,

	// Membership requests. Admin routes are not scoped to the clubs an
	// admin runs: any admin may act on any club's requests.
	RouteRequestMembership: SecurityAccess,
	RouteListMyRequests:    SecurityAccess,
	RouteListPending:       SecurityAdmin,
	RouteApproveRequest:    SecurityAdmin,
	RouteRejectRequest:     SecurityAdmin,

	// Events
	RouteListEvents:  SecurityAccess,
	RouteCreateEvent: SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to access for unknown routes
	return SecurityAccess
}
