package domain

import "strings"

// Role groups mirroring the backend's permission classes.
var (
	ManagersOnly       = []Role{RoleManager}
	ManagersOrDispatch = []Role{RoleManager, RoleDispatcher}
	ManagersOrSafety   = []Role{RoleManager, RoleSafetyOfficer}
	ManagersOrAnalysts = []Role{RoleManager, RoleAnalyst}
)

// DeniedMessage phrases a role requirement the way the backend does,
// e.g. "Access denied. Manager or Dispatcher role required."
func DeniedMessage(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Display()
	}
	return "Access denied. " + strings.Join(names, " or ") + " role required."
}
