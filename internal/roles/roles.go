// Package roles classifies parsed declarations by framework annotations and
// folds them into a project-wide role and route summary.
package roles

// Role is a framework responsibility inferred from annotations.
type Role string

const (
	RoleController Role = "controller"
	RoleService    Role = "service"
	RoleRepository Role = "repository"
	RoleComponent  Role = "component"
)

type nameSet map[string]struct{}

func newSet(names ...string) nameSet {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s nameSet) any(names []string) bool {
	for _, n := range names {
		if _, ok := s[n]; ok {
			return true
		}
	}
	return false
}

// priority is checked in order; the first matching role wins.
var priority = []struct {
	role  Role
	names nameSet
}{
	{RoleController, newSet("Controller", "RestController")},
	{RoleService, newSet("Service", "Stateless", "Stateful", "Singleton")},
	{RoleRepository, newSet("Repository")},
	{RoleComponent, newSet("Component", "Configuration", "MessageDriven")},
}

var (
	entityAnnotations    = newSet("Entity", "Embeddable", "MappedSuperclass")
	injectionAnnotations = newSet("Autowired", "Inject", "Resource", "EJB", "PersistenceContext", "Value")
)

// Classify returns the highest-priority role whose annotations intersect
// the given set. A declaration carrying both a controller and a service
// annotation is a controller only.
func Classify(annotations []string) (Role, bool) {
	for _, p := range priority {
		if p.names.any(annotations) {
			return p.role, true
		}
	}
	return "", false
}

// IsEntity reports whether annotations mark a persistence entity. It is
// independent of Classify.
func IsEntity(annotations []string) bool {
	return entityAnnotations.any(annotations)
}

// IsFrameworkComponent reports whether annotations intersect the role
// table. Entity annotations alone do not count.
func IsFrameworkComponent(annotations []string) bool {
	_, ok := Classify(annotations)
	return ok
}

// IsInjection reports whether a field's annotations mark it as injected.
func IsInjection(annotations []string) bool {
	return injectionAnnotations.any(annotations)
}
