package roles

import "github.com/mvp-joe/codelens/internal/model"

// Summarize folds parsed files into a RoleSummary. Entries follow the order
// of files and of declarations within each file, so sorted input gives a
// deterministic summary. Only a declaration's own methods contribute routes;
// flattened nested methods are counted under their owner.
func Summarize(files []model.FileAnalysis) *model.RoleSummary {
	s := &model.RoleSummary{
		Controllers:  []model.RoleEntry{},
		Services:     []model.RoleEntry{},
		Repositories: []model.RoleEntry{},
		Components:   []model.RoleEntry{},
		Entities:     []model.RoleEntry{},
		Routes:       map[string][]model.RouteEntry{},
	}

	for _, f := range files {
		for i := range f.Declarations {
			addDeclaration(s, f, &f.Declarations[i])
		}
	}
	return s
}

func addDeclaration(s *model.RoleSummary, f model.FileAnalysis, d *model.Declaration) {
	own := d.OwnMethods()

	if role, ok := Classify(d.Annotations); ok {
		entry := newEntry(f, d, own)
		switch role {
		case RoleController:
			s.Controllers = append(s.Controllers, entry)
		case RoleService:
			s.Services = append(s.Services, entry)
		case RoleRepository:
			s.Repositories = append(s.Repositories, entry)
		case RoleComponent:
			s.Components = append(s.Components, entry)
		}
	}
	if IsEntity(d.Annotations) {
		s.Entities = append(s.Entities, newEntry(f, d, own))
	}

	for _, m := range own {
		if m.Route == nil {
			continue
		}
		s.Routes[m.Route.Verb] = append(s.Routes[m.Route.Verb], model.RouteEntry{
			DeclarationName: d.Name,
			MethodName:      m.Name,
			Path:            m.Route.Path,
			StartLine:       m.Route.StartLine,
		})
	}
}

func newEntry(f model.FileAnalysis, d *model.Declaration, own []model.Method) model.RoleEntry {
	names := make([]string, 0, len(own))
	for _, m := range own {
		names = append(names, m.Name)
	}
	return model.RoleEntry{
		Name:        d.Name,
		Package:     f.Package,
		File:        f.Path,
		StartLine:   d.StartLine,
		MethodNames: names,
	}
}
