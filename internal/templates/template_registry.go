package templates

// Template names known to the registry.
const (
	AppModule    = "app-module"
	ServicesDecl = "services-decl"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerCompositionTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Render executes the named template.
func (tr *TemplateRegistry) Render(name string, data interface{}) (string, error) {
	return ExecuteTemplate(name, tr.MustGet(name), data)
}

func (tr *TemplateRegistry) registerCompositionTemplates() {
	tr.templates[AppModule] = AppModuleTemplate
	tr.templates[ServicesDecl] = ServicesDeclTemplate
}
